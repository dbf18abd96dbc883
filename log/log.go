package log

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/motemen/go-loghttp"
)

// Logger is the package logger instance
var Logger *slog.Logger

// requestStarted tracks when each in-flight request left the client so
// its response can be logged with a duration.
var requestStarted sync.Map

// InitLogger initializes the package logger
// It sets the log level to Debug if WPRESS_DEBUG is set
func InitLogger() {
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}

	if os.Getenv("WPRESS_DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	Logger = slog.New(handler)

	loghttp.DefaultTransport.LogRequest = func(req *http.Request) {
		requestStarted.Store(req, time.Now())
		Debug("HTTP request",
			"method", req.Method,
			"url", req.URL.String(),
		)
	}

	loghttp.DefaultTransport.LogResponse = func(resp *http.Response) {
		args := []any{
			"method", resp.Request.Method,
			"url", resp.Request.URL.String(),
			"status_code", resp.StatusCode,
		}
		if started, ok := requestStarted.LoadAndDelete(resp.Request); ok {
			args = append(args, "duration", time.Since(started.(time.Time)))
		}
		Debug("HTTP response", args...)
	}
}

// init initializes the logger when the package is imported
func init() {
	InitLogger()
}

// HTTPTransport returns a RoundTripper that traces requests and
// responses at debug level, including per-request duration
func HTTPTransport() http.RoundTripper {
	return loghttp.DefaultTransport
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
