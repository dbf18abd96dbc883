package api

// ErrorCode defines error types for client operations
type ErrorCode string

const (
	// ErrNotFound represents a slug or id lookup that returned zero records
	ErrNotFound ErrorCode = "NotFound"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
