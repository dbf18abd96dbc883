package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestURLOrigin(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "path truncated at third slash",
			url:  "https://photos.example/albums/2024/cover.jpg",
			want: "https://photos.example",
		},
		{
			name: "bare origin unchanged",
			url:  "https://photos.example",
			want: "https://photos.example",
		},
		{
			name: "trailing slash only",
			url:  "https://photos.example/",
			want: "https://photos.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := urlOrigin(tt.url); got != tt.want {
				t.Errorf("urlOrigin(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestCaptionText(t *testing.T) {
	tests := []struct {
		name        string
		caption     string
		description string
		want        string
	}{
		{
			name:    "paragraph markup stripped",
			caption: "<p>A caption</p>\n",
			want:    "A caption",
		},
		{
			name:        "embedded link origin wins over caption",
			caption:     "<p>ignored</p>",
			description: `<blockquote class="embed"><p>Photo by <a href="https://photos.example/albums/2024/cover.jpg">someone</a></p></blockquote>`,
			want:        "https://photos.example",
		},
		{
			name:        "description without blockquote link falls back",
			caption:     "<p>kept</p>",
			description: "<p>plain description</p>",
			want:        "kept",
		},
		{
			name:        "anchor after a link-free blockquote is not a credit link",
			caption:     "<p>kept</p>",
			description: `<blockquote><p>no link here</p></blockquote><p>See <a href="https://elsewhere.example/page">this</a></p>`,
			want:        "kept",
		},
		{
			name:        "later blockquote carrying the link still wins",
			caption:     "<p>ignored</p>",
			description: `<blockquote><p>plain</p></blockquote><blockquote><a href="https://photos.example/albums/cover.jpg">credit</a></blockquote>`,
			want:        "https://photos.example",
		},
		{
			name: "empty caption",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := media{}
			m.Caption.Rendered = tt.caption
			m.Description.Rendered = tt.description
			if got := captionText(m); got != tt.want {
				t.Errorf("captionText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordImage(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   Image
	}{
		{
			name: "full record",
			record: Record{
				"id":       float64(42),
				"alt_text": "An image",
				"title":    map[string]any{"rendered": "Title"},
				"caption":  map[string]any{"rendered": "<p>Caption</p>"},
				"media_details": map[string]any{
					"sizes": map[string]any{
						"full":      map[string]any{"source_url": "https://site.example/a.jpg"},
						"thumbnail": map[string]any{"source_url": "https://site.example/a-150x150.jpg"},
					},
				},
			},
			want: Image{
				ID:      42,
				URL:     "https://site.example/a.jpg",
				Title:   "Title",
				Alt:     "An image",
				Caption: "Caption",
			},
		},
		{
			name: "missing size metadata degrades to zero descriptor",
			record: Record{
				"id":    float64(42),
				"title": map[string]any{"rendered": "Title"},
			},
			want: Image{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordImage(tt.record)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("recordImage() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHasImage(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "absent", value: nil, want: false},
		{name: "zero descriptor", value: Image{}, want: false},
		{name: "resolved descriptor", value: Image{URL: "https://site.example/a.jpg"}, want: true},
		{name: "empty map", value: map[string]any{}, want: false},
		{name: "populated map", value: map[string]any{"url": "x"}, want: true},
		{name: "empty string", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasImage(tt.value); got != tt.want {
				t.Errorf("hasImage(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestAttachFeaturedImageDegradesOnFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := Record{"slug": "broken", "featured_media": float64(5)}
	c.attachFeaturedImage(context.Background(), rec)

	if diff := cmp.Diff(Image{}, rec["image"]); diff != "" {
		t.Errorf("record image mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachFeaturedImageSkipsResolved(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))

	existing := Image{ID: 1, URL: "https://site.example/a.jpg"}
	rec := Record{"featured_media": float64(5), "image": existing}
	c.attachFeaturedImage(context.Background(), rec)

	if calls != 0 {
		t.Errorf("media fetches = %d, want 0", calls)
	}
	if rec["image"] != existing {
		t.Errorf("image = %v, want untouched %v", rec["image"], existing)
	}
}

func TestAttachFeaturedImageSkipsWithoutMedia(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))

	rec := Record{"slug": "bare", "featured_media": float64(0)}
	c.attachFeaturedImage(context.Background(), rec)

	if calls != 0 {
		t.Errorf("media fetches = %d, want 0", calls)
	}
	if _, ok := rec["image"]; ok {
		t.Error("record without featured_media must stay without image")
	}
}
