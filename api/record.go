package api

import (
	"github.com/mitchellh/mapstructure"
)

// Record is a resource exactly as the remote API returned it. The
// client reads a small set of known fields (slug, link, categories,
// featured_media, content.rendered) and leaves everything else
// untouched, so callers keep access to the full remote payload.
type Record map[string]any

// rendered mirrors WordPress's {"rendered": "..."} wrapper objects.
type rendered struct {
	Rendered string `mapstructure:"rendered"`
}

// media mirrors the subset of a media record the image pipeline reads.
type media struct {
	ID           int      `mapstructure:"id"`
	SourceURL    string   `mapstructure:"source_url"`
	AltText      string   `mapstructure:"alt_text"`
	Title        rendered `mapstructure:"title"`
	Caption      rendered `mapstructure:"caption"`
	Description  rendered `mapstructure:"description"`
	MediaDetails struct {
		Sizes map[string]struct {
			SourceURL string `mapstructure:"source_url"`
		} `mapstructure:"sizes"`
	} `mapstructure:"media_details"`
}

func decodeMedia(r Record) (media, error) {
	var m media
	if err := mapstructure.Decode(map[string]any(r), &m); err != nil {
		return media{}, err
	}
	return m, nil
}

// ID returns the record's numeric id, or zero when absent.
func (r Record) ID() int {
	return r.intField("id")
}

// Slug returns the record's own slug field.
func (r Record) Slug() string {
	s, _ := r["slug"].(string)
	return s
}

// Link returns the record's canonical link.
func (r Record) Link() string {
	s, _ := r["link"].(string)
	return s
}

// FeaturedMedia returns the id of the record's featured media item, or
// zero when it has none.
func (r Record) FeaturedMedia() int {
	return r.intField("featured_media")
}

// RenderedTitle returns title.rendered, or "" when absent.
func (r Record) RenderedTitle() string {
	return r.renderedField("title")
}

// RenderedContent returns content.rendered, or "" when absent.
func (r Record) RenderedContent() string {
	return r.renderedField("content")
}

func (r Record) renderedField(key string) string {
	value, ok := r[key]
	if !ok {
		return ""
	}
	var w rendered
	if err := mapstructure.Decode(value, &w); err != nil {
		return ""
	}
	return w.Rendered
}

// intField reads a numeric field. JSON numbers arrive as float64.
func (r Record) intField(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func toRecords(raw []map[string]any) []Record {
	records := make([]Record, len(raw))
	for i, m := range raw {
		records[i] = Record(m)
	}
	return records
}
