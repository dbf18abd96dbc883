package api

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ka2n/wpress/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Image is a resolved media descriptor. Posts and pages fetched with
// image enrichment carry one under the "image" key.
type Image struct {
	ID      int    `json:"id" mapstructure:"id"`
	URL     string `json:"url" mapstructure:"url"`
	Title   string `json:"title" mapstructure:"title"`
	Alt     string `json:"alt" mapstructure:"alt"`
	Caption string `json:"caption" mapstructure:"caption"`
}

// FetchAllImages returns the entire media library flattened into image
// descriptors.
func (c *Client) FetchAllImages(ctx context.Context) ([]Image, error) {
	library, err := c.mediaLibraryRecords(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(library, func(r Record, _ int) Image {
		return recordImage(r)
	}), nil
}

// FetchImagesForPageBySlug returns the images referenced inside the
// given page's rendered content, in document order.
func (c *Client) FetchImagesForPageBySlug(ctx context.Context, slug string) ([]Image, error) {
	pages, err := c.FetchPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	page := pages[0]
	return c.imagesForContent(ctx, page.ID(), page.RenderedContent())
}

// attachFeaturedImages resolves featured_media for every record in the
// batch concurrently. A failure on one record degrades that record to
// an empty descriptor and never touches its siblings.
func (c *Client) attachFeaturedImages(ctx context.Context, records []Record) {
	var g errgroup.Group
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			c.attachFeaturedImage(ctx, rec)
			return nil
		})
	}
	g.Wait()
}

// attachFeaturedImage is idempotent: a record that already carries a
// non-empty image keeps it.
func (c *Client) attachFeaturedImage(ctx context.Context, rec Record) {
	if hasImage(rec["image"]) {
		return
	}
	id := rec.FeaturedMedia()
	if id == 0 {
		return
	}

	img, err := c.resolveImage(ctx, id)
	if err != nil {
		log.Warn("featured image resolution failed",
			"media", id, "record", rec.Slug(), "error", err)
		img = Image{}
	}
	rec["image"] = img
}

// resolveImage fetches a media record and condenses it into an Image.
func (c *Client) resolveImage(ctx context.Context, id int) (Image, error) {
	records, err := c.transport.Get(ctx, "media/"+strconv.Itoa(id), nil)
	if err != nil {
		return Image{}, err
	}
	if len(records) == 0 {
		return Image{}, nil
	}
	return recordImage(Record(records[0])), nil
}

// recordImage builds an Image descriptor from a media record. Missing
// size metadata yields the zero descriptor rather than an error.
func recordImage(r Record) Image {
	m, err := decodeMedia(r)
	if err != nil {
		log.Warn("media record decode failed", "media", r.ID(), "error", err)
		return Image{}
	}

	full, ok := m.MediaDetails.Sizes["full"]
	if !ok {
		return Image{}
	}

	return Image{
		ID:      m.ID,
		URL:     full.SourceURL,
		Title:   m.Title.Rendered,
		Alt:     m.AltText,
		Caption: captionText(m),
	}
}

func hasImage(v any) bool {
	switch img := v.(type) {
	case nil:
		return false
	case Image:
		return img != (Image{})
	case map[string]any:
		return len(img) > 0
	case string:
		return img != ""
	default:
		return true
	}
}

var (
	blockquoteMarkup = regexp.MustCompile(`(?s)<blockquote[^>]*>(.*?)</blockquote>`)
	anchorHref       = regexp.MustCompile(`<a[^>]+href="([^"]+)"`)
)

// captionText prefers the origin of a link embedded in the media
// description over the plain caption text. Only anchors inside a
// blockquote count; links elsewhere in the description do not.
func captionText(m media) string {
	for _, quote := range blockquoteMarkup.FindAllStringSubmatch(m.Description.Rendered, -1) {
		if link := anchorHref.FindStringSubmatch(quote[1]); link != nil {
			return urlOrigin(link[1])
		}
	}
	return stripParagraphs(m.Caption.Rendered)
}

// urlOrigin truncates a URL at the third slash, keeping scheme and
// host.
func urlOrigin(raw string) string {
	parts := strings.SplitN(raw, "/", 4)
	if len(parts) < 4 {
		return raw
	}
	return strings.Join(parts[:3], "/")
}

var paragraphMarkup = strings.NewReplacer("<p>", "", "</p>", "", "\n", "")

func stripParagraphs(s string) string {
	return strings.TrimSpace(paragraphMarkup.Replace(s))
}
