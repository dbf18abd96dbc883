package api

import (
	"context"
	"regexp"
	"strings"

	"github.com/ka2n/wpress/log"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// extractImageURLs returns the src of every <img> tag in the rendered
// HTML, preserving first-appearance order. Only https URLs are
// recognized.
func extractImageURLs(renderedHTML string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(renderedHTML))
	var urls []string
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return urls
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, value, more := tokenizer.TagAttr()
				if string(key) == "src" {
					if src := string(value); strings.HasPrefix(src, "https://") {
						urls = append(urls, src)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

// sizedSuffix matches an optional trailing -WIDTHxHEIGHT rendition
// suffix plus the file extension.
var sizedSuffix = regexp.MustCompile(`(-\d+x\d+)?\.[a-zA-Z0-9]+$`)

// imageKey normalizes an image URL for comparison, so differently
// sized renditions of the same source image compare equal.
func imageKey(u string) string {
	return sizedSuffix.ReplaceAllString(u, "")
}

// orderByAppearance sorts images into the appearance order of urls,
// comparing by normalized key. Images without a referencing URL are
// dropped.
func orderByAppearance(urls []string, images []Image) []Image {
	byKey := make(map[string]Image, len(images))
	for _, img := range images {
		byKey[imageKey(img.URL)] = img
	}

	var ordered []Image
	for _, u := range urls {
		if img, ok := byKey[imageKey(u)]; ok {
			ordered = append(ordered, img)
		}
	}
	return ordered
}

// imagesForContent returns the images referenced by renderedHTML in
// document order. The media attached to the parent resource is the
// primary match source; the full media library is the fallback when
// the attachment count disagrees with the content. With no matches at
// all the attached media is returned unsorted.
func (c *Client) imagesForContent(ctx context.Context, parentID int, renderedHTML string) ([]Image, error) {
	urls := extractImageURLs(renderedHTML)

	attachedRecords, err := c.attachedMedia(ctx, parentID)
	if err != nil {
		return nil, err
	}
	attached := lo.Map(attachedRecords, func(r Record, _ int) Image {
		return recordImage(r)
	})

	if len(urls) == len(attached) {
		if ordered := orderByAppearance(urls, attached); len(ordered) > 0 {
			return ordered, nil
		}
	} else {
		// Some referenced images are not attached to this resource;
		// match against the whole library instead.
		library, err := c.FetchAllImages(ctx)
		if err != nil {
			log.Warn("media library fetch failed", "parent", parentID, "error", err)
		} else if ordered := orderByAppearance(urls, library); len(ordered) > 0 {
			return ordered, nil
		}
	}

	return attached, nil
}
