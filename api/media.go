package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ka2n/wpress/api/transport"
)

// mediaPageSize is the largest page the remote accepts.
const mediaPageSize = 100

// FetchMedia returns media records. A quantity above zero caps the
// page size; zero or NoLimit keeps the remote default.
func (c *Client) FetchMedia(ctx context.Context, quantity int, fields ...string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, "media", buildQuery(fields, quantity))
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

// FetchMediaByID returns a one-element list holding the media item with
// the given id.
func (c *Client) FetchMediaByID(ctx context.Context, id int, fields ...string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, "media/"+strconv.Itoa(id), buildQuery(fields, 0))
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

// Fetch performs a GET against any route under /wp-json/wp/v2/,
// including custom-registered ones, passing query through untouched.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) ([]Record, error) {
	raw, err := c.transport.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

// attachedMedia returns the media items whose parent is the given
// resource id.
func (c *Client) attachedMedia(ctx context.Context, parentID int) ([]Record, error) {
	query := url.Values{
		"parent":   {strconv.Itoa(parentID)},
		"per_page": {strconv.Itoa(mediaPageSize)},
	}
	raw, err := c.transport.Get(ctx, "media", query)
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

// mediaLibraryRecords pages through the entire media library. The
// result is cached for the lifetime of the process and concurrent
// callers converge onto a single paginated fetch.
func (c *Client) mediaLibraryRecords(ctx context.Context) ([]Record, error) {
	return c.mediaLibrary.GetOrSet("media:all", func() ([]Record, error) {
		var all []Record
		for page := 1; ; page++ {
			query := url.Values{
				"per_page": {strconv.Itoa(mediaPageSize)},
				"page":     {strconv.Itoa(page)},
			}
			raw, err := c.transport.Get(ctx, "media", query)
			if err != nil {
				// The remote answers 400 for a page number past the
				// end of an exact-multiple listing; anything else is a
				// genuine failure and must not truncate the library
				if page > 1 && transport.StatusCode(err) == http.StatusBadRequest {
					break
				}
				return nil, err
			}
			all = append(all, toRecords(raw)...)
			if len(raw) < mediaPageSize {
				break
			}
		}
		return all, nil
	}, false)
}
