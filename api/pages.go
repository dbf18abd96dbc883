package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/morikuni/failure/v2"
)

// FetchPages returns pages. A quantity above zero caps the page size;
// zero or NoLimit keeps the remote default.
func (c *Client) FetchPages(ctx context.Context, quantity int, fields ...string) ([]Record, error) {
	return c.fetchPages(ctx, "pages", buildQuery(fields, quantity), fields)
}

// FetchPagesByCategory returns pages belonging to the given category.
// Stock WordPress pages carry no categories, so this filters only on
// sites that register the taxonomy for pages.
func (c *Client) FetchPagesByCategory(ctx context.Context, categoryID, quantity int, fields ...string) ([]Record, error) {
	query := buildQuery(fields, quantity)
	query.Set("categories", strconv.Itoa(categoryID))
	return c.fetchPages(ctx, "pages", query, fields)
}

// FetchPageBySlug returns a one-element list holding the page with the
// given slug, or ErrNotFound when no page matches.
func (c *Client) FetchPageBySlug(ctx context.Context, slug string, fields ...string) ([]Record, error) {
	query := buildQuery(fields, 0)
	query.Set("slug", slug)
	records, err := c.fetchPages(ctx, "pages", query, fields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, failure.New(ErrNotFound,
			failure.Message("no page with slug"),
			failure.Context{"slug": slug},
		)
	}
	return records, nil
}

// FetchPageByID returns a one-element list holding the page with the
// given id.
func (c *Client) FetchPageByID(ctx context.Context, id int, fields ...string) ([]Record, error) {
	return c.fetchPages(ctx, "pages/"+strconv.Itoa(id), buildQuery(fields, 0), fields)
}

func (c *Client) fetchPages(ctx context.Context, endpoint string, query url.Values, fields []string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	records := toRecords(raw)
	if wantsImages(fields) {
		c.attachFeaturedImages(ctx, records)
	}
	return records, nil
}
