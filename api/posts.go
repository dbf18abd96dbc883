package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/morikuni/failure/v2"
)

// FetchPosts returns posts. A quantity above zero caps the page size;
// zero or NoLimit keeps the remote default.
func (c *Client) FetchPosts(ctx context.Context, quantity int, fields ...string) ([]Record, error) {
	return c.fetchPosts(ctx, "posts", buildQuery(fields, quantity), fields)
}

// FetchPostsByCategory returns posts belonging to the given category.
func (c *Client) FetchPostsByCategory(ctx context.Context, categoryID, quantity int, fields ...string) ([]Record, error) {
	query := buildQuery(fields, quantity)
	query.Set("categories", strconv.Itoa(categoryID))
	return c.fetchPosts(ctx, "posts", query, fields)
}

// FetchPostBySlug returns a one-element list holding the post with the
// given slug, or ErrNotFound when no post matches.
func (c *Client) FetchPostBySlug(ctx context.Context, slug string, fields ...string) ([]Record, error) {
	query := buildQuery(fields, 0)
	query.Set("slug", slug)
	records, err := c.fetchPosts(ctx, "posts", query, fields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, failure.New(ErrNotFound,
			failure.Message("no post with slug"),
			failure.Context{"slug": slug},
		)
	}
	return records, nil
}

// FetchPostByID returns a one-element list holding the post with the
// given id.
func (c *Client) FetchPostByID(ctx context.Context, id int, fields ...string) ([]Record, error) {
	return c.fetchPosts(ctx, "posts/"+strconv.Itoa(id), buildQuery(fields, 0), fields)
}

// fetchPosts runs a post query and applies the post-specific
// enrichment: featured image resolution when the field selection asks
// for image data, then redirect repair across the batch.
func (c *Client) fetchPosts(ctx context.Context, endpoint string, query url.Values, fields []string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	records := toRecords(raw)
	if wantsImages(fields) {
		c.attachFeaturedImages(ctx, records)
	}
	return c.resolveRedirects(ctx, records), nil
}
