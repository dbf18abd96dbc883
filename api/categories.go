package api

import (
	"context"
	"strconv"

	"github.com/morikuni/failure/v2"
)

// FetchCategories returns categories. A quantity above zero caps the
// page size; zero or NoLimit keeps the remote default.
func (c *Client) FetchCategories(ctx context.Context, quantity int, fields ...string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, "categories", buildQuery(fields, quantity))
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}

// FetchCategoryBySlug returns a one-element list holding the category
// with the given slug, or ErrNotFound when no category matches.
func (c *Client) FetchCategoryBySlug(ctx context.Context, slug string, fields ...string) ([]Record, error) {
	query := buildQuery(fields, 0)
	query.Set("slug", slug)
	raw, err := c.transport.Get(ctx, "categories", query)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, failure.New(ErrNotFound,
			failure.Message("no category with slug"),
			failure.Context{"slug": slug},
		)
	}
	return toRecords(raw), nil
}

// FetchCategoryByID returns a one-element list holding the category
// with the given id.
func (c *Client) FetchCategoryByID(ctx context.Context, id int, fields ...string) ([]Record, error) {
	raw, err := c.transport.Get(ctx, "categories/"+strconv.Itoa(id), buildQuery(fields, 0))
	if err != nil {
		return nil, err
	}
	return toRecords(raw), nil
}
