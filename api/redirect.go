package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/ka2n/wpress/log"
	"golang.org/x/sync/errgroup"
)

// resolveRedirects repairs posts whose canonical slug the remote has
// silently changed. Every post in the batch is checked concurrently;
// output order matches input order, and a failure on one post keeps
// that post unmodified without touching its siblings.
func (c *Client) resolveRedirects(ctx context.Context, records []Record) []Record {
	resolved := make([]Record, len(records))
	var g errgroup.Group
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			resolved[i] = c.resolveRedirect(ctx, rec)
			return nil
		})
	}
	g.Wait()
	return resolved
}

// resolveRedirect compares a post's own slug against the first path
// segment of its link. On a mismatch the link slug is authoritative:
// the record behind it is fetched and the original's categories, image
// and rendered title are overlaid, since those are what the caller's
// request was shaped around.
func (c *Client) resolveRedirect(ctx context.Context, rec Record) Record {
	slug := rec.Slug()
	link := rec.Link()
	if slug == "" || link == "" {
		return rec
	}

	moved := linkSlug(link)
	if moved == "" || moved == slug {
		return rec
	}

	target, err := c.fetchBySlugAny(ctx, moved)
	if err != nil {
		log.Warn("redirect resolution failed",
			"slug", slug, "link", link, "error", err)
		return rec
	}
	if target == nil {
		log.Debug("redirect target not found", "slug", slug, "link", link)
		return rec
	}

	if v, ok := rec["categories"]; ok {
		target["categories"] = v
	}
	if v, ok := rec["image"]; ok {
		target["image"] = v
	}
	if title := rec.RenderedTitle(); title != "" {
		setRendered(target, "title", title)
	}
	return target
}

// linkSlug extracts the first path segment of a link URL.
func linkSlug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	segment := strings.Trim(u.Path, "/")
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	return segment
}

// fetchBySlugAny looks a slug up as a post first, then as a page.
// A nil record with nil error means neither matched.
func (c *Client) fetchBySlugAny(ctx context.Context, slug string) (Record, error) {
	for _, endpoint := range []string{"posts", "pages"} {
		raw, err := c.transport.Get(ctx, endpoint, url.Values{"slug": {slug}})
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			return Record(raw[0]), nil
		}
	}
	return nil, nil
}

// setRendered replaces the rendered variant of a {rendered: ...} field
// in place, preserving sibling keys.
func setRendered(rec Record, key, value string) {
	if m, ok := rec[key].(map[string]any); ok {
		m["rendered"] = value
		return
	}
	rec[key] = map[string]any{"rendered": value}
}
