package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// NoLimit requests every record the remote default allows while still
// filtering fields.
const NoLimit = -1

// buildQuery assembles the two parameters the client constructs itself:
// _fields from the caller's field selection (deduplicated, first
// occurrence order) and per_page from the quantity. A quantity of zero
// or NoLimit leaves per_page to the remote default.
func buildQuery(fields []string, quantity int) url.Values {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("_fields", strings.Join(lo.Uniq(fields), ","))
	}
	if quantity > 0 {
		query.Set("per_page", strconv.Itoa(quantity))
	}
	return query
}
