// Package compile turns a resolved query shape into a backend query:
// filter_by clauses, geo clause and sort strategy.
package compile

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
)

// Text joins keywords into the backend query text, or the wildcard when empty.
func Text(keywords []string) string {
	if len(keywords) == 0 {
		return query.Wildcard
	}
	return strings.Join(keywords, " ")
}

// Compile builds the backend query for one page. It is pure: equal inputs
// give equal output apart from the page number supplied.
func Compile(keywords []string, filters filter.Set, page, perPage int) (query.Compiled, error) {
	if page < 1 {
		page = 1
	}
	filterBy, err := FilterBy(&filters)
	if err != nil {
		return query.Compiled{}, fmt.Errorf("compile filters: %w", err)
	}
	text := Text(keywords)
	tier, sortBy := ResolveSort(filters.Geo, text)

	return query.Compiled{
		Text:     text,
		FilterBy: filterBy,
		SortBy:   sortBy,
		Page:     page,
		PerPage:  perPage,
		Tier:     tier,
	}, nil
}
