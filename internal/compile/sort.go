package compile

import (
	"fmt"

	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
)

// Sort expressions for the text and browse tiers. Paid-tier rank is only
// ever a tie-break after relevance or distance.
const (
	textSort   = "_text_match:desc," + FieldSubscriptionRank + ":desc," + FieldBayesAvg + ":desc"
	browseSort = FieldSubscriptionRank + ":desc," + FieldBayesAvg + ":desc," + FieldReviewCount + ":desc"
)

// ResolveSort picks the sort tier: geo when a circle center is active, text
// when keywords are present, browse otherwise. Bounds have no center and do
// not select the geo tier.
func ResolveSort(spec *geo.Spec, text string) (query.Tier, string) {
	if c, ok := spec.Center(); ok {
		return query.TierGeo, fmt.Sprintf("%s(%s, %s):asc,_text_match:desc,%s:desc",
			LocationField, formatFloat(c.Lat), formatFloat(c.Lon), FieldSubscriptionRank)
	}
	if text != "" && text != query.Wildcard {
		return query.TierText, textSort
	}
	return query.TierBrowse, browseSort
}
