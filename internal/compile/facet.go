package compile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
)

// Indexed field names of a listing document.
const (
	FieldCategory         = "category"
	FieldCountry          = "country"
	FieldVerified         = "verified"
	FieldLocality         = "locality"
	FieldAdminArea        = "admin_area"
	FieldOwnerID          = "owner_id"
	FieldOrganic          = "is_organic"
	FieldCertifications   = "certifications"
	FieldCommodities      = "commodities"
	FieldVariants         = "variants"
	FieldSubscriptionRank = "subscription_rank"
	FieldAvgRating        = "avg_rating"
	FieldBayesAvg         = "bayes_avg"
	FieldReviewCount      = "review_count"
	FieldID               = "id"
)

const clauseSeparator = " && "

// FacetClauses converts a merged filter set into filter_by clauses in a
// fixed field order. The geo spec is not included; see GeoClause.
func FacetClauses(s *filter.Set) []string {
	var clauses []string
	add := func(c string) { clauses = append(clauses, c) }

	if s.Category != nil {
		add(FieldCategory + ":=" + string(*s.Category))
	}
	if s.Country != nil && *s.Country != "" {
		add(FieldCountry + ":=" + quote(*s.Country))
	}
	if s.Verified != nil {
		add(FieldVerified + ":=" + strconv.FormatBool(*s.Verified))
	}
	if s.Locality != nil && *s.Locality != "" {
		add(FieldLocality + ":=" + quote(*s.Locality))
	}
	if s.AdminArea != nil && *s.AdminArea != "" {
		add(FieldAdminArea + ":=" + quote(*s.AdminArea))
	}
	if s.IsClaimed != nil {
		// Claimed listings carry a non-empty owner id.
		if *s.IsClaimed {
			add(FieldOwnerID + ":!=``")
		} else {
			add(FieldOwnerID + ":=``")
		}
	}
	if s.OrganicOnly != nil {
		add(FieldOrganic + ":=" + strconv.FormatBool(*s.OrganicOnly))
	}
	for _, cert := range s.Certifications {
		add(FieldCertifications + ":=[" + quote(cert) + "]")
	}
	if len(s.Commodities) > 0 {
		add(FieldCommodities + ":=" + quoteList(s.Commodities))
	}
	if len(s.Variants) > 0 {
		add(FieldVariants + ":=" + quoteList(s.Variants))
	}
	clauses = appendRange(clauses, FieldSubscriptionRank, s.SubscriptionRank)
	clauses = appendRange(clauses, FieldAvgRating, s.AvgRating)
	clauses = appendRange(clauses, FieldBayesAvg, s.BayesAvg)
	clauses = appendRange(clauses, FieldReviewCount, s.ReviewCount)
	if len(s.IDs) > 0 {
		add(FieldID + ":=" + quoteList(s.IDs))
	}
	if len(s.ExcludeIDs) > 0 {
		add(FieldID + ":!=" + quoteList(s.ExcludeIDs))
	}
	return clauses
}

// FilterBy builds the complete filter_by string: facet clauses followed by
// the geo clause, joined with logical AND. It returns "" when nothing applies.
func FilterBy(s *filter.Set) (string, error) {
	clauses := FacetClauses(s)
	geoClause, err := GeoClause(s.Geo)
	if err != nil {
		return "", err
	}
	if geoClause != "" {
		clauses = append(clauses, geoClause)
	}
	return strings.Join(clauses, clauseSeparator), nil
}

func appendRange(clauses []string, field string, r *filter.Range) []string {
	if r.IsEmpty() {
		return clauses
	}
	if r.Min != nil {
		clauses = append(clauses, fmt.Sprintf("%s:>=%s", field, formatFloat(*r.Min)))
	}
	if r.Max != nil {
		clauses = append(clauses, fmt.Sprintf("%s:<=%s", field, formatFloat(*r.Max)))
	}
	return clauses
}

// quote wraps a value in backticks. Backticks inside the value are dropped
// since the filter grammar has no escape for them.
func quote(v string) string {
	return "`" + strings.ReplaceAll(v, "`", "") + "`"
}

func quoteList(vals []string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
