package filter

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/listing"
)

// MaxListSize is the maximum number of values in a set-valued filter.
const MaxListSize = 64

// Range is an inclusive numeric range. Either bound may be absent.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether no bound is set.
func (r *Range) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Validate rejects inverted ranges.
func (r *Range) Validate() error {
	if r.IsEmpty() {
		return nil
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("min %v is greater than max %v", *r.Min, *r.Max)
	}
	return nil
}

// Set holds optional listing constraints. A nil field is "not constrained";
// a non-nil field is a constraint, including an explicit false.
// A nil slice is absent, a non-nil empty slice explicitly clears the field.
type Set struct {
	Category       *listing.Category `json:"category,omitempty"`
	Commodities    []string          `json:"commodities,omitempty"`
	Variants       []string          `json:"variants,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	OrganicOnly    *bool             `json:"organic_only,omitempty"`
	Verified       *bool             `json:"verified,omitempty"`
	IsClaimed      *bool             `json:"is_claimed,omitempty"`
	Locality       *string           `json:"locality,omitempty"`
	AdminArea      *string           `json:"admin_area,omitempty"`
	Country        *string           `json:"country,omitempty"`

	SubscriptionRank *Range `json:"subscription_rank,omitempty"`
	AvgRating        *Range `json:"avg_rating,omitempty"`
	BayesAvg         *Range `json:"bayes_avg,omitempty"`
	ReviewCount      *Range `json:"review_count,omitempty"`

	IDs        []string `json:"ids,omitempty"`
	ExcludeIDs []string `json:"exclude_ids,omitempty"`

	Geo *geo.Spec `json:"geo,omitempty"`
}

// Validate checks set-level constraints: known category, list sizes,
// range ordering and geo spec.
func (s *Set) Validate() error {
	if s.Category != nil && !s.Category.IsValid() {
		return fmt.Errorf("unknown category %q", *s.Category)
	}
	lists := map[string][]string{
		"commodities":    s.Commodities,
		"variants":       s.Variants,
		"certifications": s.Certifications,
		"ids":            s.IDs,
		"exclude_ids":    s.ExcludeIDs,
	}
	for name, l := range lists {
		if len(l) > MaxListSize {
			return fmt.Errorf("too many %s (max %d)", name, MaxListSize)
		}
	}
	ranges := map[string]*Range{
		"subscription_rank": s.SubscriptionRank,
		"avg_rating":        s.AvgRating,
		"bayes_avg":         s.BayesAvg,
		"review_count":      s.ReviewCount,
	}
	for name, r := range ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if s.Geo != nil {
		if err := s.Geo.Validate(); err != nil {
			return fmt.Errorf("geo: %w", err)
		}
	}
	return nil
}

// Merge returns base with every field the override sets replaced by the
// override's value. Neither argument is modified.
func Merge(base, override Set) Set {
	out := base.Clone()
	o := override.Clone()

	if o.Category != nil {
		out.Category = o.Category
	}
	if o.Commodities != nil {
		out.Commodities = o.Commodities
	}
	if o.Variants != nil {
		out.Variants = o.Variants
	}
	if o.Certifications != nil {
		out.Certifications = o.Certifications
	}
	if o.OrganicOnly != nil {
		out.OrganicOnly = o.OrganicOnly
	}
	if o.Verified != nil {
		out.Verified = o.Verified
	}
	if o.IsClaimed != nil {
		out.IsClaimed = o.IsClaimed
	}
	if o.Locality != nil {
		out.Locality = o.Locality
	}
	if o.AdminArea != nil {
		out.AdminArea = o.AdminArea
	}
	if o.Country != nil {
		out.Country = o.Country
	}
	if o.SubscriptionRank != nil {
		out.SubscriptionRank = o.SubscriptionRank
	}
	if o.AvgRating != nil {
		out.AvgRating = o.AvgRating
	}
	if o.BayesAvg != nil {
		out.BayesAvg = o.BayesAvg
	}
	if o.ReviewCount != nil {
		out.ReviewCount = o.ReviewCount
	}
	if o.IDs != nil {
		out.IDs = o.IDs
	}
	if o.ExcludeIDs != nil {
		out.ExcludeIDs = o.ExcludeIDs
	}
	if o.Geo != nil {
		out.Geo = o.Geo
	}
	return out
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := s
	out.Category = clonePtr(s.Category)
	out.OrganicOnly = clonePtr(s.OrganicOnly)
	out.Verified = clonePtr(s.Verified)
	out.IsClaimed = clonePtr(s.IsClaimed)
	out.Locality = clonePtr(s.Locality)
	out.AdminArea = clonePtr(s.AdminArea)
	out.Country = clonePtr(s.Country)
	out.Commodities = slices.Clone(s.Commodities)
	out.Variants = slices.Clone(s.Variants)
	out.Certifications = slices.Clone(s.Certifications)
	out.IDs = slices.Clone(s.IDs)
	out.ExcludeIDs = slices.Clone(s.ExcludeIDs)
	out.SubscriptionRank = cloneRange(s.SubscriptionRank)
	out.AvgRating = cloneRange(s.AvgRating)
	out.BayesAvg = cloneRange(s.BayesAvg)
	out.ReviewCount = cloneRange(s.ReviewCount)
	if s.Geo != nil {
		g := geo.Spec{}
		if s.Geo.Bounds != nil {
			b := *s.Geo.Bounds
			g.Bounds = &b
		}
		if s.Geo.Circle != nil {
			c := *s.Geo.Circle
			g.Circle = &c
		}
		out.Geo = &g
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRange(r *Range) *Range {
	if r == nil {
		return nil
	}
	return &Range{Min: clonePtr(r.Min), Max: clonePtr(r.Max)}
}

// Ptr returns a pointer to v, for building optional fields.
func Ptr[T any](v T) *T { return &v }
