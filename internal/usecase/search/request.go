package search

import (
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
)

// Request is one search call. Filters are explicit selections and always
// win over what is extracted from Query.
type Request struct {
	Query    string
	Page     int
	PerPage  int
	Filters  filter.Set
	Position *geo.Point
	RadiusKm *float64
}

// Plan is a compiled request that has not been sent to the backend.
type Plan struct {
	Compiled          query.Compiled
	Shape             shape.Shape
	Filters           filter.Set
	CacheHit          bool
	UsingUserLocation bool
	SearchRadiusKm    float64
}

// Response is one page of search results plus the metadata the caller needs
// to render and page through them.
type Response struct {
	Hits              []query.Hit
	Found             int
	OutOf             int
	Page              int
	UsingUserLocation bool
	SearchRadiusKm    float64
	PlaceNames        []string
	Tier              query.Tier
}
