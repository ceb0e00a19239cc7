package chi

import (
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeInvalidGeo         ErrorCode = "invalid_geo"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeBackendUnavailable ErrorCode = "backend_unavailable"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /v1/search and /v1/search/compile.
type SearchRequest struct {
	Query    string      `json:"query"`
	Page     int         `json:"page,omitempty"`
	PerPage  int         `json:"per_page,omitempty"`
	Filters  *filter.Set `json:"filters,omitempty"`
	Position *geo.Point  `json:"position,omitempty"`
	RadiusKm *float64    `json:"radius_km,omitempty"`
}

// SearchMeta describes how the query was interpreted.
type SearchMeta struct {
	UsingUserLocation bool       `json:"using_user_location"`
	SearchRadiusKm    float64    `json:"search_radius_km"`
	PlaceNames        []string   `json:"place_names"`
	SortTier          query.Tier `json:"sort_tier"`
}

// SearchResponse is one page of results.
type SearchResponse struct {
	Hits  []query.Hit `json:"hits"`
	Found int         `json:"found"`
	OutOf int         `json:"out_of"`
	Page  int         `json:"page"`
	Meta  SearchMeta  `json:"meta"`
}

// CompileResponse shows the backend parameters a search would send.
type CompileResponse struct {
	Params   map[string]string `json:"params"`
	Shape    shape.Shape       `json:"shape"`
	CacheHit bool              `json:"cache_hit"`
	Meta     SearchMeta        `json:"meta"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
