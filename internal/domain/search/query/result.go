package query

import "github.com/kailas-cloud/geosearch/internal/domain/geo"

// Hit is one matched listing as returned by the backend.
type Hit struct {
	ID         string         `json:"id"`
	Document   map[string]any `json:"document"`
	TextMatch  int64          `json:"text_match,omitempty"`
	Location   *geo.Point     `json:"location,omitempty"`
	DistanceKm *float64       `json:"distance_km,omitempty"`
}

// Result is one page of backend results.
type Result struct {
	Hits  []Hit `json:"hits"`
	Found int   `json:"found"`
	OutOf int   `json:"out_of"`
	Page  int   `json:"page"`
}
