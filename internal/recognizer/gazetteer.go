package recognizer

import (
	"context"

	"github.com/kailas-cloud/geosearch/internal/extract"
)

// DefaultGazetteer covers US states and a few countries common in listings.
var DefaultGazetteer = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont", "Virginia",
	"Washington", "West Virginia", "Wisconsin", "Wyoming",
	"United States", "Canada", "Mexico", "United Kingdom", "Ireland",
	"France", "Italy", "Spain", "Germany", "Australia", "New Zealand",
}

// Gazetteer recognizes names from a fixed list, case-insensitively and as
// whole words. Matches are returned as they appear in the text.
type Gazetteer struct {
	pattern *extract.WordPattern
}

// NewGazetteer compiles names. An empty list falls back to DefaultGazetteer.
func NewGazetteer(names []string) *Gazetteer {
	if len(names) == 0 {
		names = DefaultGazetteer
	}
	return &Gazetteer{pattern: extract.NewWordPattern(names)}
}

func (g *Gazetteer) Recognize(_ context.Context, text string) ([]string, error) {
	spans := g.pattern.Spans(text)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, text[s.Start:s.End])
	}
	return out, nil
}
