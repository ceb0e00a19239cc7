package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
)

// MaxKeywords caps the number of free-text keywords kept per query.
const MaxKeywords = 8

// MinKeywordLength is the exclusive lower bound on keyword length.
const MinKeywordLength = 3

// ErrInvalidShape signals a stored value that fails schema validation.
var ErrInvalidShape = errors.New("invalid query shape")

// Shape is the resolved form of one raw query: what gets cached so that
// every page of a session compiles to the same filters.
type Shape struct {
	Keywords    []string   `json:"keywords"`
	Filters     filter.Set `json:"filters"`
	PlaceNames  []string   `json:"place_names"`
	LocalIntent bool       `json:"local_intent"`
}

var schema = mustLoadSchema()

func mustLoadSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("compile query shape schema: %v", err))
	}
	return s
}

// Encode serialises the shape. Nil slices are written as empty arrays so the
// stored document always satisfies the schema.
func Encode(s Shape) ([]byte, error) {
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.PlaceNames == nil {
		s.PlaceNames = []string{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal query shape: %w", err)
	}
	return data, nil
}

// Decode validates data against the shape schema and unmarshals it.
// Any structural problem returns an error wrapping ErrInvalidShape.
func Decode(data []byte) (Shape, error) {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Shape{}, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if !res.Valid() {
		msgs := make([]string, len(res.Errors()))
		for i, e := range res.Errors() {
			msgs[i] = e.String()
		}
		return Shape{}, fmt.Errorf("%w: %s", ErrInvalidShape, strings.Join(msgs, "; "))
	}

	var s Shape
	if err := json.Unmarshal(data, &s); err != nil {
		return Shape{}, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if err := s.Filters.Validate(); err != nil {
		return Shape{}, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	return s, nil
}
