package search

import (
	"context"

	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
	"github.com/kailas-cloud/geosearch/internal/extract"
)

// Backend executes compiled queries against the search index.
type Backend interface {
	Search(ctx context.Context, q query.Compiled) (query.Result, error)
}

// ShapeCache stores resolved query shapes keyed by the raw query.
type ShapeCache interface {
	Get(ctx context.Context, raw string) (shape.Shape, bool)
	Put(ctx context.Context, raw string, s shape.Shape) error
}

// Extractor parses a raw query into structured intent.
type Extractor interface {
	Extract(ctx context.Context, raw string) extract.Result
}
