// Package search is the search executor: it resolves a raw query to a shape
// (cached per raw query), merges explicit filters, compiles the backend query
// and dispatches it.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/compile"
	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
	"github.com/kailas-cloud/geosearch/internal/extract"
	"github.com/kailas-cloud/geosearch/internal/logger"
	"github.com/kailas-cloud/geosearch/internal/metrics"
)

// Defaults applied when the service is built without explicit limits.
const (
	DefaultRadiusKm       = 100.0
	DefaultPerPage        = 20
	DefaultMaxPerPage     = 100
	DefaultMaxQueryLength = 512
)

// Service compiles and executes searches.
type Service struct {
	backend   Backend
	cache     ShapeCache
	extractor Extractor
	log       *zap.Logger

	radiusKm       float64
	perPage        int
	maxPerPage     int
	maxQueryLength int
}

// New creates a search service. cache may be nil, in which case every call
// re-extracts and paging is not stabilised.
func New(backend Backend, cache ShapeCache, extractor Extractor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		backend:        backend,
		cache:          cache,
		extractor:      extractor,
		log:            log,
		radiusKm:       DefaultRadiusKm,
		perPage:        DefaultPerPage,
		maxPerPage:     DefaultMaxPerPage,
		maxQueryLength: DefaultMaxQueryLength,
	}
}

// WithDefaultRadius sets the radius used for local-intent queries without an
// explicit radius.
func (s *Service) WithDefaultRadius(km float64) *Service {
	if km > 0 {
		s.radiusKm = km
	}
	return s
}

// WithPaging sets the default and maximum page size.
func (s *Service) WithPaging(perPage, maxPerPage int) *Service {
	if perPage > 0 {
		s.perPage = perPage
	}
	if maxPerPage > 0 {
		s.maxPerPage = maxPerPage
	}
	return s
}

// WithMaxQueryLength sets the longest accepted raw query, in characters.
func (s *Service) WithMaxQueryLength(n int) *Service {
	if n > 0 {
		s.maxQueryLength = n
	}
	return s
}

// Compile resolves and compiles req without calling the backend. On a cache
// miss the new shape is stored, so a later Search of the same raw query
// reuses it.
func (s *Service) Compile(ctx context.Context, req Request) (Plan, error) {
	return s.plan(ctx, req)
}

// Search compiles req and runs it against the backend. It makes exactly one
// backend call and never retries.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	p, err := s.plan(ctx, req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("none", statusOf(err)).Inc()
		return Response{}, err
	}
	tier := string(p.Compiled.Tier)

	start := time.Now()
	res, err := s.backend.Search(ctx, p.Compiled)
	metrics.SearchBackendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(tier, "backend_error").Inc()
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
		}
		return Response{}, fmt.Errorf("search backend: %w", err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(tier, "success").Inc()

	if center, ok := p.Filters.Geo.Center(); ok {
		for i := range res.Hits {
			h := &res.Hits[i]
			if h.Location == nil {
				continue
			}
			d := geo.DistanceKm(center.Lat, center.Lon, h.Location.Lat, h.Location.Lon)
			h.DistanceKm = &d
		}
	}

	page := res.Page
	if page < 1 {
		page = p.Compiled.Page
	}
	hits := res.Hits
	if hits == nil {
		hits = []query.Hit{}
	}
	return Response{
		Hits:              hits,
		Found:             res.Found,
		OutOf:             res.OutOf,
		Page:              page,
		UsingUserLocation: p.UsingUserLocation,
		SearchRadiusKm:    p.SearchRadiusKm,
		PlaceNames:        p.Shape.PlaceNames,
		Tier:              p.Compiled.Tier,
	}, nil
}

func (s *Service) plan(ctx context.Context, req Request) (Plan, error) {
	perPage, err := s.validate(&req)
	if err != nil {
		return Plan{}, err
	}
	log := logger.FromContext(ctx)

	sh, hit := s.lookup(ctx, req.Query)
	page := req.Page
	if !hit {
		// A fresh parse always starts a new session.
		page = 1
		sh = ShapeFromExtraction(s.extractor.Extract(ctx, req.Query))
	}

	base := sh.Filters.Clone()
	radius := s.radiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}
	usingUser := false
	if sh.LocalIntent && req.Position != nil {
		base.Geo = geo.NewCircle(req.Position.Lat, req.Position.Lon, radius)
		usingUser = true
	}
	if req.Filters.Geo != nil {
		usingUser = false
	}
	effective := filter.Merge(base, req.Filters)

	compiled, err := compile.Compile(sh.Keywords, effective, page, perPage)
	if err != nil {
		return Plan{}, fmt.Errorf("compile query: %w", err)
	}

	if !hit && s.cache != nil {
		if err := s.cache.Put(ctx, req.Query, sh); err != nil {
			log.Warn("Failed to cache query shape", zap.String("query", req.Query), zap.Error(err))
		}
	}

	log.Debug("search compiled",
		zap.Bool("cache_hit", hit),
		zap.String("tier", string(compiled.Tier)),
		zap.String("q", compiled.Text),
		zap.String("filter_by", compiled.FilterBy),
		zap.Int("page", compiled.Page),
	)

	p := Plan{
		Compiled:          compiled,
		Shape:             sh,
		Filters:           effective,
		CacheHit:          hit,
		UsingUserLocation: usingUser,
		SearchRadiusKm:    s.radiusKm,
	}
	if effective.Geo != nil && effective.Geo.Circle != nil {
		p.SearchRadiusKm = effective.Geo.Circle.RadiusKm
	}
	return p, nil
}

func (s *Service) lookup(ctx context.Context, raw string) (shape.Shape, bool) {
	if s.cache == nil {
		return shape.Shape{}, false
	}
	return s.cache.Get(ctx, raw)
}

// validate normalises paging and rejects malformed input. It returns the
// page size to use.
func (s *Service) validate(req *Request) (int, error) {
	if n := utf8.RuneCountInString(req.Query); n > s.maxQueryLength {
		return 0, fmt.Errorf("%w: query is %d characters, max %d", domain.ErrInvalidRequest, n, s.maxQueryLength)
	}
	if req.Page < 0 {
		return 0, fmt.Errorf("%w: page must be positive", domain.ErrInvalidRequest)
	}
	if req.Page == 0 {
		req.Page = 1
	}
	perPage := req.PerPage
	switch {
	case perPage < 0:
		return 0, fmt.Errorf("%w: per_page must be positive", domain.ErrInvalidRequest)
	case perPage == 0:
		perPage = s.perPage
	case perPage > s.maxPerPage:
		perPage = s.maxPerPage
	}
	if req.RadiusKm != nil && *req.RadiusKm <= 0 {
		return 0, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidRequest)
	}
	if p := req.Position; p != nil && !geo.ValidateCoordinates(p.Lat, p.Lon) {
		return 0, fmt.Errorf("%w: position (%v, %v) out of range", domain.ErrInvalidRequest, p.Lat, p.Lon)
	}
	if g := req.Filters.Geo; g != nil {
		if err := g.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrInvalidGeo, err)
		}
	}
	if err := req.Filters.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return perPage, nil
}

// ShapeFromExtraction builds the cacheable shape from an extraction result.
// Geo is never stored: local intent is resolved against the caller's
// position on every call.
func ShapeFromExtraction(r extract.Result) shape.Shape {
	var f filter.Set
	if r.Category != "" {
		f.Category = filter.Ptr(r.Category)
	}
	if len(r.Commodities) > 0 {
		f.Commodities = r.Commodities
	}
	if len(r.Variants) > 0 {
		f.Variants = r.Variants
	}
	if r.Organic {
		f.OrganicOnly = filter.Ptr(true)
	}
	if r.Country != "" {
		f.Country = filter.Ptr(r.Country)
	}
	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	places := r.PlaceNames
	if places == nil {
		places = []string{}
	}
	return shape.Shape{
		Keywords:    keywords,
		Filters:     f,
		PlaceNames:  places,
		LocalIntent: r.LocalIntent,
	}
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidGeo):
		return "invalid"
	default:
		return "error"
	}
}
