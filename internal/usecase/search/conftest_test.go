package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
	"github.com/kailas-cloud/geosearch/internal/extract"
)

type mockBackend struct {
	mu     sync.Mutex
	calls  []query.Compiled
	result query.Result
	err    error
}

func (m *mockBackend) Search(_ context.Context, q query.Compiled) (query.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, q)
	if m.err != nil {
		return query.Result{}, m.err
	}
	res := m.result
	if res.Page == 0 {
		res.Page = q.Page
	}
	return res, nil
}

type mockCache struct {
	data    map[string]shape.Shape
	gets    int
	puts    int
	putErr  error
	lastPut shape.Shape
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]shape.Shape)}
}

func (m *mockCache) Get(_ context.Context, raw string) (shape.Shape, bool) {
	m.gets++
	s, ok := m.data[raw]
	return s, ok
}

func (m *mockCache) Put(_ context.Context, raw string, s shape.Shape) error {
	m.puts++
	m.lastPut = s
	if m.putErr != nil {
		return m.putErr
	}
	m.data[raw] = s
	return nil
}

// countingExtractor wraps the real extractor and counts calls.
type countingExtractor struct {
	inner *extract.Extractor
	calls int
}

func (c *countingExtractor) Extract(ctx context.Context, raw string) extract.Result {
	c.calls++
	return c.inner.Extract(ctx, raw)
}

type staticPlaces []string

func (s staticPlaces) Recognize(context.Context, string) ([]string, error) {
	return s, nil
}

type testEnv struct {
	svc       *Service
	backend   *mockBackend
	cache     *mockCache
	extractor *countingExtractor
}

func newTestEnv() *testEnv {
	b := &mockBackend{}
	c := newMockCache()
	e := &countingExtractor{inner: extract.New(zap.NewNop()).WithPlaces(staticPlaces{}, nil)}
	return &testEnv{
		svc:       New(b, c, e, zap.NewNop()),
		backend:   b,
		cache:     c,
		extractor: e,
	}
}

func extractResultEmpty() extract.Result {
	return extract.Result{}
}
