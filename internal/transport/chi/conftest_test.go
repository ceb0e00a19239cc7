package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/db/memory"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
	"github.com/kailas-cloud/geosearch/internal/extract"
	"github.com/kailas-cloud/geosearch/internal/metrics"
	"github.com/kailas-cloud/geosearch/internal/repository/shapecache"
	healthuc "github.com/kailas-cloud/geosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geosearch/internal/usecase/search"
)

type stubBackend struct {
	mu        sync.Mutex
	calls     []query.Compiled
	result    query.Result
	err       error
	healthErr error
}

func (b *stubBackend) Search(_ context.Context, q query.Compiled) (query.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, q)
	if b.err != nil {
		return query.Result{}, b.err
	}
	res := b.result
	res.Page = q.Page
	return res, nil
}

func (b *stubBackend) Health(context.Context) error { return b.healthErr }

func (b *stubBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type noPlaces struct{}

func (noPlaces) Recognize(context.Context, string) ([]string, error) { return nil, nil }

type testServer struct {
	handler http.Handler
	backend *stubBackend
	store   *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	metrics.RegisterSearchMetrics()

	store, err := memory.NewStore(16)
	if err != nil {
		t.Fatalf("memory.NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := zap.NewNop()
	backend := &stubBackend{}
	cache := shapecache.New(store, shapecache.DefaultKeyPrefix, metrics.ShapeCacheTotal, log)
	ext := extract.New(log).WithPlaces(noPlaces{}, nil)

	srv := NewServer(
		searchuc.New(backend, cache, ext, log),
		healthuc.New(backend, store),
		log,
	)
	r := chi.NewRouter()
	srv.Routes(r)
	return &testServer{handler: r, backend: backend, store: store}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}
