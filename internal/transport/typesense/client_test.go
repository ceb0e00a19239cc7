package typesense

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(Config{URL: srv.URL + "/", APIKey: "secret", Collection: "listings", Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestParams(t *testing.T) {
	v := Params(query.Compiled{
		Text:     "honey",
		FilterBy: "category:=farm",
		SortBy:   "_text_match:desc",
		Page:     2,
		PerPage:  20,
	})
	want := map[string]string{
		"q":                      "honey",
		"query_by":               "name,summary,commodities,variants,description,locality,admin_area",
		"query_by_weights":       "5,3,3,2,1,1,1",
		"filter_by":              "category:=farm",
		"sort_by":                "_text_match:desc",
		"page":                   "2",
		"per_page":               "20",
		"num_typos":              "1",
		"drop_tokens_threshold":  "1",
		"prioritize_exact_match": "true",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
}

func TestParams_OmitsAbsentFilter(t *testing.T) {
	v := Params(query.Compiled{Text: "*", SortBy: "subscription_rank:desc", Page: 1})
	if _, ok := v["filter_by"]; ok {
		t.Error("filter_by must be omitted when absent")
	}
	if _, ok := v["per_page"]; ok {
		t.Error("per_page must be omitted when zero")
	}
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/listings/documents/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-TYPESENSE-API-KEY") != "secret" {
			t.Errorf("missing api key header")
		}
		if got := r.URL.Query().Get("filter_by"); got != "location:(40, -74, 100 km)" {
			t.Errorf("filter_by = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"found": 2, "out_of": 120, "page": 1,
			"hits": [
				{"document": {"id": "a1", "name": "Sunrise Farm", "location": [40.1, -74.2]}, "text_match": 99},
				{"document": {"id": "b2", "name": "No Location"}}
			]
		}`))
	})

	res, err := c.Search(context.Background(), query.Compiled{
		Text: "*", FilterBy: "location:(40, -74, 100 km)", SortBy: "location(40, -74):asc", Page: 1,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Found != 2 || res.OutOf != 120 || res.Page != 1 || len(res.Hits) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	first := res.Hits[0]
	if first.ID != "a1" || first.TextMatch != 99 || first.Location == nil || first.Location.Lat != 40.1 {
		t.Fatalf("unexpected first hit: %+v", first)
	}
	if res.Hits[1].Location != nil {
		t.Errorf("expected nil location, got %+v", res.Hits[1].Location)
	}
}

func TestSearch_SendsParams(t *testing.T) {
	compiled := query.Compiled{
		Text:     "raw milk",
		FilterBy: "category:=farm && is_organic:=true",
		SortBy:   "_text_match:desc,subscription_rank:desc,bayes_avg:desc",
		Page:     3,
		PerPage:  12,
	}
	want := Params(compiled)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query()
		for k := range want {
			if got.Get(k) != want.Get(k) {
				t.Errorf("%s = %q, want %q", k, got.Get(k), want.Get(k))
			}
		}
		_, _ = w.Write([]byte(`{"found": 0, "out_of": 0, "page": 3}`))
	})

	res, err := c.Search(context.Background(), compiled)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Page != 3 || res.Hits == nil || len(res.Hits) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not found."})
	})

	_, err := c.Search(context.Background(), query.Compiled{Text: "*", Page: 1})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
	if want := "typesense 404: Not found.: search backend unavailable"; err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestSearch_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"found":`))
	})
	if _, err := c.Search(context.Background(), query.Compiled{Text: "*", Page: 1}); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestSearch_Unreachable(t *testing.T) {
	c, err := New(Config{URL: "http://127.0.0.1:1", Collection: "listings"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Search(context.Background(), query.Compiled{Text: "*", Page: 1}); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": healthy.Load()})
	})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	healthy.Store(false)
	if err := c.Health(context.Background()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("Health = %v, want ErrBackendUnavailable", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Collection: "x"}); err == nil {
		t.Error("expected error without url")
	}
	if _, err := New(Config{URL: "http://localhost:8108"}); err == nil {
		t.Error("expected error without collection")
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		ok   bool
	}{
		{"valid", map[string]any{"location": []any{30.2, -97.7}}, true},
		{"missing", map[string]any{}, false},
		{"wrong arity", map[string]any{"location": []any{30.2}}, false},
		{"out of range", map[string]any{"location": []any{120.0, 0.0}}, false},
		{"strings", map[string]any{"location": []any{"30", "-97"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := location(tt.doc); (got != nil) != tt.ok {
				t.Errorf("location = %+v, ok %v", got, tt.ok)
			}
		})
	}
}
