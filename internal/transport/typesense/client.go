// Package typesense is the search backend adapter: it sends compiled
// queries to a Typesense collection through the official client.
package typesense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/compile"
	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/query"
)

const defaultHealthTimeout = 2 * time.Second

// Text fields searched and their weights, most important first.
var (
	QueryBy        = []string{"name", "summary", "commodities", "variants", "description", "locality", "admin_area"}
	QueryByWeights = []int{5, 3, 3, 2, 1, 1, 1}
)

// Fixed relevance knobs sent with every search.
const (
	numTypos             = "1"
	dropTokensThreshold  = 1
	prioritizeExactMatch = true
)

// Config holds connection settings for one collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client talks to one Typesense collection. It is safe for concurrent use.
type Client struct {
	ts         *typesense.Client
	collection string
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a client. It does not contact the server.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("typesense url is required")
	}
	if cfg.Collection == "" {
		return nil, errors.New("typesense collection is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse typesense url: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []typesense.ClientOption{
		typesense.WithServer(strings.TrimRight(cfg.URL, "/")),
		typesense.WithAPIKey(cfg.APIKey),
		// One backend call per search.
		typesense.WithNumRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, typesense.WithConnectionTimeout(cfg.Timeout))
	}
	return &Client{
		ts:         typesense.NewClient(opts...),
		collection: cfg.Collection,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

func joinWeights() string {
	weights := make([]string, len(QueryByWeights))
	for i, w := range QueryByWeights {
		weights[i] = strconv.Itoa(w)
	}
	return strings.Join(weights, ",")
}

// searchParams builds the client request for q.
func searchParams(q query.Compiled) *api.SearchCollectionParams {
	p := &api.SearchCollectionParams{
		Q:                    pointer.String(q.Text),
		QueryBy:              pointer.String(strings.Join(QueryBy, ",")),
		QueryByWeights:       pointer.String(joinWeights()),
		SortBy:               pointer.String(q.SortBy),
		Page:                 pointer.Int(q.Page),
		NumTypos:             pointer.String(numTypos),
		DropTokensThreshold:  pointer.Int(dropTokensThreshold),
		PrioritizeExactMatch: pointer.True(),
	}
	if q.HasFilter() {
		p.FilterBy = pointer.String(q.FilterBy)
	}
	if q.PerPage > 0 {
		p.PerPage = pointer.Int(q.PerPage)
	}
	return p
}

// Params renders the backend query parameters for q, as sent by Search.
func Params(q query.Compiled) url.Values {
	v := url.Values{}
	v.Set("q", q.Text)
	v.Set("query_by", strings.Join(QueryBy, ","))
	v.Set("query_by_weights", joinWeights())
	if q.HasFilter() {
		v.Set("filter_by", q.FilterBy)
	}
	v.Set("sort_by", q.SortBy)
	v.Set("page", strconv.Itoa(q.Page))
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	v.Set("num_typos", numTypos)
	v.Set("drop_tokens_threshold", strconv.Itoa(dropTokensThreshold))
	v.Set("prioritize_exact_match", strconv.FormatBool(prioritizeExactMatch))
	return v
}

// Search runs one search request. Every failure wraps domain.ErrBackendUnavailable.
func (c *Client) Search(ctx context.Context, q query.Compiled) (query.Result, error) {
	res, err := c.ts.Collection(c.collection).Documents().Search(ctx, searchParams(q))
	if err != nil {
		return query.Result{}, c.wrap(err)
	}

	out := query.Result{
		Found: deref(res.Found),
		OutOf: deref(res.OutOf),
		Page:  deref(res.Page),
	}
	if res.Hits == nil {
		out.Hits = []query.Hit{}
		return out, nil
	}
	out.Hits = make([]query.Hit, 0, len(*res.Hits))
	for _, h := range *res.Hits {
		var doc map[string]any
		if h.Document != nil {
			doc = *h.Document
		}
		id, _ := doc["id"].(string)
		hit := query.Hit{
			ID:       id,
			Document: doc,
			Location: location(doc),
		}
		if h.TextMatch != nil {
			hit.TextMatch = *h.TextMatch
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// Health calls the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ok, err := c.ts.Health(ctx, timeout)
	if err != nil {
		return c.wrap(err)
	}
	if !ok {
		return fmt.Errorf("typesense reports unhealthy: %w", domain.ErrBackendUnavailable)
	}
	return nil
}

// wrap maps client errors onto domain.ErrBackendUnavailable, keeping the
// server message for HTTP failures.
func (c *Client) wrap(err error) error {
	var httpErr *typesense.HTTPError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("typesense request: %w: %w", err, domain.ErrBackendUnavailable)
	}
	msg := strings.TrimSpace(string(httpErr.Body))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(httpErr.Body, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	c.logger.Debug("typesense error response",
		zap.Int("status", httpErr.Status), zap.String("message", msg))
	return fmt.Errorf("typesense %d: %s: %w", httpErr.Status, msg, domain.ErrBackendUnavailable)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// location reads the [lat, lon] geopoint field of a document.
func location(doc map[string]any) *geo.Point {
	raw, ok := doc[compile.LocationField].([]any)
	if !ok || len(raw) != 2 {
		return nil
	}
	lat, ok1 := raw[0].(float64)
	lon, ok2 := raw[1].(float64)
	if !ok1 || !ok2 || !geo.ValidateCoordinates(lat, lon) {
		return nil
	}
	return &geo.Point{Lat: lat, Lon: lon}
}
