// Package chi is the HTTP API: search, compile-only dry run, health and
// metrics endpoints on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/transport/typesense"
	healthuc "github.com/kailas-cloud/geosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geosearch/internal/usecase/search"
)

// maxBodyBytes bounds request bodies; search requests are small.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidGeo, http.StatusBadRequest, ErrorCodeInvalidGeo, true),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, ErrorCodeBackendUnavailable, false),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.Search)
	r.Post("/v1/search/compile", s.Compile)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Hits:  resp.Hits,
		Found: resp.Found,
		OutOf: resp.OutOf,
		Page:  resp.Page,
		Meta: SearchMeta{
			UsingUserLocation: resp.UsingUserLocation,
			SearchRadiusKm:    resp.SearchRadiusKm,
			PlaceNames:        nonNil(resp.PlaceNames),
			SortTier:          resp.Tier,
		},
	})
}

// Compile handles POST /v1/search/compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	plan, err := s.search.Compile(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	params := make(map[string]string)
	for k, v := range typesense.Params(plan.Compiled) {
		params[k] = v[0]
	}
	writeJSON(w, http.StatusOK, CompileResponse{
		Params:   params,
		Shape:    plan.Shape,
		CacheHit: plan.CacheHit,
		Meta: SearchMeta{
			UsingUserLocation: plan.UsingUserLocation,
			SearchRadiusKm:    plan.SearchRadiusKm,
			PlaceNames:        nonNil(plan.Shape.PlaceNames),
			SortTier:          plan.Compiled.Tier,
		},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (searchuc.Request, bool) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return searchuc.Request{}, false
	}

	req := searchuc.Request{
		Query:    body.Query,
		Page:     body.Page,
		PerPage:  body.PerPage,
		Position: body.Position,
		RadiusKm: body.RadiusKm,
	}
	if body.Filters != nil {
		req.Filters = *body.Filters
	}
	return req, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel
// error. With detail set the full error message is returned to the client,
// otherwise only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, detail bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detail {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
