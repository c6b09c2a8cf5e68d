// Package chi exposes the listing discovery derivation over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/localpros/discovery/internal/domain"
	"github.com/localpros/discovery/internal/domain/criteria"
	"github.com/localpros/discovery/internal/domain/listing"
	logpkg "github.com/localpros/discovery/internal/logger"
	"github.com/localpros/discovery/internal/metrics"
	"github.com/localpros/discovery/internal/repository/listings"
	healthuc "github.com/localpros/discovery/internal/usecase/health"
	searchuc "github.com/localpros/discovery/internal/usecase/search"
)

const maxSnapshotBytes = 16 << 20

// Replacer accepts wholesale listing snapshot replacement. Only the
// in-memory source supports it; Redis snapshots are published out of band.
type Replacer interface {
	Replace(items []listing.Listing)
}

// Server wires the search and health usecases into a chi router.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	ingest Replacer // nil when the source is read-only
	logger *zap.Logger
}

// NewServer creates an HTTP API server. ingest may be nil.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	ingest Replacer,
	logger *zap.Logger,
) *Server {
	return &Server{search: search, health: health, ingest: ingest, logger: logger}
}

// Routes builds the router with metrics and auth middleware applied.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.wideEventMiddleware())
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/v1/listings/search", s.handleSearch)
	r.Get("/v1/listings/{id}/price", s.handlePrice)
	r.Put("/v1/listings", s.handleReplace)

	return r
}

type searchRequest struct {
	Category      string  `json:"category,omitempty"`
	Query         string  `json:"query,omitempty"`
	Area          string  `json:"area,omitempty"`
	ServiceType   string  `json:"serviceType,omitempty"`
	MaxDistanceKm float64 `json:"maxDistanceKm,omitempty"`
	MinRating     float64 `json:"minRating,omitempty"`
	PriceMin      float64 `json:"priceMin,omitempty"`
	PriceMax      float64 `json:"priceMax,omitempty"`
}

type searchResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Service     string    `json:"service,omitempty"`
	Location    string    `json:"location,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Rating      float64   `json:"rating"`
	DistanceKm  *float64  `json:"distanceKm,omitempty"`
	Price       float64   `json:"price"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	c, err := criteria.New(
		req.Category, req.Query, req.Area, req.ServiceType,
		req.MaxDistanceKm, req.MinRating, req.PriceMin, req.PriceMax,
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_criteria", err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err, "search failed")
		return
	}

	resp := searchResponse{Results: make([]searchResult, len(results)), Total: len(results)}
	for i, res := range results {
		resp.Results[i] = toSearchResult(res)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func toSearchResult(res searchuc.Result) searchResult {
	l := res.Listing
	out := searchResult{
		ID:         l.ID(),
		Title:      l.Title(),
		Service:    l.Service(),
		Location:   l.Location(),
		Rating:     l.Rating(),
		DistanceKm: l.DistanceKm(),
		Price:      res.Price,
	}
	if pos := l.Position(); pos != nil {
		out.Coordinates = []float64{pos.Lon, pos.Lat}
	}
	return out
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	price, err := s.search.ResolvePrice(r.Context(), id, q.Get("query"), q.Get("category"))
	if err != nil {
		s.handleDomainError(w, err, "resolve price failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "price": price})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		s.writeError(w, http.StatusMethodNotAllowed, "read_only_source",
			"listing source does not accept snapshot replacement")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}
	items, err := listings.DecodeSnapshot(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_snapshot", err.Error())
		return
	}

	s.ingest.Replace(items)
	s.writeJSON(w, http.StatusOK, map[string]any{"accepted": len(items)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		s.writeError(w, http.StatusNotFound, "listing_not_found", "listing not found")
	case errors.Is(err, domain.ErrSourceUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, "source_unavailable", "listing source unavailable")
	default:
		s.logger.Error(msg, zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{"code": code, "message": message})
}

// wideEventMiddleware emits one canonical log line per request and puts a
// request-scoped logger into the context.
func (s *Server) wideEventMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chimw.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := s.logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
