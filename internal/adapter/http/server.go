// Package http exposes the assessment API plus the health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cropwatch/climate-risk-service/internal/adapter/planet"
	"github.com/cropwatch/climate-risk-service/internal/catalog"
	"github.com/cropwatch/climate-risk-service/internal/domain"
	"github.com/cropwatch/climate-risk-service/internal/engine"
	"github.com/cropwatch/climate-risk-service/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// TileFetcher proxies imagery tile requests upstream.
type TileFetcher interface {
	Enabled() bool
	FetchTile(ctx context.Context, rawQuery string) (planet.TileResponse, error)
}

// Server exposes the assessment API, catalog listing, imagery tile proxy, and
// operational endpoints.
type Server struct {
	httpServer   *http.Server
	evaluator    *engine.Evaluator
	store        *catalog.Store
	tiles        TileFetcher
	metrics      *observability.Metrics
	logger       *slog.Logger
	defaultLimit int
}

// NewServer creates an HTTP server with assessment, catalog, tile, /healthz,
// /readyz, and /metrics routes.
func NewServer(
	addr string,
	evaluator *engine.Evaluator,
	store *catalog.Store,
	tiles TileFetcher,
	ready ReadinessChecker,
	metrics *observability.Metrics,
	logger *slog.Logger,
	defaultLimit int,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		evaluator:    evaluator,
		store:        store,
		tiles:        tiles,
		metrics:      metrics,
		logger:       logger,
		defaultLimit: defaultLimit,
	}

	mux.HandleFunc("POST /v1/assessments", s.handleAssess)
	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /tiles", s.handleTiles)
	mux.HandleFunc("OPTIONS /tiles", s.handleTilesPreflight)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// assessRequest is the HTTP request body. Params carries the loosely-typed
// parameter bag handed to the normalizer; Limit overrides the configured
// result cap when set.
type assessRequest struct {
	SiteID   string         `json:"siteId"`
	Mode     string         `json:"mode"`
	Category string         `json:"category"`
	Limit    *int           `json:"limit,omitempty"`
	Params   map[string]any `json:"params"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	reading, err := domain.NormalizeParams(req.Params)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ValidationErrors.Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": verr.Error(),
				"field": verr.Field,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	input := domain.AssessmentInput{
		SiteID:   req.SiteID,
		Mode:     domain.ParseScoringMode(req.Mode),
		Category: domain.Category(req.Category),
		Reading:  reading,
	}

	limit := s.defaultLimit
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}

	results := s.evaluator.Evaluate(input.Reading, input.Mode, input.Category)
	assessment := domain.NewAssessment(input, engine.Rank(results, limit))

	s.metrics.AssessmentsTotal.WithLabelValues(string(input.Category), string(input.Mode)).Inc()
	s.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, assessment)
}

// catalogEntry is the wire shape of one catalog definition.
type catalogEntry struct {
	Name       string             `json:"name"`
	Category   domain.Category    `json:"category"`
	Conditions []catalogCondition `json:"conditions"`
}

type catalogCondition struct {
	Param  domain.Param `json:"param"`
	Label  string       `json:"label"`
	Weight float64      `json:"weight"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	current := s.store.Current()

	var defs []catalog.RiskDefinition
	if q := r.URL.Query().Get("category"); q != "" {
		defs = current.ByCategory(domain.Category(q))
	} else {
		defs = current.Definitions()
	}

	entries := make([]catalogEntry, 0, len(defs))
	for _, def := range defs {
		conditions := make([]catalogCondition, 0, len(def.Conditions))
		for _, cond := range def.Conditions {
			conditions = append(conditions, catalogCondition{
				Param:  cond.Param,
				Label:  cond.Label,
				Weight: cond.Weight,
			})
		}
		entries = append(entries, catalogEntry{Name: def.Name, Category: def.Category, Conditions: conditions})
	}

	writeJSON(w, http.StatusOK, map[string]any{"definitions": entries})
}

// Tile responses are consumed by browser map widgets, so every reply carries
// permissive CORS headers, including errors and preflights.
func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (s *Server) handleTilesPreflight(w http.ResponseWriter, _ *http.Request) {
	writeCORS(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	start := time.Now()

	if s.tiles == nil || !s.tiles.Enabled() {
		s.metrics.TileRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imagery API key not configured"})
		return
	}

	resp, err := s.tiles.FetchTile(r.Context(), r.URL.RawQuery)
	s.metrics.TileRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.TileRequests.WithLabelValues("error").Inc()
		s.logger.Error("tile fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch tile"})
		return
	}

	if resp.Status == http.StatusOK {
		s.metrics.TileRequests.WithLabelValues("success").Inc()
	} else {
		s.metrics.TileRequests.WithLabelValues("upstream_error").Inc()
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
