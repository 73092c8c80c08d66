package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/cropwatch/climate-risk-service/internal/adapter/http"
	"github.com/cropwatch/climate-risk-service/internal/adapter/planet"
	"github.com/cropwatch/climate-risk-service/internal/catalog"
	"github.com/cropwatch/climate-risk-service/internal/domain"
	"github.com/cropwatch/climate-risk-service/internal/engine"
	"github.com/cropwatch/climate-risk-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockTiles struct {
	enabled bool
	resp    planet.TileResponse
	err     error
}

func (m *mockTiles) Enabled() bool { return m.enabled }

func (m *mockTiles) FetchTile(_ context.Context, _ string) (planet.TileResponse, error) {
	return m.resp, m.err
}

func newTestServer(tiles httpadapter.TileFetcher, readyErr error) *httpadapter.Server {
	store := catalog.NewStore(catalog.Default())
	evaluator := engine.New(store, engine.DefaultOptions())
	return httpadapter.NewServer(
		":0",
		evaluator,
		store,
		tiles,
		&mockReadiness{err: readyErr},
		observability.NewMetricsForTesting(),
		slog.Default(),
		10,
	)
}

func assessBody(t *testing.T, mode, category string, params map[string]any, limit *int) string {
	t.Helper()
	body := map[string]any{
		"siteId":   "orchard-7",
		"mode":     mode,
		"category": category,
		"params":   params,
	}
	if limit != nil {
		body["limit"] = *limit
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return string(data)
}

func validParams() map[string]any {
	return map[string]any{
		"temperature":    18,
		"rh":             92,
		"weeklyRainfall": 25,
		"leafWetness":    10,
		"windSpeed":      6,
	}
}

func TestAssessEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)

	t.Run("scores a disease reading", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "standard", "disease", validParams(), nil)))

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assessment domain.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))

		assert.Equal(t, "orchard-7", assessment.SiteID)
		assert.Equal(t, domain.CategoryDisease, assessment.Category)
		assert.NotEmpty(t, assessment.Results)
		assert.True(t, strings.HasPrefix(assessment.ID, "disease-"))
		for i := 1; i < len(assessment.Results); i++ {
			assert.GreaterOrEqual(t, assessment.Results[i-1].Score, assessment.Results[i].Score)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		limit := 2
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "standard", "disease", validParams(), &limit)))

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assessment domain.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
		assert.Len(t, assessment.Results, 2)
	})

	t.Run("alias parameter names accepted", func(t *testing.T) {
		params := map[string]any{
			"temperature":      18,
			"relativeHumidity": 92,
			"rainfall":         25,
			"wetnessHours":     10,
			"windSpeed":        6,
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "standard", "disease", params, nil)))

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing field returns 400 naming the field", func(t *testing.T) {
		params := validParams()
		delete(params, "rh")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "standard", "disease", params, nil)))

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "rh", body["field"])
		assert.NotEmpty(t, body["error"])
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader("{broken"))

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported category returns empty results", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "standard", "weed", validParams(), nil)))

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assessment domain.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
		assert.Empty(t, assessment.Results)
	})

	t.Run("unknown mode falls back to standard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments",
			strings.NewReader(assessBody(t, "experimental", "disease", validParams(), nil)))

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assessment domain.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
		assert.Equal(t, domain.ModeStandard, assessment.Mode)
	})
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)

	t.Run("lists all definitions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Definitions []struct {
				Name     string `json:"name"`
				Category string `json:"category"`
			} `json:"definitions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, catalog.Default().Len(), len(body.Definitions))
	})

	t.Run("filters by category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog?category=pest", nil)

		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Definitions []struct {
				Category string `json:"category"`
			} `json:"definitions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.Definitions)
		for _, def := range body.Definitions {
			assert.Equal(t, "pest", def.Category)
		}
	})
}

func TestTilesEndpoint(t *testing.T) {
	t.Run("proxies upstream tile", func(t *testing.T) {
		tiles := &mockTiles{
			enabled: true,
			resp:    planet.TileResponse{Status: http.StatusOK, ContentType: "image/png", Body: []byte("png-bytes")},
		}
		srv := newTestServer(tiles, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tiles?TileMatrix=7", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("mirrors upstream errors", func(t *testing.T) {
		tiles := &mockTiles{
			enabled: true,
			resp:    planet.TileResponse{Status: http.StatusForbidden, ContentType: "text/xml", Body: []byte("denied")},
		}
		srv := newTestServer(tiles, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tiles", nil)

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "denied", rec.Body.String())
	})

	t.Run("400 when proxy not configured", func(t *testing.T) {
		srv := newTestServer(&mockTiles{enabled: false}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tiles", nil)

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("500 on fetch failure", func(t *testing.T) {
		srv := newTestServer(&mockTiles{enabled: true, err: errors.New("upstream unreachable")}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tiles", nil)

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("preflight gets CORS headers", func(t *testing.T) {
		srv := newTestServer(&mockTiles{enabled: true}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/tiles", nil)

		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "authorization")
	})
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(nil, fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "not ready yet")
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
