package planet

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey   = "test-key"
	testConfigID = "layer-config-1"
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		configID:   testConfigID,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchTile_Success(t *testing.T) {
	tile := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+testConfigID, r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "image/png", r.Header.Get("Accept"))
		assert.Equal(t, "7", r.URL.Query().Get("TileMatrix"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(tile)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.FetchTile(context.Background(), "TileMatrix=7&TileRow=48&TileCol=35")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, tile, resp.Body)
}

func TestClient_FetchTile_UpstreamErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("<ServiceException>bad TileMatrix</ServiceException>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.FetchTile(context.Background(), "TileMatrix=bogus")
	require.NoError(t, err, "upstream errors are mirrored, not surfaced as client errors")

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "text/xml", resp.ContentType)
	assert.Contains(t, string(resp.Body), "ServiceException")
}

func TestClient_FetchTile_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := testClient(srv.URL)
	_, err := c.FetchTile(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile request")
}

func TestClient_Enabled(t *testing.T) {
	assert.True(t, testClient("http://unused").Enabled())

	disabled := testClient("http://unused")
	disabled.apiKey = ""
	assert.False(t, disabled.Enabled())
}
