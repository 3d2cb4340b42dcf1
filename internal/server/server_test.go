package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/dsterrain/internal/config"
	"github.com/Faultbox/dsterrain/internal/export"
	"github.com/Faultbox/dsterrain/pkg/terrain"
)

func newTestServer() *Server {
	cfg := config.Default()
	cfg.Terrain.Level = 3
	cfg.Terrain.Seed = 5
	return New(cfg, zap.NewNop())
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestGetHeights(t *testing.T) {
	s := newTestServer()
	rr := get(t, s, "/terrain/heights")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "5", rr.Header().Get("X-Terrain-Seed"))

	var h export.Heights
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &h))
	assert.Equal(t, 9, h.Size)
	assert.Len(t, h.Values, 81)
}

func TestGetHeightsOverrides(t *testing.T) {
	s := newTestServer()
	rr := get(t, s, "/terrain/heights?seed=77&level=2&roughness=0")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "77", rr.Header().Get("X-Terrain-Seed"))

	var h export.Heights
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &h))
	assert.Equal(t, 5, h.Size)
}

func TestGetHeightsDeterministic(t *testing.T) {
	s := newTestServer()
	a := get(t, s, "/terrain/heights?seed=9")
	b := get(t, s, "/terrain/heights?seed=9")
	assert.Equal(t, a.Body.String(), b.Body.String())
}

func TestBadRequests(t *testing.T) {
	s := newTestServer()
	for _, url := range []string{
		"/terrain/heights?seed=abc",
		"/terrain/heights?level=x",
		"/terrain/heights?level=40",
		"/terrain/heights?roughness=-1",
		"/terrain/heights?decay=exp",
		"/terrain/preview.png?roughness=nope",
		"/terrain/heights?level=3&roughness=3e38",
	} {
		rr := get(t, s, url)
		assert.Equal(t, http.StatusBadRequest, rr.Code, url)
		assert.Contains(t, rr.Body.String(), "error", url)
	}
}

func TestLevelLimit(t *testing.T) {
	s := newTestServer()
	for _, url := range []string{"/terrain/mesh.bin?level=14", "/terrain/heights?level=11"} {
		rr := get(t, s, url)
		assert.Equal(t, http.StatusBadRequest, rr.Code, url)
		assert.Contains(t, rr.Body.String(), "exceeds server limit", url)
	}

	cfg := config.Default()
	cfg.Terrain.Seed = 5
	cfg.Server.MaxLevel = 2
	s = New(cfg, zap.NewNop())
	assert.Equal(t, http.StatusOK, get(t, s, "/terrain/heights?level=2").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/terrain/heights?level=3").Code)
}

func TestGetPreview(t *testing.T) {
	s := newTestServer()
	for _, url := range []string{"/terrain/preview.png", "/terrain/preview.png?mode=gray"} {
		rr := get(t, s, url)
		require.Equal(t, http.StatusOK, rr.Code, url)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

		img, err := png.Decode(rr.Body)
		require.NoError(t, err)
		assert.Equal(t, 9, img.Bounds().Dx())
	}
}

func TestGetMesh(t *testing.T) {
	s := newTestServer()
	rr := get(t, s, "/terrain/mesh.bin")
	require.Equal(t, http.StatusOK, rr.Code)

	vertices, err := strconv.Atoi(rr.Header().Get("X-Vertex-Count"))
	require.NoError(t, err)
	assert.Equal(t, 8*8*6, vertices)
	assert.Equal(t, vertices*terrain.FloatsPerVertex*4, rr.Body.Len())
}

func TestMetrics(t *testing.T) {
	s := newTestServer()
	get(t, s, "/terrain/heights")

	rr := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "dsterrain_terrains_generated_total"))
	assert.True(t, strings.Contains(body, "dsterrain_generation_seconds"))
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/terrain/heights", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
