package fx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fashion-etl/config"
)

func preflight(t *testing.T, cfg *config.Config, origin string) *httptest.ResponseRecorder {
	t.Helper()

	r := NewMux(muxParams{Cfg: cfg, Logger: zap.NewNop().Sugar()})

	req := httptest.NewRequest(http.MethodOptions, "/v1/runs", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewMux_CORSPreflight_AllowsLocalhost5173_InDev(t *testing.T) {
	w := preflight(t, &config.Config{ENV: config.Dev}, "http://localhost:5173")

	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestNewMux_CORSPreflight_UsesConfiguredOriginsInProduction(t *testing.T) {
	cfg := &config.Config{ENV: config.Production, CORSOrigins: []string{"https://dash.example.com"}}

	w := preflight(t, cfg, "https://dash.example.com")
	require.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(t, cfg, "http://localhost:5173")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
