package app

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/pkg/jwtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	raw, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{jwtx.NewEd25519JWK("k1", pub)}})
	require.NoError(t, err)
	jwks := filepath.Join(dir, "jwks.json")
	require.NoError(t, os.WriteFile(jwks, raw, 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.Port = 0
	cfg.LogLevel = "error"
	cfg.DatabaseFile = filepath.Join(dir, "guild.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.JWKSFile = jwks
	cfg.ShutdownGracePeriod = time.Second
	return cfg
}

func TestApplication_Lifecycle(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	for _, path := range []string{"/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not shut down")
	}
}

func TestNew_MissingJWKS(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWKSFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load jwks")
}

func TestNew_BadRedisURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "not-a-url://"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
