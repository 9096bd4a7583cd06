package httpx_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/pkg/httpx"
	"github.com/aussiebroadwan/guild/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mark("outer"), nil, mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestRecover(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), httpx.Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

type authFixture struct {
	signer   *jwtx.EdDSASigner
	verifier *jwtx.EdDSAVerifier
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", priv)
	require.NoError(t, err)
	ks := jwtx.NewKeySet()
	require.NoError(t, ks.AddJWK(signer.PublicJWK()))
	return authFixture{signer: signer, verifier: jwtx.NewVerifierEdDSA(ks, "iss", []string{"aud"})}
}

func (f authFixture) token(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := f.signer.Sign(jwtx.NewClaims(sub, role, "iss", []string{"aud"}, time.Minute, time.Now()))
	require.NoError(t, err)
	return tok
}

func TestAuthnMiddleware(t *testing.T) {
	f := newAuthFixture(t)

	var seen httpx.Actor
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), httpx.AuthnMiddleware(f.verifier))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body httpx.ErrorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "invalid_token", body.Error)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+f.token(t, "u1", jwtx.RoleAdmin))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, httpx.Actor{UserID: "u1", Role: jwtx.RoleAdmin}, seen)
		require.True(t, seen.IsAdmin())
	})
}

func TestRequireRole(t *testing.T) {
	h := httpx.Chain(okHandler(), httpx.RequireRole(jwtx.RoleAdmin))

	serve := func(ctx context.Context) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		return rec.Code
	}

	require.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	require.Equal(t, http.StatusForbidden, serve(httpx.WithActor(context.Background(), httpx.Actor{UserID: "u", Role: jwtx.RoleMember})))
	require.Equal(t, http.StatusNoContent, serve(httpx.WithActor(context.Background(), httpx.Actor{UserID: "u", Role: jwtx.RoleAdmin})))
}

func TestRateLimitByIP(t *testing.T) {
	h := httpx.Chain(okHandler(), httpx.RateLimitByIP(httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}))

	serve := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, serve("10.0.0.1:1000").Code)
	require.Equal(t, http.StatusNoContent, serve("10.0.0.1:1001").Code)

	limited := serve("10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.NotEmpty(t, limited.Header().Get("Retry-After"))
	require.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))
	require.Contains(t, limited.Body.String(), "rate_limit_exceeded")

	require.Equal(t, http.StatusNoContent, serve("10.0.0.2:1000").Code, "other clients have their own bucket")
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := httpx.Chain(okHandler(), httpx.RateLimitByIP(httpx.RateLimitConfig{}))
	for range 50 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestIPKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	require.Equal(t, "192.0.2.1", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, "203.0.113.9", httpx.IPKeyExtractor(req))
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	decode := func(body string) error {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &p)
	}

	require.NoError(t, decode(`{"name":"x"}`))
	require.Error(t, decode(`{"name":"x","extra":1}`))
	require.Error(t, decode(`{"name":"x"}{}`))
	require.Error(t, decode(`not json`))
}
