package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "pharmacy-backend/internal/errors"
)

func newTokenServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-abc","expires_in":3600}`))
	}))
}

func TestTokenCache_ReusesTokenWithinWindow(t *testing.T) {
	calls := 0
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	cache := NewTokenCache(srv.Client(), srv.URL, "client-id", "client-secret")

	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	token, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	assert.Equal(t, 1, calls, "second call within validity must not hit the token endpoint")
}

func TestTokenCache_RefreshesAfterExpiry(t *testing.T) {
	calls := 0
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	cache := NewTokenCache(srv.Client(), srv.URL, "client-id", "client-secret")

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// jump past expiry; the next call must exchange again
	now = now.Add(3600*time.Second + time.Second)
	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTokenCache_SafetyMarginTreatsNearExpiryAsExpired(t *testing.T) {
	calls := 0
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	cache := NewTokenCache(srv.Client(), srv.URL, "client-id", "client-secret")

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	// 30s of validity left is inside the 60s safety margin
	now = now.Add(3600*time.Second - 30*time.Second)
	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTokenCache_ExchangeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	cache := NewTokenCache(srv.Client(), srv.URL, "client-id", "bad-secret")

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}

func TestTokenCache_EndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	cache := NewTokenCache(&http.Client{Timeout: time.Second}, srv.URL, "client-id", "client-secret")

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}
