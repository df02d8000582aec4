package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	apperr "pharmacy-backend/internal/errors"
)

// tokens expiring within this window are treated as already expired so a
// request does not go out with a token that dies mid-flight
const tokenSafetyMargin = 60 * time.Second

// TokenSource yields a bearer token valid at the time of the call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenCache holds a single bearer token obtained via the OAuth2
// client-credentials exchange and refreshes it on expiry. One instance is
// constructed per process and shared by everything talking to the gateway.
type TokenCache struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenCache(httpClient *http.Client, tokenURL, clientID, clientSecret string) *TokenCache {
	return &TokenCache{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// Token returns the cached token while it is still comfortably inside its
// validity window, otherwise performs a fresh credential exchange. A failed
// exchange leaves the slot untouched and is not retried here.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt.Add(-tokenSafetyMargin)) {
		return c.token, nil
	}

	token, expiresIn, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = c.now().Add(time.Duration(expiresIn) * time.Second)
	return c.token, nil
}

func (c *TokenCache) exchange(ctx context.Context) (string, int64, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, apperr.Wrap(apperr.ErrAuthentication, "token endpoint unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", 0, apperr.Wrap(apperr.ErrAuthentication,
			"credential exchange rejected: status=%d body=%s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", 0, apperr.Wrap(apperr.ErrAuthentication, "decode token response: %v", err)
	}
	if res.AccessToken == "" {
		return "", 0, apperr.Wrap(apperr.ErrAuthentication, "token response missing access_token")
	}

	return res.AccessToken, res.ExpiresIn, nil
}
