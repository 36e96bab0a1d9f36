package idt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"idt-crispr-bot/internal/metrics"
)

const (
	// ExpiryMargin is subtracted from the server TTL so tokens are renewed
	// before the identity server rejects them.
	ExpiryMargin = 60 * time.Second
	defaultTTL   = 3600
)

// Credentials are the resource-owner password grant inputs.
type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scope        string
}

// TokenSource owns the cached bearer token. Token is safe for concurrent use;
// at most one exchange is in flight at a time.
type TokenSource struct {
	creds   Credentials
	http    *http.Client
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type TokenOption func(*TokenSource)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenSource) { s.now = now }
}

func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(s *TokenSource) { s.http = c }
}

func WithTokenMetrics(m *metrics.Metrics) TokenOption {
	return func(s *TokenSource) { s.metrics = m }
}

func NewTokenSource(creds Credentials, timeout time.Duration, logger *zap.Logger, opts ...TokenOption) *TokenSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &TokenSource{
		creds:   creds,
		http:    &http.Client{},
		timeout: timeout,
		now:     time.Now,
		log:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the cached token while it is fresh and exchanges credentials
// for a new one otherwise.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}
	token, ttl, err := s.exchange(ctx)
	s.metrics.ObserveTokenRefresh(err)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiresAt = s.now().Add(time.Duration(ttl)*time.Second - ExpiryMargin)
	s.log.Info("idt token acquired", zap.Int("expires_in", ttl))
	return s.token, nil
}

func (s *TokenSource) exchange(ctx context.Context) (string, int, error) {
	s.log.Info("requesting new idt access token")
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("scope", s.creds.Scope)
	form.Set("username", s.creds.Username)
	form.Set("password", s.creds.Password)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(cctx, http.MethodPost, s.creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}
	basic := base64.StdEncoding.EncodeToString([]byte(s.creds.ClientID + ":" + s.creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := s.http.Do(req)
	if err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("get token: %w", err)}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("read token response: %w", err)}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", 0, &AuthError{StatusCode: res.StatusCode, Body: string(body)}
	}
	var r struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   *int   `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return "", 0, &AuthError{StatusCode: res.StatusCode, Err: fmt.Errorf("decode token response: %w", err)}
	}
	if r.AccessToken == "" {
		return "", 0, &AuthError{StatusCode: res.StatusCode, Body: string(body), Err: fmt.Errorf("token response has no access_token")}
	}
	ttl := defaultTTL
	if r.ExpiresIn != nil {
		ttl = *r.ExpiresIn
	}
	return r.AccessToken, ttl, nil
}
