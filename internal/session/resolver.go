package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// CookieName is the session token cookie set by the auth backend.
	CookieName = "better-auth.session_token"
	// SecureCookieName is the __Secure- variant used on HTTPS deployments.
	SecureCookieName = "__Secure-better-auth.session_token"

	lookupPath     = "/api/auth/get-session"
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// Resolver looks up the caller's session on the auth backend. One attempt per
// request, no retries; every failure mode degrades to "no session".
type Resolver struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewResolver builds a resolver against the auth backend base URL. A
// non-positive timeout falls back to 5s so redirect latency stays bounded.
func NewResolver(baseURL string, timeout time.Duration, log *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Resolve forwards the raw Cookie header to the auth backend and returns the
// session state, or nil for both genuine absence and lookup failure. It never
// returns an error: callers cannot distinguish "logged out" from "backend
// unreachable", and protected routes fail closed to the login redirect.
func (r *Resolver) Resolve(ctx context.Context, cookieHeader string) *State {
	if !HasSessionCookie(cookieHeader) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+lookupPath, nil)
	if err != nil {
		r.log.Debug("session lookup request build failed", zap.Error(err))
		return nil
	}
	req.Header.Set("Cookie", cookieHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("session lookup failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Debug("session lookup non-2xx", zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		r.log.Debug("session lookup read failed", zap.Error(err))
		return nil
	}
	body = bytes.TrimSpace(body)
	// The backend answers a literal null for anonymous callers.
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}

	var state State
	if err := json.Unmarshal(body, &state); err != nil {
		r.log.Debug("session lookup decode failed", zap.Error(err))
		return nil
	}
	if state.User.ID == "" || !state.User.Role.Valid() || !state.User.AccountStatus.Valid() {
		r.log.Debug("session lookup returned malformed state",
			zap.String("role", string(state.User.Role)),
			zap.String("status", string(state.User.AccountStatus)))
		return nil
	}
	return &state
}

// HasSessionCookie reports whether the Cookie header carries either variant
// of the session token cookie. Used to skip the backend round-trip for
// plainly anonymous requests.
func HasSessionCookie(cookieHeader string) bool {
	if cookieHeader == "" {
		return false
	}
	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	for _, name := range []string{CookieName, SecureCookieName} {
		if c, err := req.Cookie(name); err == nil && c.Value != "" {
			return true
		}
	}
	return false
}
