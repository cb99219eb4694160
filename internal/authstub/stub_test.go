package authstub

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/protik0939/foodhub-gateway/internal/session"
)

func newStub(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := New("test-secret", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestLoginAndSessionRoundTrip(t *testing.T) {
	s := newStub(t)
	user, err := s.Register("Rima", "rima@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != session.RoleUnassigned {
		t.Fatalf("new accounts must start unassigned, got %s", user.Role)
	}

	token, _, err := s.Login("RIMA@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	state, err := s.SessionFor(token)
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	if state.User.ID != user.ID || state.Session.UserID != user.ID {
		t.Fatalf("unexpected state: %+v", state)
	}
	if !state.Session.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", state.Session.ExpiresAt)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newStub(t)
	if _, err := s.Register("X", "x@example.com", "correct"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := s.Login("x@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login("missing@example.com", "any"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	s := newStub(t)
	if _, err := s.Register("X", "x@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := s.Login("x@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	s.SignOut(token)
	if _, err := s.SessionFor(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	s := newStub(t, WithTTL(time.Hour), WithClock(func() time.Time { return past }))
	if _, err := s.Register("X", "x@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := s.Login("x@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := s.SessionFor(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestSelectRoleTransition(t *testing.T) {
	s := newStub(t)
	user, err := s.Register("X", "x@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.SelectRole(user.ID, session.RoleAdmin); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("ADMIN must not be selectable, got %v", err)
	}
	updated, err := s.SelectRole(user.ID, session.RoleProvider)
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if updated.Role != session.RoleProvider {
		t.Fatalf("role not updated: %s", updated.Role)
	}

	// Fresh session lookups see the new role immediately.
	token, _, err := s.Login("x@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	state, err := s.SessionFor(token)
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	if state.User.Role != session.RoleProvider {
		t.Fatalf("stale role in session: %s", state.User.Role)
	}
}

func TestHandlerFlow(t *testing.T) {
	s := newStub(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	post := func(path string, body any) *http.Response {
		t.Helper()
		payload, _ := json.Marshal(body)
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return resp
	}

	resp := post("/api/auth/sign-up", map[string]string{"name": "Rima", "email": "rima@example.com", "password": "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-up status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = post("/api/auth/sign-in/email", map[string]string{"email": "rima@example.com", "password": "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-in status: %d", resp.StatusCode)
	}
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c.Name + "=" + c.Value
		}
	}
	resp.Body.Close()
	if cookie == "" {
		t.Fatal("sign-in did not set the session cookie")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/get-session", nil)
	req.Header.Set("Cookie", cookie)
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get-session: %v", err)
	}
	defer getResp.Body.Close()
	var state session.State
	if err := json.NewDecoder(getResp.Body).Decode(&state); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if state.User.Email != "rima@example.com" {
		t.Fatalf("unexpected session user: %+v", state.User)
	}

	// Anonymous lookup returns a literal null.
	anonResp, err := http.Get(srv.URL + "/api/auth/get-session")
	if err != nil {
		t.Fatalf("anonymous get-session: %v", err)
	}
	defer anonResp.Body.Close()
	var raw json.RawMessage
	if err := json.NewDecoder(anonResp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode anonymous body: %v", err)
	}
	if string(bytes.TrimSpace(raw)) != "null" {
		t.Fatalf("expected null body, got %s", raw)
	}
}
