package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testCookie = CookieName + "=tok-123"

func TestResolveReturnsState(t *testing.T) {
	var gotCookie string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/get-session" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"user": {"id":"u-1","name":"Rima","email":"rima@example.com","role":"CUSTOMER","accountStatus":"ACTIVE"},
			"session": {"id":"s-1","userId":"u-1","token":"tok-123"}
		}`))
	}))
	defer backend.Close()

	r := NewResolver(backend.URL, time.Second, nil)
	state := r.Resolve(context.Background(), testCookie)
	if state == nil {
		t.Fatal("expected state")
	}
	if state.User.ID != "u-1" || state.User.Role != RoleCustomer {
		t.Fatalf("unexpected user: %+v", state.User)
	}
	if gotCookie != testCookie {
		t.Fatalf("cookie header not forwarded: %q", gotCookie)
	}
}

func TestResolveSkipsLookupWithoutCookie(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	r := NewResolver(backend.URL, time.Second, nil)
	if state := r.Resolve(context.Background(), "theme=dark"); state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
	if called {
		t.Fatal("lookup should be skipped when no session cookie is present")
	}
}

func TestResolveSecureCookieVariant(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"u-2","role":"ADMIN","accountStatus":"ACTIVE"},"session":{"id":"s-2"}}`))
	}))
	defer backend.Close()

	r := NewResolver(backend.URL, time.Second, nil)
	state := r.Resolve(context.Background(), SecureCookieName+"=tok-456")
	if state == nil || state.User.Role != RoleAdmin {
		t.Fatalf("secure cookie variant not accepted: %+v", state)
	}
}

func TestResolveFailsOpenToNil(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"null body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		},
		"invalid json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		},
		"unknown role": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"id":"u-3","role":"SUPERUSER","accountStatus":"ACTIVE"},"session":{}}`))
		},
		"missing user id": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"role":"CUSTOMER","accountStatus":"ACTIVE"},"session":{}}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			backend := httptest.NewServer(handler)
			defer backend.Close()

			r := NewResolver(backend.URL, time.Second, nil)
			if state := r.Resolve(context.Background(), testCookie); state != nil {
				t.Fatalf("expected nil state, got %+v", state)
			}
		})
	}
}

func TestResolveBackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // connection refused from here on

	r := NewResolver(backend.URL, 500*time.Millisecond, nil)
	if state := r.Resolve(context.Background(), testCookie); state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
}

func TestStateContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := StateFromContext(ctx); ok {
		t.Fatal("empty context should carry no state")
	}

	state := &State{User: User{ID: "u-9", Role: RoleProvider, AccountStatus: StatusActive}}
	ctx = ContextWithState(ctx, state)
	got, ok := StateFromContext(ctx)
	if !ok || got.User.ID != "u-9" {
		t.Fatalf("state not round-tripped: %+v ok=%v", got, ok)
	}
}

func TestRoleAndStatusSets(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleProvider, RoleAdmin, RoleUnassigned} {
		if !r.Valid() {
			t.Fatalf("role %s should be valid", r)
		}
	}
	if Role("MANAGER").Valid() {
		t.Fatal("unknown role accepted")
	}
	if RoleUnassigned.Assigned() {
		t.Fatal("NONE must not count as assigned")
	}
	if !RoleProvider.Assigned() {
		t.Fatal("PROVIDER must count as assigned")
	}
	var missing *State
	if missing.Suspended() {
		t.Fatal("nil state cannot be suspended")
	}
	suspended := &State{User: User{AccountStatus: StatusSuspended}}
	if !suspended.Suspended() {
		t.Fatal("suspended state not detected")
	}
}
