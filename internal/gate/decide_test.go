package gate

import (
	"testing"

	"github.com/protik0939/foodhub-gateway/internal/session"
)

func active(role session.Role) *session.State {
	return &session.State{User: session.User{ID: "u-1", Role: role, AccountStatus: session.StatusActive}}
}

func suspended(role session.Role) *session.State {
	return &session.State{User: session.User{ID: "u-1", Role: role, AccountStatus: session.StatusSuspended}}
}

func TestPublicAlwaysAllows(t *testing.T) {
	states := []*session.State{
		nil, // genuine absence and resolver failure collapse to nil
		active(session.RoleCustomer),
		active(session.RoleUnassigned),
		suspended(session.RoleAdmin),
	}
	for _, st := range states {
		if d := Decide(RoutePublic, st); !d.Allow {
			t.Fatalf("public route must allow, got redirect to %s", d.Location)
		}
	}
}

func TestAuthenticatedWithoutSessionRedirectsToLogin(t *testing.T) {
	d := Decide(RouteAuthenticated, nil)
	if d.Allow || d.Location != PathLogin {
		t.Fatalf("expected redirect to %s, got %+v", PathLogin, d)
	}
}

func TestUnassignedRoleRedirectsToSelectRole(t *testing.T) {
	d := Decide(RouteAuthenticated, active(session.RoleUnassigned))
	if d.Allow || d.Location != PathSelectRole {
		t.Fatalf("expected redirect to %s, got %+v", PathSelectRole, d)
	}

	// Once the role changes, the same evaluation allows: no stale caching.
	if d := Decide(RouteAuthenticated, active(session.RoleCustomer)); !d.Allow {
		t.Fatalf("assigned role should pass, got %+v", d)
	}
}

func TestActiveAssignedRolesAllowOnAuthenticated(t *testing.T) {
	for _, role := range []session.Role{session.RoleCustomer, session.RoleProvider, session.RoleAdmin} {
		if d := Decide(RouteAuthenticated, active(role)); !d.Allow {
			t.Fatalf("role %s should pass, got %+v", role, d)
		}
	}
}

func TestSuspendedRedirectsOnEveryProtectedClass(t *testing.T) {
	for _, class := range []RouteClass{RouteAuthenticated, RouteAdminOnly, RouteProviderOnly} {
		for _, role := range []session.Role{session.RoleCustomer, session.RoleProvider, session.RoleAdmin} {
			d := Decide(class, suspended(role))
			if d.Allow || d.Location != PathSuspended {
				t.Fatalf("class=%s role=%s: expected redirect to %s, got %+v", class, role, PathSuspended, d)
			}
		}
	}
	// The suspension page itself is public, so the redirect cannot loop.
	if d := Decide(Classify(PathSuspended), suspended(session.RoleProvider)); !d.Allow {
		t.Fatalf("suspended page must render for suspended accounts, got %+v", d)
	}
}

func TestAdminOnlyRejectsNonAdmins(t *testing.T) {
	for _, role := range []session.Role{session.RoleCustomer, session.RoleProvider, session.RoleUnassigned} {
		d := Decide(RouteAdminOnly, active(role))
		if d.Allow {
			t.Fatalf("role %s must never pass admin routes", role)
		}
		if d.Location != PathHome {
			t.Fatalf("role %s: expected redirect to %s, got %s", role, PathHome, d.Location)
		}
	}
}

func TestProviderOnlyMirrorsAdminRules(t *testing.T) {
	if d := Decide(RouteProviderOnly, active(session.RoleProvider)); !d.Allow {
		t.Fatalf("provider should pass provider routes, got %+v", d)
	}
	for _, role := range []session.Role{session.RoleCustomer, session.RoleAdmin, session.RoleUnassigned} {
		if d := Decide(RouteProviderOnly, active(role)); d.Allow || d.Location != PathHome {
			t.Fatalf("role %s: expected redirect to %s, got %+v", role, PathHome, d)
		}
	}
	if d := Decide(RouteProviderOnly, nil); d.Location != PathLogin {
		t.Fatalf("expected redirect to %s, got %+v", PathLogin, d)
	}
}

// Scenarios from the gate's behavior contract, end to end through Classify.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		state *session.State
		want  Decision
	}{
		{"anonymous admin", "/admin", nil, Decision{Location: PathLogin}},
		{"customer on admin orders", "/admin/orders", active(session.RoleCustomer), Decision{Location: PathHome}},
		{"unassigned on home", "/", active(session.RoleUnassigned), Decision{Location: PathSelectRole}},
		{"suspended provider orders", "/your-orders", suspended(session.RoleProvider), Decision{Location: PathSuspended}},
		{"admin on admin categories", "/admin/categories", active(session.RoleAdmin), Decision{Allow: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(Classify(tc.path), tc.state)
			if got != tc.want {
				t.Fatalf("path=%s: got %+v, want %+v", tc.path, got, tc.want)
			}
		})
	}
}

func TestDecisionOutcomeLabel(t *testing.T) {
	if allowed().Outcome() != "allow" {
		t.Fatal("allow outcome label")
	}
	if redirect(PathLogin).Outcome() != PathLogin {
		t.Fatal("redirect outcome label")
	}
}

func TestGuardsDelegateToEngine(t *testing.T) {
	if d := AdminGuard(active(session.RoleAdmin)); !d.Allow {
		t.Fatalf("admin guard should pass admins, got %+v", d)
	}
	if d := AdminGuard(active(session.RoleCustomer)); d.Location != PathHome {
		t.Fatalf("admin guard should bounce customers home, got %+v", d)
	}
	if d := AdminGuard(nil); d.Location != PathLogin {
		t.Fatalf("admin guard without session, got %+v", d)
	}
	if d := ProviderGuard(active(session.RoleProvider)); !d.Allow {
		t.Fatalf("provider guard should pass providers, got %+v", d)
	}
	if d := ProfileGuard(active(session.RoleUnassigned)); d.Location != PathSelectRole {
		t.Fatalf("profile guard should send unassigned to role selection, got %+v", d)
	}
	if d := ProfileGuard(suspended(session.RoleCustomer)); d.Location != PathSuspended {
		t.Fatalf("profile guard should honor suspension, got %+v", d)
	}
}
