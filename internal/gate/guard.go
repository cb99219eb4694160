package gate

import "github.com/protik0939/foodhub-gateway/internal/session"

// Guard re-applies a narrowed access requirement for one protected section.
// Guards run behind the request-level gate as defense-in-depth: if the
// classifier ever misses a path, the section still refuses to render.
//
// Every guard delegates to Decide rather than re-deriving rules, so the
// redirect targets cannot drift between sections.
type Guard func(state *session.State) Decision

// AdminGuard protects the admin shell: role ADMIN, account active.
func AdminGuard(state *session.State) Decision {
	return Decide(RouteAdminOnly, state)
}

// ProviderGuard protects provider dashboards: role PROVIDER, account active.
func ProviderGuard(state *session.State) Decision {
	return Decide(RouteProviderOnly, state)
}

// ProfileGuard protects the profile and common shells: any assigned role,
// account active. Unassigned accounts are sent to role selection.
func ProfileGuard(state *session.State) Decision {
	return Decide(RouteAuthenticated, state)
}
