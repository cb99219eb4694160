package gate

import "github.com/protik0939/foodhub-gateway/internal/session"

// Redirect targets. Bit-exact: the rendering upstream owns these pages.
const (
	PathLogin      = "/login"
	PathSelectRole = "/select-role"
	PathSuspended  = "/account-suspended"
	PathHome       = "/"
)

// Decision is the gate verdict for one request: render, or exactly one
// redirect. Requests are reclassified independently on the next navigation,
// so redirects never chain within a single request.
type Decision struct {
	Allow    bool
	Location string
}

// Outcome is the metric/log label for the decision.
func (d Decision) Outcome() string {
	if d.Allow {
		return "allow"
	}
	return d.Location
}

func allowed() Decision               { return Decision{Allow: true} }
func redirect(target string) Decision { return Decision{Location: target} }

// Decide computes the access verdict from the route class and the resolved
// session state. Pure: no I/O, no clock, no persisted state.
//
// Check order on protected routes: missing session, then suspension, then
// onboarding, then role fit. Suspension outranks role mismatch so that a
// suspended account sees /account-suspended on every non-public path.
func Decide(class RouteClass, state *session.State) Decision {
	if class == RoutePublic {
		return allowed()
	}
	if state == nil {
		// Covers genuine absence and resolver failure alike: protected
		// routes fail closed to login.
		return redirect(PathLogin)
	}
	if state.Suspended() {
		return redirect(PathSuspended)
	}

	switch class {
	case RouteAuthenticated:
		if !state.User.Role.Assigned() {
			return redirect(PathSelectRole)
		}
		return allowed()
	case RouteAdminOnly:
		if state.User.Role != session.RoleAdmin {
			return redirect(PathHome)
		}
		return allowed()
	case RouteProviderOnly:
		if state.User.Role != session.RoleProvider {
			return redirect(PathHome)
		}
		return allowed()
	}
	return redirect(PathLogin)
}
