package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/protik0939/foodhub-gateway/internal/audit"
	"github.com/protik0939/foodhub-gateway/internal/gate"
	"github.com/protik0939/foodhub-gateway/internal/obs"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

// withGate classifies the path, resolves the session once, and enforces the
// access verdict before any handler or proxy runs. Public routes skip the
// session lookup entirely, so anonymous traffic never waits on the auth
// backend.
func (a *API) withGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := gate.Classify(r.URL.Path)

		var state *session.State
		if class != gate.RoutePublic {
			state = a.resolver.Resolve(r.Context(), r.Header.Get("Cookie"))
		}

		decision := gate.Decide(class, state)
		obs.ObserveGateDecision(class.String(), decision.Outcome())

		if !decision.Allow {
			obs.Logger().Debug("gate redirect",
				zap.String("path", r.URL.Path),
				zap.String("class", class.String()),
				zap.String("location", decision.Location),
			)
			if decision.Location == gate.PathSuspended {
				ctx := session.ContextWithState(r.Context(), state)
				_ = audit.LogEvent(ctx, "suspended_access_attempt", zap.String("path", r.URL.Path))
			}
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.ContextWithState(r.Context(), state)))
	})
}

// RequireGuard re-checks a section guard against the request's resolved state
// before handing off. The request gate has already run; the guard narrows the
// requirement for one subtree and cannot be bypassed by a classifier gap.
func RequireGuard(g gate.Guard, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, _ := session.StateFromContext(r.Context())
		decision := g(state)
		obs.ObserveGateDecision("guard", decision.Outcome())
		if !decision.Allow {
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
