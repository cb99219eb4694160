// Package gate implements the access-control layer: path classification,
// the pure access-decision engine, and the per-section guards that re-check
// a narrowed requirement at render time.
package gate

import "strings"

// RouteClass is the static access requirement of a URL path.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteAuthenticated
	RouteAdminOnly
	RouteProviderOnly
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAuthenticated:
		return "authenticated"
	case RouteAdminOnly:
		return "admin_only"
	case RouteProviderOnly:
		return "provider_only"
	}
	return "unknown"
}

// Exact gateway-internal paths that never require a session.
var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/openapi.yaml",
}

// Prefixes matched at segment boundaries. /select-role and
// /account-suspended must stay public or their redirects would loop.
var classPrefixes = []struct {
	prefix string
	class  RouteClass
}{
	{"/login", RoutePublic},
	{"/signup", RoutePublic},
	{"/verify-email", RoutePublic},
	{"/forgot-password", RoutePublic},
	{"/reset-password", RoutePublic},
	{"/account-suspended", RoutePublic},
	{"/select-role", RoutePublic},
	{"/api", RoutePublic},
	{"/assets", RoutePublic},
	// Gateway auth endpoints check the session themselves: role selection
	// must be reachable by unassigned accounts the gate would bounce.
	{"/auth", RoutePublic},
	{"/admin", RouteAdminOnly},
	{"/provider", RouteProviderOnly},
}

// Classify maps a path to its route class. Sessions are required for every
// path not explicitly public, catalog and marketing pages included; the
// most specific (longest) prefix wins when prefixes overlap.
func Classify(path string) RouteClass {
	if path == "" {
		path = "/"
	}
	for _, p := range publicPaths {
		if path == p {
			return RoutePublic
		}
	}
	// Static files carry an extension; framework-internal asset paths do too.
	if strings.Contains(path, ".") {
		return RoutePublic
	}

	best := RouteAuthenticated
	bestLen := 0
	for _, cp := range classPrefixes {
		if !matchesPrefix(path, cp.prefix) {
			continue
		}
		if len(cp.prefix) > bestLen {
			best = cp.class
			bestLen = len(cp.prefix)
		}
	}
	return best
}

// matchesPrefix matches whole path segments: "/admin" covers "/admin" and
// "/admin/orders" but not "/administrator".
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
