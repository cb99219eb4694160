package gate

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]RouteClass{
		// Explicit public pages.
		"/login":                RoutePublic,
		"/login/reset":          RoutePublic,
		"/signup":               RoutePublic,
		"/verify-email":         RoutePublic,
		"/forgot-password":      RoutePublic,
		"/reset-password":       RoutePublic,
		"/account-suspended":    RoutePublic,
		"/select-role":          RoutePublic,
		"/api/auth/get-session": RoutePublic,
		"/api":                  RoutePublic,
		"/auth/sign-out":        RoutePublic,
		"/assets/logo":          RoutePublic,
		"/images/banner.jpg":    RoutePublic,
		"/favicon.ico":          RoutePublic,
		"/healthz":              RoutePublic,
		"/readyz":               RoutePublic,
		"/metrics":              RoutePublic,
		"/v1/info":              RoutePublic,
		"/openapi.yaml":         RoutePublic,
		// Catalog and marketing pages require a session (deliberate policy).
		"/":                   RouteAuthenticated,
		"":                    RouteAuthenticated,
		"/categories":         RouteAuthenticated,
		"/categories/cat-1":   RouteAuthenticated,
		"/meals/meal-1":       RouteAuthenticated,
		"/meals/meal-1/order": RouteAuthenticated,
		"/topbrands":          RouteAuthenticated,
		"/your-orders":        RouteAuthenticated,
		"/profile":            RouteAuthenticated,
		"/bff/meals":          RouteAuthenticated,
		// Role-restricted sections.
		"/admin":            RouteAdminOnly,
		"/admin/orders":     RouteAdminOnly,
		"/admin/categories": RouteAdminOnly,
		"/provider":         RouteProviderOnly,
		"/provider/meals":   RouteProviderOnly,
		// Prefixes match whole segments only.
		"/administrator":  RouteAuthenticated,
		"/providers-list": RouteAuthenticated,
		"/loginhelp":      RouteAuthenticated,
	}
	for path, expected := range cases {
		if got := Classify(path); got != expected {
			t.Fatalf("Classify(%q)=%s, want %s", path, got, expected)
		}
	}
}

func TestEveryPathHasExactlyOneClass(t *testing.T) {
	// Spot-check that overlapping prefixes resolve by longest match rather
	// than declaration order.
	paths := []string{"/", "/admin", "/admin/x/y", "/api/x", "/select-role/confirm"}
	for _, p := range paths {
		first := Classify(p)
		for i := 0; i < 5; i++ {
			if got := Classify(p); got != first {
				t.Fatalf("Classify(%q) unstable: %s then %s", p, first, got)
			}
		}
	}
}
