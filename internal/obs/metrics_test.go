package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/bff/meals":                  "/bff/meals",
		"/bff/meals/abc/reviews":      "/bff/meals/:id/reviews",
		"/bff/provider/orders/o-7":    "/bff/provider/orders/:id",
		"/bff/categories/c-3/meals":   "/bff/categories/:id/meals",
		"/bff/brands/p-2/meals":       "/bff/brands/:id/meals",
		"/bff/top-brands":             "/bff/top-brands",
		"/api/auth/get-session":       "/api/*",
		"/admin/orders":               "/admin/*",
		"/provider/meals/42":          "/provider/*",
		"/bff/your-orders?group=true": "/bff/your-orders",
		"/login":                      "/login",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
