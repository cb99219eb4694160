// Package httpapi wires the gateway's HTTP surface: the access gate in front
// of everything, reverse proxies to the rendering app and the auth backend,
// the aggregation endpoints the storefront consumes, and operational probes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/protik0939/foodhub-gateway/api/spec"
	"github.com/protik0939/foodhub-gateway/internal/gate"
	"github.com/protik0939/foodhub-gateway/internal/market"
	"github.com/protik0939/foodhub-gateway/internal/obs"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

const maxRequestBody = 2 << 20

// Options carries the collaborators the API needs.
type Options struct {
	Version        string
	AuthBackendURL string
	AppUpstreamURL string
	Resolver       *session.Resolver
	Market         *market.Client
	RateBurst      int
	RatePerSec     float64
	AllowedOrigins []string
}

// API is the gateway's HTTP layer.
type API struct {
	mux            *http.ServeMux
	resolver       *session.Resolver
	market         *market.Client
	version        string
	authURL        string
	client         *http.Client
	rateBurst      int
	ratePerSec     float64
	allowedOrigins []string
}

// New builds the API and its routing table.
func New(opts Options) (*API, error) {
	if opts.Resolver == nil {
		return nil, errors.New("httpapi: resolver is required")
	}
	if opts.Market == nil {
		return nil, errors.New("httpapi: market client is required")
	}

	apiProxy, err := newReverseProxy(opts.AuthBackendURL)
	if err != nil {
		return nil, errors.New("httpapi: invalid auth backend URL")
	}
	appProxy, err := newReverseProxy(opts.AppUpstreamURL)
	if err != nil {
		return nil, errors.New("httpapi: invalid app upstream URL")
	}

	a := &API{
		mux:            http.NewServeMux(),
		resolver:       opts.Resolver,
		market:         opts.Market,
		version:        opts.Version,
		authURL:        opts.AuthBackendURL,
		client:         &http.Client{Timeout: 10 * time.Second},
		rateBurst:      opts.RateBurst,
		ratePerSec:     opts.RatePerSec,
		allowedOrigins: opts.AllowedOrigins,
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.HandleFunc("/v1/info", a.handleInfo)
	a.mux.HandleFunc("/openapi.yaml", a.handleOpenAPI)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/sign-out", a.handleSignOut)
	a.mux.HandleFunc("/auth/select-role", a.handleSelectRole)

	a.mux.HandleFunc("/bff/meals", a.handleMeals)
	a.mux.HandleFunc("/bff/meals/", a.handleMealReviews)
	a.mux.HandleFunc("/bff/categories/", a.handleCategoryMeals)
	a.mux.HandleFunc("/bff/brands/", a.handleBrandMeals)
	a.mux.HandleFunc("/bff/your-orders", a.handleYourOrders)
	a.mux.HandleFunc("/bff/top-brands", a.handleTopBrands)
	a.mux.HandleFunc("/bff/orders", a.handlePlaceOrder)
	a.mux.HandleFunc("/bff/reviews", a.handleSubmitReview)
	a.mux.Handle("/bff/provider/orders", RequireGuard(gate.ProviderGuard, http.HandlerFunc(a.handleProviderOrders)))
	a.mux.Handle("/bff/provider/orders/", RequireGuard(gate.ProviderGuard, http.HandlerFunc(a.handleProviderOrderStatus)))

	// Auth backend endpoints stay same-origin so the browser keeps its cookie.
	a.mux.Handle("/api/", apiProxy)

	// Section shells re-check their guard even though the gate already ran.
	a.mux.Handle("/admin", RequireGuard(gate.AdminGuard, appProxy))
	a.mux.Handle("/admin/", RequireGuard(gate.AdminGuard, appProxy))
	a.mux.Handle("/provider", RequireGuard(gate.ProviderGuard, appProxy))
	a.mux.Handle("/provider/", RequireGuard(gate.ProviderGuard, appProxy))
	a.mux.Handle("/", a.pageHandler(appProxy))

	return a, nil
}

// pageHandler forwards everything else to the rendering upstream. Protected
// pages run behind the profile guard; public pages go straight through.
func (a *API) pageHandler(appProxy http.Handler) http.Handler {
	guarded := RequireGuard(gate.ProfileGuard, appProxy)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate.Classify(r.URL.Path) == gate.RoutePublic {
			appProxy.ServeHTTP(w, r)
			return
		}
		guarded.ServeHTTP(w, r)
	})
}

// Handler assembles the middleware chain around the router.
func (a *API) Handler() http.Handler {
	h := a.withGate(a.mux)
	h = SecurityHeaders(h)
	h = CORS(h, a.allowedOrigins)
	h = MaxBodyBytes(h, maxRequestBody)
	if a.rateBurst > 0 && a.ratePerSec > 0 {
		h = RateLimit(h, a.rateBurst, a.ratePerSec)
	}
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz probes the auth backend: the gateway cannot make access
// decisions for logged-in traffic without it.
func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.authURL+"/api/auth/get-session", nil)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "auth backend probe failed")
		return
	}
	resp, err := a.client.Do(req)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "auth backend unreachable")
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		writeError(w, r, http.StatusServiceUnavailable, "auth backend unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "foodhub-gateway",
		"version": a.version,
	})
}

func (a *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
