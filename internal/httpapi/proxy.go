package httpapi

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/protik0939/foodhub-gateway/internal/obs"
)

// newReverseProxy builds a proxy to one upstream with JSON error reporting.
// The path is forwarded untouched; the gate has already run by the time a
// request reaches a proxy.
func newReverseProxy(target string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		obs.Logger().Warn("upstream unreachable",
			zap.String("upstream", u.Host),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, http.StatusBadGateway, "upstream unavailable")
	}
	return proxy, nil
}
