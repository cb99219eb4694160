package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/protik0939/foodhub-gateway/internal/audit"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

// handleSignOut revokes the session on the auth backend, then expires both
// cookie variants so the browser cannot resubmit a revoked token. The backend
// call is best effort: local cookie clearing succeeds even when the backend
// is down.
func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	cookieHeader := r.Header.Get("Cookie")
	ctx := r.Context()
	if state := a.resolver.Resolve(ctx, cookieHeader); state != nil {
		ctx = session.ContextWithState(ctx, state)
	}

	if session.HasSessionCookie(cookieHeader) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL+"/api/auth/sign-out", nil)
		if err == nil {
			req.Header.Set("Cookie", cookieHeader)
			if resp, err := a.client.Do(req); err == nil {
				resp.Body.Close()
			}
		}
	}

	expireSessionCookies(w)
	_ = audit.LogEvent(ctx, "sign_out")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

// handleSelectRole completes onboarding for the calling account. The path is
// public to the gate because unassigned accounts are exactly the callers; the
// handler does its own session check and never trusts a client-sent user id.
func (a *API) handleSelectRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}

	state := a.resolver.Resolve(r.Context(), r.Header.Get("Cookie"))
	if state == nil {
		writeError(w, r, http.StatusUnauthorized, "sign in to choose a role")
		return
	}
	if state.Suspended() {
		writeError(w, r, http.StatusForbidden, "account suspended")
		return
	}

	var req selectRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role := session.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role != session.RoleCustomer && role != session.RoleProvider {
		writeError(w, r, http.StatusBadRequest, "role must be CUSTOMER or PROVIDER")
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"userId": state.User.ID,
		"role":   string(role),
	})
	backendReq, err := http.NewRequestWithContext(r.Context(), http.MethodPatch, a.authURL+"/select-role", bytes.NewReader(payload))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "role selection failed")
		return
	}
	backendReq.Header.Set("Content-Type", "application/json")
	backendReq.Header.Set("Cookie", r.Header.Get("Cookie"))

	resp, err := a.client.Do(backendReq)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "auth backend unreachable")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		writeError(w, r, http.StatusBadGateway, "role selection rejected")
		return
	}

	ctx := session.ContextWithState(r.Context(), state)
	_ = audit.LogEvent(ctx, "role_selected", zap.String("selected_role", string(role)))

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// expireSessionCookies clears both token cookie variants.
func expireSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     session.SecureCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}
