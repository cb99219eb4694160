package authstub

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/protik0939/foodhub-gateway/internal/session"
)

// Handler serves the auth-backend surface the gateway consumes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/sign-up", s.handleSignUp)
	mux.HandleFunc("/api/auth/sign-in/email", s.handleSignIn)
	mux.HandleFunc("/api/auth/get-session", s.handleGetSession)
	mux.HandleFunc("/api/auth/sign-out", s.handleSignOut)
	mux.HandleFunc("/select-role", s.handleSelectRole)
	mux.HandleFunc("/suspend", s.handleSuspend)
	return mux
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeStubError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			writeStubError(w, http.StatusConflict, "account already exists")
		case errors.Is(err, ErrInvalidCredentials):
			writeStubError(w, http.StatusBadRequest, "email and password are required")
		default:
			writeStubError(w, http.StatusInternalServerError, "sign-up failed")
		}
		return
	}
	writeStubJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Service) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeStubError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, user, err := s.Login(req.Email, req.Password)
	if err != nil {
		writeStubError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeStubJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state, err := s.SessionFor(tokenFromRequest(r))
	if err != nil {
		// Anonymous callers get a literal null, like the real backend.
		writeStubJSON(w, http.StatusOK, nil)
		return
	}
	writeStubJSON(w, http.StatusOK, state)
}

func (s *Service) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.SignOut(tokenFromRequest(r))
	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeStubJSON(w, http.StatusOK, map[string]any{"success": true})
}

type selectRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s *Service) handleSelectRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req selectRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeStubError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.SelectRole(req.UserID, session.Role(strings.ToUpper(req.Role)))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			writeStubError(w, http.StatusBadRequest, "role must be CUSTOMER or PROVIDER")
		case errors.Is(err, ErrNotFound):
			writeStubError(w, http.StatusNotFound, "user not found")
		default:
			writeStubError(w, http.StatusInternalServerError, "role selection failed")
		}
		return
	}
	writeStubJSON(w, http.StatusOK, map[string]any{"user": user})
}

type suspendRequest struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

func (s *Service) handleSuspend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeStubError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req suspendRequest
	if err := decodeBody(r, &req); err != nil {
		writeStubError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.SetStatus(req.UserID, session.AccountStatus(strings.ToUpper(req.Status)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeStubError(w, http.StatusNotFound, "user not found")
			return
		}
		writeStubError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeStubJSON(w, http.StatusOK, map[string]any{"user": user})
}

func tokenFromRequest(r *http.Request) string {
	for _, name := range []string{session.CookieName, session.SecureCookieName} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeStubJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStubError(w http.ResponseWriter, code int, msg string) {
	writeStubJSON(w, code, map[string]any{"error": msg})
}
