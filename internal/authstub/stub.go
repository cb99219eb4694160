// Package authstub is a development stand-in for the external auth backend.
// It implements just the surface the gateway consumes: email/password login
// issuing a JWT session cookie, session lookup, sign-out and role selection.
// Not for production use.
package authstub

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/protik0939/foodhub-gateway/internal/session"
)

const (
	issuer     = "foodhub-authstub"
	defaultTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("authstub: invalid credentials")
	ErrInvalidToken       = errors.New("authstub: invalid token")
	ErrNotFound           = errors.New("authstub: not found")
	ErrAlreadyExists      = errors.New("authstub: already exists")
	ErrInvalidRole        = errors.New("authstub: invalid role")
)

type account struct {
	user         session.User
	passwordHash string
}

type claims struct {
	jwt.RegisteredClaims
}

// Service holds the in-memory user table and issued-token state.
type Service struct {
	mu      sync.Mutex
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	users   map[string]*account // by user id
	byEmail map[string]string
	revoked map[string]struct{} // token ids
}

// Option configures the stub.
type Option func(*Service)

// WithTTL overrides the session token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New builds the stub with the given HS256 signing secret.
func New(secret string, opts ...Option) (*Service, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("authstub: signing secret is required")
	}
	s := &Service{
		secret:  []byte(secret),
		ttl:     defaultTTL,
		now:     time.Now,
		users:   make(map[string]*account),
		byEmail: make(map[string]string),
		revoked: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account in the pre-onboarding state.
func (s *Service) Register(name, email, password string) (session.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return session.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return session.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return session.User{}, ErrAlreadyExists
	}
	now := s.now().UTC()
	user := session.User{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(name),
		Email:         email,
		Role:          session.RoleUnassigned,
		AccountStatus: session.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.users[user.ID] = &account{user: user, passwordHash: string(hash)}
	s.byEmail[email] = user.ID
	return user, nil
}

// Login verifies credentials and signs a session token.
func (s *Service) Login(email, password string) (string, session.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return "", session.User{}, ErrInvalidCredentials
	}
	acc := s.users[id]
	if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
		return "", session.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   acc.user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", session.User{}, fmt.Errorf("authstub: sign token: %w", err)
	}
	return signed, acc.user, nil
}

// SessionFor verifies the token and returns the current session state.
func (s *Service) SessionFor(token string) (*session.State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, revoked := s.revoked[c.ID]; revoked {
		return nil, ErrInvalidToken
	}
	acc, ok := s.users[c.Subject]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &session.State{
		User: acc.user,
		Session: session.Session{
			ID:        c.ID,
			UserID:    acc.user.ID,
			Token:     token,
			ExpiresAt: c.ExpiresAt.Time,
			CreatedAt: c.IssuedAt.Time,
			UpdatedAt: c.IssuedAt.Time,
		},
	}, nil
}

// SignOut revokes the token. Unknown or malformed tokens are a no-op: the
// caller clears cookies regardless.
func (s *Service) SignOut(token string) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return
	}
	if c, ok := parsed.Claims.(*claims); ok && c.ID != "" {
		s.mu.Lock()
		s.revoked[c.ID] = struct{}{}
		s.mu.Unlock()
	}
}

// SelectRole completes onboarding: only CUSTOMER or PROVIDER can be chosen.
func (s *Service) SelectRole(userID string, role session.Role) (session.User, error) {
	if role != session.RoleCustomer && role != session.RoleProvider {
		return session.User{}, ErrInvalidRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[userID]
	if !ok {
		return session.User{}, ErrNotFound
	}
	acc.user.Role = role
	acc.user.UpdatedAt = s.now().UTC()
	return acc.user, nil
}

// Grant sets any valid role directly, bypassing onboarding rules. Admin
// accounts can only be seeded this way.
func (s *Service) Grant(userID string, role session.Role) (session.User, error) {
	if !role.Valid() {
		return session.User{}, ErrInvalidRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[userID]
	if !ok {
		return session.User{}, ErrNotFound
	}
	acc.user.Role = role
	acc.user.UpdatedAt = s.now().UTC()
	return acc.user, nil
}

// SetStatus toggles suspension, for exercising the gate manually.
func (s *Service) SetStatus(userID string, status session.AccountStatus) (session.User, error) {
	if !status.Valid() {
		return session.User{}, errors.New("authstub: invalid status")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[userID]
	if !ok {
		return session.User{}, ErrNotFound
	}
	acc.user.AccountStatus = status
	acc.user.UpdatedAt = s.now().UTC()
	return acc.user, nil
}
