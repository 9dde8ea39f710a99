package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"miniblog/internal/pkg/jwtutil"
)

type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (uint, bool, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
}

// SessionService moves callers between anonymous and authenticated. A token
// is valid while its signature checks out and its session id is still in the
// store; logout removes the id.
type SessionService struct {
	identity *IdentityService
	store    SessionStore
	secret   string
	ttl      time.Duration
	newID    func() string
}

type LoginResult struct {
	Token     string
	Principal Principal
}

func NewSessionService(identity *IdentityService, store SessionStore, secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		identity: identity,
		store:    store,
		secret:   secret,
		ttl:      ttl,
		newID:    uuid.NewString,
	}
}

func (s *SessionService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	principal, err := s.identity.Authenticate(input)
	if err != nil {
		return nil, err
	}

	sessionID := s.newID()
	if err := s.store.Save(ctx, sessionID, principal.PrincipalID(), s.ttl); err != nil {
		return nil, err
	}
	token, err := jwtutil.GenerateToken(s.secret, s.ttl, principal.PrincipalID(), principal.PrincipalName(), sessionID)
	if err != nil {
		_, _ = s.store.Delete(ctx, sessionID)
		return nil, err
	}
	return &LoginResult{Token: token, Principal: principal}, nil
}

// Resolve returns the principal bound to token, or ErrUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	userID, ok, err := s.store.Lookup(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if !ok || userID != claims.UserID {
		return nil, ErrUnauthorized
	}

	user, err := s.identity.GetUser(userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return NewPrincipal(user), nil
}

func (s *SessionService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	removed, err := s.store.Delete(ctx, claims.SessionID())
	if err != nil {
		return err
	}
	if !removed {
		return ErrUnauthorized
	}
	return nil
}

// Require is the login-required gate.
func Require(principal Principal) (uint, error) {
	if principal == nil || principal.PrincipalID() == 0 {
		return 0, ErrUnauthorized
	}
	return principal.PrincipalID(), nil
}

func (s *SessionService) parse(token string) (*jwtutil.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := jwtutil.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
