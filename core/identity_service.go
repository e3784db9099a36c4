package core

import (
	"context"
	"errors"
	"log"
	"strings"
)

// IdentityService handles registration, sign-in, sign-out, and account
// deletion. Successful sign-ins populate the session registry; the HTTP layer
// is responsible for carrying the returned token in a cookie.
//
// Credentials are compared in plaintext. That mirrors the stored data model
// (users carry no hash) and is unsuitable for anything beyond a toy
// deployment; a salted one-way hash belongs here before any real use.
type IdentityService struct {
	users    UserRepository
	sessions SessionRegistry
}

func NewIdentityService(users UserRepository, sessions SessionRegistry) *IdentityService {
	return &IdentityService{users: users, sessions: sessions}
}

// Register creates a new user. Duplicate names fail with ErrNameTaken; the
// uniqueness decision is left entirely to the store constraint so concurrent
// registrations cannot both succeed.
func (s *IdentityService) Register(ctx context.Context, name, password string) error {
	if strings.TrimSpace(name) == "" || password == "" {
		return ErrMissingFields
	}

	err := s.users.Create(ctx, name, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNameTaken):
		return err
	default:
		return storeFault(err)
	}
}

// SignIn validates the credentials and, on exactly one match, creates a
// session and returns its token. Zero matches fail with
// ErrUnknownCredentials; more than one match means the store has violated the
// name uniqueness invariant and fails with ErrStoreIntegrity rather than
// silently picking one.
func (s *IdentityService) SignIn(ctx context.Context, name, password string) (string, error) {
	if strings.TrimSpace(name) == "" || password == "" {
		return "", ErrMissingFields
	}

	matches, err := s.users.MatchCredentials(ctx, name, password)
	if err != nil {
		return "", storeFault(err)
	}
	switch {
	case matches == 0:
		return "", ErrUnknownCredentials
	case matches > 1:
		log.Printf("store integrity alert: %d credential matches for name=%q", matches, name)
		return "", ErrStoreIntegrity
	}

	token, err := s.sessions.Create(name)
	if err != nil {
		return "", err
	}
	return token, nil
}

// SignOut revokes the session. Revoking a token that is no longer registered
// fails with ErrNoSession; the HTTP layer clears the client cookie either way.
func (s *IdentityService) SignOut(token string) error {
	if !s.sessions.Revoke(token) {
		return ErrNoSession
	}
	return nil
}

// DeleteAccount removes all of the owner's tasks and the user record in one
// store transaction, then revokes the caller's session.
func (s *IdentityService) DeleteAccount(ctx context.Context, owner, token string) error {
	_, err := s.users.DeleteWithTasks(ctx, owner)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoUser):
		return err
	default:
		return storeFault(err)
	}

	s.sessions.Revoke(token)
	return nil
}
