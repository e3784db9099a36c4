package core

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
)

// SessionRegistry maps opaque session tokens to authenticated user names.
// The token is the sole authority for "who is this request from"; the
// transport cookie is merely its carrier.
type SessionRegistry interface {
	// Create registers a new session for owner and returns its token.
	Create(owner string) (string, error)
	// Resolve looks up the owner for token. It never mutates state.
	Resolve(token string) (string, bool)
	// Revoke removes the entry for token, reporting whether one existed.
	Revoke(token string) bool
}

// MemorySessionRegistry is a process-local SessionRegistry. All sessions are
// lost on restart, forcing re-authentication.
type MemorySessionRegistry struct {
	mu      sync.RWMutex
	byToken map[string]string
}

func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{byToken: make(map[string]string)}
}

// Create generates an unguessable token and stores the mapping. An existing
// entry is never overwritten; on the (negligible) chance of a token collision
// a fresh token is drawn.
func (r *MemorySessionRegistry) Create(owner string) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		token, err := newSessionToken()
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		_, exists := r.byToken[token]
		if !exists {
			r.byToken[token] = owner
		}
		r.mu.Unlock()
		if !exists {
			return token, nil
		}
	}
	return "", errors.New("could not allocate a unique session token")
}

func (r *MemorySessionRegistry) Resolve(token string) (string, bool) {
	r.mu.RLock()
	owner, ok := r.byToken[token]
	r.mu.RUnlock()
	return owner, ok
}

func (r *MemorySessionRegistry) Revoke(token string) bool {
	r.mu.Lock()
	_, ok := r.byToken[token]
	if ok {
		delete(r.byToken, token)
	}
	r.mu.Unlock()
	return ok
}

// ActiveCount reports the number of live sessions.
func (r *MemorySessionRegistry) ActiveCount() int {
	r.mu.RLock()
	n := len(r.byToken)
	r.mu.RUnlock()
	return n
}

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
