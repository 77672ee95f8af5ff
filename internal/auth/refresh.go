package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
)

// NewRefreshToken returns an opaque bearer capability: 64 bytes from a
// CSPRNG, base64-encoded. It carries no claims and never collides in
// practice.
func NewRefreshToken() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Registry maps each username to its single live refresh token. Save
// overwrites the previous token, so at most one refresh token per user is
// valid at any time; a second device logging in invalidates the first.
// The map is in-process only — running more than one instance needs a
// shared store here instead.
type Registry struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]string)}
}

// Save upserts token as the only valid refresh token for username.
func (r *Registry) Save(username, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[username] = token
}

// Validate reports whether token exactly matches the stored token for
// username. No record means false.
func (r *Registry) Validate(username, token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.tokens[username]
	return ok && stored == token
}
