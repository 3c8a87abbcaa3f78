// Package registry holds the authoritative in-memory mapping from
// connection ids to user identity, plus the transient typing set.
package registry

import (
	"errors"
	"strings"
	"sync"

	"github.com/relaychat/relay/internal/domain"
)

// ErrEmptyUsername is returned by Join when the username is empty after
// trimming. Callers absorb it; nothing is surfaced to the connection.
var ErrEmptyUsername = errors.New("registry: empty username")

// Registry tracks identified connections and their typing state.
// Invariant: no typing entry exists for a connection absent from the
// user map.
type Registry struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	order  []string // connection ids in first-join order
	typing map[string]struct{}
}

func New() *Registry {
	return &Registry{
		users:  make(map[string]domain.User),
		typing: make(map[string]struct{}),
	}
}

// Join registers (or overwrites) the user record for a connection.
// A re-join keeps the connection's original position in the snapshot
// ordering.
func (r *Registry) Join(connID, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, ErrEmptyUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[connID]; !ok {
		r.order = append(r.order, connID)
	}
	u := domain.User{ID: connID, Username: username}
	r.users[connID] = u
	return u, nil
}

// Remove deletes the user record and any typing entry for a connection.
// It reports whether a record existed.
func (r *Registry) Remove(connID string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return domain.User{}, false
	}

	delete(r.users, connID)
	delete(r.typing, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return u, true
}

// Get returns the user record for a connection.
func (r *Registry) Get(connID string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[connID]
	return u, ok
}

// SetTyping adds or clears the typing entry for a connection. It is a
// no-op (returning false) for connections with no registered user.
func (r *Registry) SetTyping(connID string, isTyping bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[connID]; !ok {
		return false
	}
	if isTyping {
		r.typing[connID] = struct{}{}
	} else {
		delete(r.typing, connID)
	}
	return true
}

// Snapshot returns all user records in first-join order.
func (r *Registry) Snapshot() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users
}

// TypingUsernames returns the usernames currently signaling typing,
// in the same order as Snapshot.
func (r *Registry) TypingUsernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.typing))
	for _, id := range r.order {
		if _, ok := r.typing[id]; ok {
			names = append(names, r.users[id].Username)
		}
	}
	return names
}
