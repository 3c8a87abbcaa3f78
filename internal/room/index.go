// Package room tracks room existence and per-connection membership,
// decoupled from any transport grouping feature. Each tracked
// connection belongs to at most one non-default room; an empty joined
// value means membership in the default room.
package room

import (
	"strings"
	"sync"

	"github.com/relaychat/relay/internal/domain"
)

// Index is the authoritative room membership store. Rooms are created
// lazily on first Ensure and never destroyed; the default room always
// exists and always sorts first in RoomNames.
type Index struct {
	mu     sync.RWMutex
	known  map[string]struct{}
	order  []string          // room names in first-Ensure order, default first
	joined map[string]string // connID -> non-default room ("" = default)
}

func NewIndex() *Index {
	return &Index{
		known:  map[string]struct{}{domain.DefaultRoom: {}},
		order:  []string{domain.DefaultRoom},
		joined: make(map[string]string),
	}
}

// Track starts membership bookkeeping for a connection, placing it in
// the default room.
func (x *Index) Track(connID string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.joined[connID]; !ok {
		x.joined[connID] = ""
	}
}

// Forget drops a connection from all membership bookkeeping.
func (x *Index) Forget(connID string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.joined, connID)
}

// Tracked reports whether the connection is known to the index.
func (x *Index) Tracked(connID string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.joined[connID]
	return ok
}

// Ensure validates and registers a room name, reporting whether it was
// newly created. Empty names (after trimming) are rejected.
func (x *Index) Ensure(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.known[name]; ok {
		return false
	}
	x.known[name] = struct{}{}
	x.order = append(x.order, name)
	return true
}

// Switch atomically moves a tracked connection into the given room,
// leaving whatever room it was in. Switching to the default room
// clears the joined value. Untracked connections are ignored.
func (x *Index) Switch(connID, name string) {
	x.Ensure(name)

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.joined[connID]; !ok {
		return
	}
	if name == domain.DefaultRoom {
		x.joined[connID] = ""
	} else {
		x.joined[connID] = name
	}
}

// Leave clears membership in the named room, reassigning the
// connection to the default room. Leaving a room the connection is not
// in is a no-op, not an error. It reports whether membership changed.
func (x *Index) Leave(connID, name string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if cur, ok := x.joined[connID]; ok && cur == name && cur != "" {
		x.joined[connID] = ""
		return true
	}
	return false
}

// Joined returns the non-default room the connection is in, or "" when
// it is in the default room (or untracked).
func (x *Index) Joined(connID string) string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.joined[connID]
}

// MembersOf resolves the member set of a room at call time. For the
// default room this is every tracked connection with no joined room.
func (x *Index) MembersOf(name string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	target := name
	if name == domain.DefaultRoom {
		target = ""
	}

	var members []string
	for connID, joined := range x.joined {
		if joined == target {
			members = append(members, connID)
		}
	}
	return members
}

// RoomNames returns all known room names in first-Ensure order, the
// default room first.
func (x *Index) RoomNames() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	names := make([]string, len(x.order))
	copy(names, x.order)
	return names
}
