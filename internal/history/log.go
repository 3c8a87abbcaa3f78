// Package history keeps a bounded, insertion-ordered buffer of recent
// messages. Once the buffer exceeds its capacity the oldest entries
// are evicted; retention is best-effort.
package history

import (
	"sync"
	"time"

	"github.com/relaychat/relay/internal/domain"
)

// DefaultCapacity bounds the message buffer when no explicit capacity
// is configured.
const DefaultCapacity = 100

// Log is the bounded message store. Records are immutable once
// appended.
type Log struct {
	mu       sync.RWMutex
	capacity int
	messages []domain.ChatMessage
	ids      *idSource
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		ids:      newIDSource(),
	}
}

// Append finalizes the candidate with a unique monotonic id and a
// server timestamp, stores it, and evicts the oldest entry if the log
// now exceeds capacity. The finalized record is returned.
func (l *Log) Append(candidate domain.ChatMessage) domain.ChatMessage {
	candidate.ID = l.ids.next()
	candidate.Timestamp = time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, candidate)
	if len(l.messages) > l.capacity {
		l.messages = l.messages[len(l.messages)-l.capacity:]
	}
	return candidate
}

// Query returns retained messages in append order. With a non-empty
// room filter only public messages for that room are returned; private
// messages never appear in filtered reads.
func (l *Log) Query(room string) []domain.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if room == "" {
		out := make([]domain.ChatMessage, len(l.messages))
		copy(out, l.messages)
		return out
	}

	out := make([]domain.ChatMessage, 0)
	for _, m := range l.messages {
		if m.Room == room && !m.IsPrivate {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of retained messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
