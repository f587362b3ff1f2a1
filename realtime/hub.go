// Package realtime delivers change notifications from the hosted backend to
// in-process consumers.
//
// It provides best-effort delivery with no guarantees regarding ordering,
// durability, or exactly-once semantics: consumers must treat every event as
// a trigger to re-fetch authoritative state, never as a payload to apply.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Backend tables whose changes are notified.
const (
	TableConversations = "conversations"
	TableMembers       = "conversation_members"
	TableMessages      = "messages"
)

// Change identifies which rows changed, with just enough detail to route the
// event to interested subscriptions. Consumers never inspect it further.
type Change struct {
	Table          string    `json:"table"`
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
}

// Scope selects the changes a subscription wants: a table plus optional
// conversation or user filters. uuid.Nil means "any".
type Scope struct {
	Table          string
	ConversationID uuid.UUID
	UserID         uuid.UUID
}

// Matches reports whether a change falls inside the scope.
func (s Scope) Matches(c Change) bool {
	if s.Table != "" && s.Table != c.Table {
		return false
	}
	if s.ConversationID != uuid.Nil && s.ConversationID != c.ConversationID {
		return false
	}
	if s.UserID != uuid.Nil && s.UserID != c.UserID {
		return false
	}
	return true
}

// Subscription is one consumer's registration against a scope. Each consumer
// owns exactly one subscription matching its current scope and must Close it
// on teardown or scope change.
type Subscription struct {
	scope  Scope
	events chan Change
	hub    *Hub
	once   sync.Once
}

// Events returns the channel change notifications arrive on. The channel is
// closed when the subscription is.
func (s *Subscription) Events() <-chan Change {
	return s.events
}

// Close releases the subscription. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.events)
	})
}

// Hub fans incoming changes out to every subscription whose scope matches.
// Safe for concurrent use by multiple goroutines.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	log    *slog.Logger
	buffer int
}

func NewHub(log *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		log:    log,
		buffer: buffer,
	}
}

// Subscribe registers a new subscription for the given scope.
func (h *Hub) Subscribe(scope Scope) *Subscription {
	sub := &Subscription{
		scope:  scope,
		events: make(chan Change, h.buffer),
		hub:    h,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish routes a change to every matching subscription. Sends never block:
// if a consumer's buffer is full the event is dropped, which is safe because
// consumers reload full state on any event.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.scope.Matches(c) {
			continue
		}
		select {
		case sub.events <- c:
		default:
			h.log.Debug("notification dropped, consumer buffer full", "table", c.Table)
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
