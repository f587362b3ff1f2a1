package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a direct (two-party) or group (named, multi-party)
// messaging context. UpdatedAt is bumped whenever a message arrives so the
// conversation list can be ordered by recency. Conversations are never
// deleted by the client.
type Conversation struct {
	ID        uuid.UUID
	Name      string // required for groups, unused for direct conversations
	IsGroup   bool
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership binds a conversation to a profile. The pair
// (ConversationID, UserID) is unique: a profile may not join the same
// conversation twice. Rows are owned by the conversation's lifecycle.
type Membership struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	UserID         uuid.UUID
	JoinedAt       time.Time
}

// Member is a membership row joined with its profile, as returned by the
// backend for display purposes.
type Member struct {
	Membership
	Profile Profile
}

// ConversationSummary is a conversation enriched with what the list pane
// needs: the counterpart profile for direct conversations and the member
// count for groups.
type ConversationSummary struct {
	Conversation
	Counterpart *Profile // other member of a direct conversation, nil for groups
	MemberCount int
}

// DisplayName derives the list label: a group shows its name, a direct
// conversation shows the counterpart's label.
func (s ConversationSummary) DisplayName() string {
	if s.IsGroup {
		return s.Name
	}
	if s.Counterpart != nil {
		return s.Counterpart.Label()
	}
	return "(unknown)"
}
