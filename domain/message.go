// Package domain contains core concepts of the messaging client.
// This file defines Message entities and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat entry, ordered by creation time
// ascending within its conversation.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	CreatedAt      time.Time

	// Sender display fields, joined in by the backend on read.
	SenderUsername    string
	SenderDisplayName string
}

// SenderLabel returns the sender's display name, falling back to username.
func (m Message) SenderLabel() string {
	if m.SenderDisplayName != "" {
		return m.SenderDisplayName
	}
	return m.SenderUsername
}

// ValidContent reports whether content carries anything beyond whitespace.
// Empty messages are rejected locally, before any backend write.
func ValidContent(content string) bool {
	return strings.TrimSpace(content) != ""
}
