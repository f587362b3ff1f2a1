// Package domain contains core concepts of the messaging client.
// This file defines Profile entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user-facing record describing an identity.
// The ID is the opaque identity reference issued at registration;
// a row is created on first sign-in and mutated only by its owner.
type Profile struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label returns the name used for display: the display name when set,
// otherwise the username.
func (p Profile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
