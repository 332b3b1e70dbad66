// Package memory persists short working notes keyed by user identity.
package memory

import (
	"context"
	"time"
)

// WorkingNote is one derived first-person sentence kept as lightweight
// session-spanning context. Never updated after creation.
type WorkingNote struct {
	ID            string    `json:"id"`
	OwnerIdentity string    `json:"-"`
	Content       string    `json:"text"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store is the narrow adapter the conversation engine sees. Append is
// at-least-once; read-after-write inside one turn is not guaranteed and the
// engine never relies on it. Concurrent turns for one identity may interleave
// reads and writes; notes are advisory context, so this race is accepted
// rather than serialized.
type Store interface {
	// Append stores one note for the owner.
	Append(ctx context.Context, ownerIdentity, content string) error
	// FetchRecent returns up to limit notes for the owner, newest first.
	FetchRecent(ctx context.Context, ownerIdentity string, limit int) ([]WorkingNote, error)
	// EraseOwner removes every note held for the identity. Idempotent.
	EraseOwner(ctx context.Context, ownerIdentity string) error
}
