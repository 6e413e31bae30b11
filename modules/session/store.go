package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Record is a server-side session entry.
type Record struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"index;not null;type:text" json:"user_id"`
	Username  string    `gorm:"not null;type:text" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// TableName returns the table name for session records.
func (Record) TableName() string {
	return "sessions"
}

// Expired reports whether the record is no longer usable at now.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Store persists session records.
type Store interface {
	Save(ctx context.Context, record *Record) error
	// Find returns ErrSessionNotFound for unknown or expired ids.
	Find(ctx context.Context, id string) (*Record, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
	Kind() string
}
