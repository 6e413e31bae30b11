package activity

import (
	"sync"
	"time"
)

// DefaultFeedSize is the number of entries kept when no size is configured.
const DefaultFeedSize = 50

// Entry kinds.
const (
	KindUserRegistered = "user_registered"
	KindRoomCreated    = "room_created"
	KindMessagePosted  = "message_posted"
)

// Entry is one line of the recent-activity feed.
type Entry struct {
	Kind     string    `json:"kind"`
	UserID   string    `json:"user_id,omitempty"`
	RoomID   string    `json:"room_id,omitempty"`
	RoomName string    `json:"room_name,omitempty"`
	Summary  string    `json:"summary"`
	At       time.Time `json:"at"`
}

// Feed is a bounded ring of entries. Recent returns newest first.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed holding at most size entries.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{entries: make([]Entry, size)}
}

// Add records an entry, evicting the oldest when the feed is full.
func (f *Feed) Add(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Len returns the number of entries held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lenLocked()
}

func (f *Feed) lenLocked() int {
	if f.full {
		return len(f.entries)
	}
	return f.next
}

// Cap returns the maximum number of entries the feed keeps.
func (f *Feed) Cap() int {
	return len(f.entries)
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.lenLocked()
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]Entry, 0, limit)
	idx := f.next
	for i := 0; i < limit; i++ {
		idx = (idx - 1 + len(f.entries)) % len(f.entries)
		result = append(result, f.entries[idx])
	}
	return result
}
