// Package activity models the recent-activity stream fed by mutations.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what happened.
type Kind string

const (
	KindKudosAwarded       Kind = "kudos_awarded"
	KindFeedbackRegistered Kind = "feedback_registered"
)

// Event is one entry of the activity stream.
type Event struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	MemberID string    `json:"memberId"`
	At       time.Time `json:"at"`
	Detail   string    `json:"detail,omitempty"`
}

// NewEvent stamps a new event with a random id.
func NewEvent(kind Kind, memberID, detail string, at time.Time) Event {
	return Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		MemberID: memberID,
		At:       at.UTC(),
		Detail:   detail,
	}
}

// Feed retains the most recent events in a fixed-size ring.
type Feed struct {
	mu    sync.RWMutex
	buf   []Event
	next  int
	count int
}

// NewFeed creates a feed holding at most size events (minimum 1).
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{buf: make([]Event, size)}
}

// Append records e, evicting the oldest event when full.
func (f *Feed) Append(_ context.Context, e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf[f.next] = e
	f.next = (f.next + 1) % len(f.buf)
	if f.count < len(f.buf) {
		f.count++
	}
}

// Recent returns up to limit events, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := f.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.buf)) % len(f.buf)
		out = append(out, f.buf[idx])
	}
	return out
}

// Len returns the number of retained events.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}
