// Package notification holds the ephemeral notification value produced by the
// feed synthesizers. Notifications are recomputed per request and never
// persisted.
package notification

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind is the display class of a notification.
type Kind string

const (
	KindUrgent  Kind = "urgent"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notification is a derived, per-request summary message.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
	ActionURL string    `json:"action_url,omitempty"`
}

// NewID builds a prefixed notification id, e.g. "care_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// MergeByTime combines feeds and orders the result newest first. This is the
// chronological merge path; the severity-first ordering of the dashboard feed
// is a separate, deliberate behavior and must not go through here.
func MergeByTime(feeds ...[]Notification) []Notification {
	merged := make([]Notification, 0)
	for _, feed := range feeds {
		merged = append(merged, feed...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
