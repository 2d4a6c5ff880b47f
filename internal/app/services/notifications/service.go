// Package notifications synthesizes the per-request notification feeds.
// Nothing here is persisted; every call derives its output from the current
// plant and care state.
package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/notification"
	"github.com/verdeviva/plantcare/internal/app/services/cares"
	"github.com/verdeviva/plantcare/internal/app/services/plants"
	"github.com/verdeviva/plantcare/pkg/logger"
)

// maxNamedPlants caps how many plant names a summary message spells out.
const maxNamedPlants = 2

// Service builds notification feeds from the plant and care services.
type Service struct {
	plants *plants.Service
	cares  *cares.Service
	log    *logger.Logger
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a notification service.
func New(plantSvc *plants.Service, careSvc *cares.Service, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("notifications")
	}
	s := &Service{plants: plantSvc, cares: careSvc, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildCareNotifications derives the dashboard feed from three independent
// signals, in fixed severity order: overdue summary, due-today summary, then
// the single latest activity. Each signal contributes at most one
// notification. The order is by severity, not by timestamp; the
// chronological feed is Merged.
func (s *Service) BuildCareNotifications(ctx context.Context, userID int64) []notification.Notification {
	now := s.now()
	out := make([]notification.Notification, 0, 3)

	pending := s.cares.FindPendingDetailed(ctx, userID)

	if n, ok := s.summarize(pending, care.PriorityHigh, now); ok {
		out = append(out, n)
	}
	if n, ok := s.summarize(pending, care.PriorityMedium, now); ok {
		out = append(out, n)
	}

	if latest := s.cares.FindRecentActivity(ctx, userID, 1); len(latest) > 0 {
		out = append(out, notification.Notification{
			ID:        notification.NewID("care"),
			Kind:      notification.KindInfo,
			Title:     "Latest activity",
			Message:   latest[0].Description,
			Priority:  string(care.PriorityLow),
			Time:      latest[0].TimeAgo,
			CreatedAt: now,
		})
	}

	return out
}

func (s *Service) summarize(pending []care.PendingView, priority care.Priority, now time.Time) (notification.Notification, bool) {
	count := 0
	names := make([]string, 0, maxNamedPlants)
	for _, v := range pending {
		if v.Classification.Priority != priority {
			continue
		}
		count++
		if len(names) < maxNamedPlants {
			names = append(names, v.PlantName)
		}
	}
	if count == 0 {
		return notification.Notification{}, false
	}

	var n notification.Notification
	switch priority {
	case care.PriorityHigh:
		n = notification.Notification{
			Kind:     notification.KindUrgent,
			Title:    "Overdue care",
			Message:  fmt.Sprintf("%d care(s) overdue", count),
			Priority: string(care.PriorityHigh),
			Time:     "Urgent",
		}
	default:
		n = notification.Notification{
			Kind:     notification.KindWarning,
			Title:    "Care due today",
			Message:  fmt.Sprintf("%d care(s) due today", count),
			Priority: string(care.PriorityMedium),
			Time:     "Today",
		}
	}
	if len(names) > 0 {
		n.Message += " for: " + strings.Join(names, ", ")
	}
	n.ID = notification.NewID("care")
	n.CreatedAt = now
	return n, true
}

// Merged combines the plant-level and care-level feeds and orders the result
// by creation time, newest first. This is a distinct behavior from
// BuildCareNotifications, not a re-sorted view of it.
func (s *Service) Merged(ctx context.Context, userID int64) []notification.Notification {
	return notification.MergeByTime(
		s.plants.Notifications(ctx, userID),
		s.BuildCareNotifications(ctx, userID),
	)
}

// UnreadCount counts unread notifications in the merged feed. Notifications
// are never persisted, so everything derived in-request is unread.
func (s *Service) UnreadCount(ctx context.Context, userID int64) int {
	count := 0
	for _, n := range s.Merged(ctx, userID) {
		if !n.Read {
			count++
		}
	}
	return count
}
