// Package dashboard composes the summary read-model served to the home view.
package dashboard

import (
	"context"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/notification"
	"github.com/verdeviva/plantcare/internal/app/services/cares"
	"github.com/verdeviva/plantcare/internal/app/services/notifications"
	"github.com/verdeviva/plantcare/internal/app/services/plants"
	"github.com/verdeviva/plantcare/pkg/logger"
)

// activityLimit caps the recent-activity feed on the dashboard.
const activityLimit = 5

// Summary holds the four headline counters.
type Summary struct {
	TotalPlants   int `json:"total_plants"`
	PendingCare   int `json:"pending_care"`
	HealthyPlants int `json:"healthy_plants"`
	Locations     int `json:"locations"`
}

// Data is the complete dashboard read-model. All slices are non-nil; the
// presentation boundary never receives a partial or null dashboard.
type Data struct {
	Summary          Summary                     `json:"summary_stats"`
	PendingCares     []care.PendingView          `json:"pending_cares"`
	Notifications    []notification.Notification `json:"notifications"`
	RecentActivities []care.ActivityView         `json:"recent_activities"`
}

// Service aggregates the dashboard read-model.
type Service struct {
	plants        *plants.Service
	cares         *cares.Service
	notifications *notifications.Service
	log           *logger.Logger
	now           func() time.Time
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

// New constructs a dashboard service.
func New(plantSvc *plants.Service, careSvc *cares.Service, notificationSvc *notifications.Service, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("dashboard")
	}
	s := &Service{
		plants:        plantSvc,
		cares:         careSvc,
		notifications: notificationSvc,
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Empty returns a fully populated zero-value dashboard.
func Empty() Data {
	return Data{
		PendingCares:     []care.PendingView{},
		Notifications:    []notification.Notification{},
		RecentActivities: []care.ActivityView{},
	}
}

// GetDashboardData assembles the dashboard for a user. The underlying
// services each degrade to empty results on storage faults, so the worst
// case a caller can receive is the zeroed structure from Empty, never an
// error and never nil slices.
func (s *Service) GetDashboardData(ctx context.Context, userID int64) Data {
	data := Empty()

	data.Summary = Summary{
		TotalPlants:   s.plants.Count(ctx, userID),
		PendingCare:   s.cares.CountPendingAsOf(ctx, userID, s.now()),
		HealthyPlants: s.plants.HealthyCount(ctx, userID),
		Locations:     s.plants.LocationsCount(ctx, userID),
	}
	if pending := s.cares.FindPending(ctx, userID); pending != nil {
		data.PendingCares = pending
	}
	if feed := s.notifications.BuildCareNotifications(ctx, userID); feed != nil {
		data.Notifications = feed
	}
	if recent := s.cares.FindRecentActivity(ctx, userID, activityLimit); recent != nil {
		data.RecentActivities = recent
	}

	return data
}
