// Package cares implements the care scheduling operations: CRUD over care
// records, the pending/upcoming/recent queries, and the compound completion
// mutation.
//
// Read paths deliberately degrade to empty results when storage fails; the
// fault is logged and the caller sees an empty list or zero count. Write
// paths report success as a boolean. Callers never receive a storage error.
package cares

import (
	"context"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/storage"
	"github.com/verdeviva/plantcare/pkg/logger"
)

const (
	defaultHorizonDays       = 7
	defaultDetailHorizonDays = 3
)

// Service exposes care-record operations scoped to an owning user.
type Service struct {
	plants storage.PlantStore
	store  storage.CareStore
	log    *logger.Logger

	horizonDays       int
	detailHorizonDays int
	now               func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithHorizon overrides the look-ahead window used by FindPending.
func WithHorizon(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// WithDetailHorizon overrides the shorter window used by the notification
// feed input.
func WithDetailHorizon(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.detailHorizonDays = days
		}
	}
}

// WithClock overrides the time source. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a care service.
func New(plants storage.PlantStore, store storage.CareStore, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("cares")
	}
	s := &Service{
		plants:            plants,
		store:             store,
		log:               log,
		horizonDays:       defaultHorizonDays,
		detailHorizonDays: defaultDetailHorizonDays,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCare records a care event for one of the user's plants. The raw type
// is canonicalized and the next maintenance date is derived from it; callers
// cannot set the due date directly.
func (s *Service) CreateCare(ctx context.Context, userID, plantID int64, rawType string, date time.Time, observations string) bool {
	if _, err := s.plants.GetPlantForUser(ctx, plantID, userID); err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Warn("create care: plant not owned")
		return false
	}

	t := care.Canonicalize(rawType)
	next := care.NextDue(t, date)
	rec := care.Record{
		PlantID:         plantID,
		Type:            t,
		Date:            date,
		Observations:    observations,
		NextMaintenance: &next,
	}
	if _, err := s.store.CreateCare(ctx, rec); err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Error("create care failed")
		return false
	}
	return true
}

// UpdateCare rewrites a care record the user owns. The next maintenance date
// is always recomputed from the new type and date.
func (s *Service) UpdateCare(ctx context.Context, userID, careID int64, rawType string, date time.Time, observations string) bool {
	existing, err := s.store.GetCareForUser(ctx, careID, userID)
	if err != nil {
		s.log.WithError(err).WithField("care_id", careID).Warn("update care: not found")
		return false
	}

	t := care.Canonicalize(rawType)
	next := care.NextDue(t, date)
	existing.Type = t
	existing.Date = date
	existing.Observations = observations
	existing.NextMaintenance = &next

	if _, err := s.store.UpdateCare(ctx, existing); err != nil {
		s.log.WithError(err).WithField("care_id", careID).Error("update care failed")
		return false
	}
	return true
}

// DeleteCare removes a care record the user owns.
func (s *Service) DeleteCare(ctx context.Context, userID, careID int64) bool {
	if err := s.store.DeleteCare(ctx, careID, userID); err != nil {
		s.log.WithError(err).WithField("care_id", careID).Warn("delete care failed")
		return false
	}
	return true
}

// ListByPlant returns the care history of one of the user's plants, newest
// first.
func (s *Service) ListByPlant(ctx context.Context, userID, plantID int64) []care.Record {
	if _, err := s.plants.GetPlantForUser(ctx, plantID, userID); err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Warn("list cares: plant not owned")
		return []care.Record{}
	}
	recs, err := s.store.ListByPlant(ctx, plantID)
	if err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Error("list cares failed")
		return []care.Record{}
	}
	return recs
}

// FindPending returns the user's pending cares inside the configured
// look-ahead window, overdue first, each classified by urgency.
func (s *Service) FindPending(ctx context.Context, userID int64) []care.PendingView {
	return s.pending(ctx, userID, s.horizonDays)
}

// FindPendingDetailed is the shorter-window variant feeding the notification
// synthesizer. The two windows overlap but are not the same computation;
// both are kept as distinct behaviors.
func (s *Service) FindPendingDetailed(ctx context.Context, userID int64) []care.PendingView {
	return s.pending(ctx, userID, s.detailHorizonDays)
}

func (s *Service) pending(ctx context.Context, userID int64, horizonDays int) []care.PendingView {
	today := care.Midnight(s.now())
	views, err := s.store.ListPending(ctx, userID, today, horizonDays)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list pending cares failed")
		return []care.PendingView{}
	}
	for i := range views {
		views[i].Icon = care.Icon(views[i].Type)
		views[i].Classification = care.Classify(views[i].NextMaintenance, today)
	}
	return views
}

// CountPendingAsOf counts the user's currently actionable backlog: cares due
// on or before the given day. Distinct from the look-ahead window used for
// display.
func (s *Service) CountPendingAsOf(ctx context.Context, userID int64, now time.Time) int {
	count, err := s.store.CountPendingAsOf(ctx, userID, now)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("count pending cares failed")
		return 0
	}
	return count
}

// PendingCount counts the backlog as of the service clock.
func (s *Service) PendingCount(ctx context.Context, userID int64) int {
	return s.CountPendingAsOf(ctx, userID, s.now())
}

// FindUpcoming returns cares due within [today, today+daysAhead].
func (s *Service) FindUpcoming(ctx context.Context, userID int64, daysAhead int) []care.UpcomingView {
	today := care.Midnight(s.now())
	views, err := s.store.ListUpcoming(ctx, userID, today, daysAhead)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list upcoming cares failed")
		return []care.UpcomingView{}
	}
	for i := range views {
		views[i].Icon = care.Icon(views[i].Type)
		views[i].DaysUntil = care.DaysBetween(today, views[i].NextMaintenance)
		views[i].Timeline = care.Timeline(views[i].DaysUntil)
	}
	return views
}

// FindRecentActivity returns the user's most recent care events annotated
// with a human description and an elapsed-time label.
func (s *Service) FindRecentActivity(ctx context.Context, userID int64, limit int) []care.ActivityView {
	views, err := s.store.ListRecent(ctx, userID, limit)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list recent activity failed")
		return []care.ActivityView{}
	}
	now := s.now()
	for i := range views {
		views[i].Icon = care.Icon(views[i].Type)
		views[i].Description = care.Describe(views[i].Type, views[i].PlantName)
		hours := int(now.Sub(views[i].PerformedAt).Hours())
		if hours < 0 {
			hours = 0
		}
		views[i].TimeAgo = care.TimeAgo(hours)
	}
	return views
}

// CompleteCare marks a care as done: the performed date advances to today, a
// completion note is appended, and the next maintenance date is recomputed
// in a single atomic step. Returns false when the record does not exist, does not belong
// to the user, or storage fails; the three cases are indistinguishable to
// the caller.
func (s *Service) CompleteCare(ctx context.Context, careID, userID int64, note string) bool {
	if err := s.store.CompleteCare(ctx, careID, userID, note, s.now()); err != nil {
		s.log.WithError(err).WithField("care_id", careID).Warn("complete care failed")
		return false
	}
	return true
}

// Stats summarizes the user's recent care history. Degrades to a zeroed
// structure when storage fails.
func (s *Service) Stats(ctx context.Context, userID int64) care.Stats {
	stats, err := s.store.CareStats(ctx, userID, s.now())
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("care stats failed")
		return care.Stats{TypeDistribution: map[care.Type]int{}}
	}
	if stats.TypeDistribution == nil {
		stats.TypeDistribution = map[care.Type]int{}
	}
	return stats
}
