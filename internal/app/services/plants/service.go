// Package plants implements plant collection management and the plant-level
// dashboard queries. Read paths degrade to empty results on storage faults,
// write paths report success as a boolean, matching the cares service.
package plants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/notification"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/storage"
	"github.com/verdeviva/plantcare/pkg/logger"
)

const (
	healthyWindowDays  = 15
	pendingHorizonDays = 7
	recentPlantsLimit  = 3
)

// Service exposes plant operations scoped to an owning user.
type Service struct {
	store storage.PlantStore
	log   *logger.Logger
	now   func() time.Time
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

// New constructs a plant service.
func New(store storage.PlantStore, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("plants")
	}
	s := &Service{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a plant for the user.
func (s *Service) Create(ctx context.Context, userID int64, name, species string, acquisitionDate time.Time, location string) (plant.Plant, bool) {
	p := plant.Plant{
		UserID:          userID,
		Name:            strings.TrimSpace(name),
		Species:         strings.TrimSpace(species),
		AcquisitionDate: care.Midnight(acquisitionDate),
		Location:        strings.TrimSpace(location),
	}
	created, err := s.store.CreatePlant(ctx, p)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("create plant failed")
		return plant.Plant{}, false
	}
	return created, true
}

// Get returns one of the user's plants.
func (s *Service) Get(ctx context.Context, userID, plantID int64) (plant.Plant, bool) {
	p, err := s.store.GetPlantForUser(ctx, plantID, userID)
	if err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Warn("get plant: not found")
		return plant.Plant{}, false
	}
	return p, true
}

// Update rewrites one of the user's plants.
func (s *Service) Update(ctx context.Context, userID, plantID int64, name, species string, acquisitionDate time.Time, location string) bool {
	p := plant.Plant{
		ID:              plantID,
		UserID:          userID,
		Name:            strings.TrimSpace(name),
		Species:         strings.TrimSpace(species),
		AcquisitionDate: care.Midnight(acquisitionDate),
		Location:        strings.TrimSpace(location),
	}
	if _, err := s.store.UpdatePlant(ctx, p); err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Warn("update plant failed")
		return false
	}
	return true
}

// Delete removes one of the user's plants with its care history.
func (s *Service) Delete(ctx context.Context, userID, plantID int64) bool {
	if err := s.store.DeletePlant(ctx, plantID, userID); err != nil {
		s.log.WithError(err).WithField("plant_id", plantID).Warn("delete plant failed")
		return false
	}
	return true
}

// List returns the user's plants ordered by name.
func (s *Service) List(ctx context.Context, userID int64) []plant.Plant {
	out, err := s.store.ListPlants(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list plants failed")
		return []plant.Plant{}
	}
	return out
}

// Count returns the user's total plant count.
func (s *Service) Count(ctx context.Context, userID int64) int {
	count, err := s.store.CountPlants(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("count plants failed")
		return 0
	}
	return count
}

// HealthyCount counts plants cared for within the last fifteen days. Plants
// with no care history at all count as healthy: they have no signal yet.
func (s *Service) HealthyCount(ctx context.Context, userID int64) int {
	since := care.Midnight(s.now()).AddDate(0, 0, -healthyWindowDays)
	count, err := s.store.CountHealthyPlants(ctx, userID, since)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("count healthy plants failed")
		return 0
	}
	return count
}

// LocationsCount returns the number of distinct non-empty locations.
func (s *Service) LocationsCount(ctx context.Context, userID int64) int {
	count, err := s.store.CountLocations(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("count locations failed")
		return 0
	}
	return count
}

// WithoutCare returns the user's plants that never received any care.
func (s *Service) WithoutCare(ctx context.Context, userID int64) []plant.Plant {
	out, err := s.store.ListPlantsWithoutCare(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list plants without care failed")
		return []plant.Plant{}
	}
	return out
}

// RecentlyAdded returns the most recently registered plants annotated for
// display.
func (s *Service) RecentlyAdded(ctx context.Context, userID int64, limit int) []plant.RecentView {
	out, err := s.store.ListRecentlyAdded(ctx, userID, limit)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list recent plants failed")
		return []plant.RecentView{}
	}
	views := make([]plant.RecentView, 0, len(out))
	for _, p := range out {
		views = append(views, plant.RecentView{
			Plant:     p,
			Icon:      plant.Icon(p.Species),
			AddedDate: p.CreatedAt.Format("02/01/2006"),
		})
	}
	return views
}

// WithPendingCare returns plants whose earliest pending due date falls within
// the seven-day horizon, each tagged with its urgency bucket.
func (s *Service) WithPendingCare(ctx context.Context, userID int64) []plant.PendingCareView {
	today := care.Midnight(s.now())
	out, err := s.store.ListPlantsWithPendingCare(ctx, userID, today, pendingHorizonDays)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list plants with pending care failed")
		return []plant.PendingCareView{}
	}
	for i := range out {
		out[i].Priority = string(care.Classify(out[i].NextCareDate, today).Priority)
	}
	return out
}

// GardenStats summarizes the user's collection. The pending count here is
// plant-level (distinct plants with pending care), unlike the record-level
// backlog count on the dashboard summary; the two are intentionally separate
// computations.
func (s *Service) GardenStats(ctx context.Context, userID int64) plant.GardenStats {
	stats := plant.GardenStats{
		PlantsByLocation: []plant.LocationCount{},
		TopSpecies:       []plant.SpeciesCount{},
	}
	stats.TotalPlants = s.Count(ctx, userID)
	stats.PendingCare = len(s.WithPendingCare(ctx, userID))

	if locs, err := s.store.LocationStats(ctx, userID); err == nil {
		stats.PlantsByLocation = locs
	} else {
		s.log.WithError(err).WithField("user_id", userID).Error("location stats failed")
	}
	if species, err := s.store.TopSpecies(ctx, userID, 5); err == nil {
		stats.TopSpecies = species
	} else {
		s.log.WithError(err).WithField("user_id", userID).Error("top species failed")
	}
	return stats
}

// Notifications derives the plant-level notification feed: plants never
// cared for, overdue plants, and recent additions. At most one notification
// per signal.
func (s *Service) Notifications(ctx context.Context, userID int64) []notification.Notification {
	now := s.now()
	out := make([]notification.Notification, 0, 3)

	if withoutCare := s.WithoutCare(ctx, userID); len(withoutCare) > 0 {
		out = append(out, notification.Notification{
			ID:        notification.NewID("plant"),
			Kind:      notification.KindWarning,
			Title:     "Plants without care",
			Message:   fmt.Sprintf("%d plant(s) never received any care", len(withoutCare)),
			Priority:  string(care.PriorityMedium),
			Time:      "Attention",
			CreatedAt: now,
		})
	}

	overdue := 0
	for _, p := range s.WithPendingCare(ctx, userID) {
		if p.Priority == string(care.PriorityHigh) {
			overdue++
		}
	}
	if overdue > 0 {
		out = append(out, notification.Notification{
			ID:        notification.NewID("plant"),
			Kind:      notification.KindUrgent,
			Title:     "Overdue plants",
			Message:   fmt.Sprintf("%d plant(s) with overdue care", overdue),
			Priority:  string(care.PriorityHigh),
			Time:      "Urgent",
			CreatedAt: now,
		})
	}

	if recent := s.RecentlyAdded(ctx, userID, recentPlantsLimit); len(recent) > 0 {
		names := make([]string, 0, 2)
		for _, p := range recent {
			if len(names) == 2 {
				break
			}
			names = append(names, p.Name)
		}
		msg := "New plants: " + strings.Join(names, ", ")
		if len(recent) > 2 {
			msg += fmt.Sprintf(" and %d more", len(recent)-2)
		}
		out = append(out, notification.Notification{
			ID:        notification.NewID("plant"),
			Kind:      notification.KindInfo,
			Title:     "Recent plants",
			Message:   msg,
			Priority:  string(care.PriorityLow),
			Time:      "Recent",
			CreatedAt: now,
		})
	}

	return out
}
