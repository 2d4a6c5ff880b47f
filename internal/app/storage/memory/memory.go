package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/domain/user"
	"github.com/verdeviva/plantcare/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development. Not-found conditions surface as sql.ErrNoRows so callers
// handle both backends identically.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]user.User
	plants map[int64]plant.Plant
	cares  map[int64]care.Record
}

var _ storage.PlantStore = (*Store)(nil)
var _ storage.CareStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID: 1,
		users:  make(map[int64]user.User),
		plants: make(map[int64]plant.Plant),
		cares:  make(map[int64]care.Record),
	}
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, storage.ErrDuplicateEmail
		}
	}
	u.ID = s.nextIDLocked()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

// PlantStore implementation ---------------------------------------------------

func (s *Store) CreatePlant(_ context.Context, p plant.Plant) (plant.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextIDLocked()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.plants[p.ID] = p
	return p, nil
}

func (s *Store) GetPlant(_ context.Context, id int64) (plant.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plants[id]
	if !ok {
		return plant.Plant{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) GetPlantForUser(_ context.Context, id, userID int64) (plant.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plants[id]
	if !ok || p.UserID != userID {
		return plant.Plant{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) UpdatePlant(_ context.Context, p plant.Plant) (plant.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.plants[p.ID]
	if !ok || existing.UserID != p.UserID {
		return plant.Plant{}, sql.ErrNoRows
	}
	p.CreatedAt = existing.CreatedAt
	s.plants[p.ID] = p
	return p, nil
}

func (s *Store) DeletePlant(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plants[id]
	if !ok || p.UserID != userID {
		return sql.ErrNoRows
	}
	delete(s.plants, id)
	for careID, rec := range s.cares {
		if rec.PlantID == id {
			delete(s.cares, careID)
		}
	}
	return nil
}

func (s *Store) ListPlants(_ context.Context, userID int64) ([]plant.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.plantsOfLocked(userID)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) CountPlants(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.plantsOfLocked(userID)), nil
}

func (s *Store) CountHealthyPlants(_ context.Context, userID int64, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.plantsOfLocked(userID) {
		cared := false
		healthy := false
		for _, rec := range s.cares {
			if rec.PlantID != p.ID {
				continue
			}
			cared = true
			if !rec.Date.Before(since) {
				healthy = true
				break
			}
		}
		// A plant with no history has no signal yet and is not flagged
		// unhealthy.
		if healthy || !cared {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountLocations(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.plantsOfLocked(userID) {
		loc := strings.TrimSpace(p.Location)
		if loc != "" {
			seen[strings.ToLower(loc)] = struct{}{}
		}
	}
	return len(seen), nil
}

func (s *Store) ListPlantsWithoutCare(_ context.Context, userID int64) ([]plant.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]plant.Plant, 0)
	for _, p := range s.plantsOfLocked(userID) {
		if !s.hasCareLocked(p.ID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) ListRecentlyAdded(_ context.Context, userID int64, limit int) ([]plant.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.plantsOfLocked(userID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListPlantsWithPendingCare(_ context.Context, userID int64, today time.Time, horizonDays int) ([]plant.PendingCareView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := care.Midnight(today).AddDate(0, 0, horizonDays)

	out := make([]plant.PendingCareView, 0)
	for _, p := range s.plantsOfLocked(userID) {
		var earliest *time.Time
		for _, rec := range s.cares {
			if rec.PlantID != p.ID || rec.NextMaintenance == nil {
				continue
			}
			due := *rec.NextMaintenance
			if earliest == nil || due.Before(*earliest) {
				earliest = &due
			}
		}
		if earliest == nil || earliest.After(cutoff) {
			continue
		}
		out = append(out, plant.PendingCareView{
			Plant:         p,
			NextCareDate:  *earliest,
			DaysRemaining: care.DaysBetween(today, *earliest),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextCareDate.Before(out[j].NextCareDate)
	})
	return out, nil
}

func (s *Store) LocationStats(_ context.Context, userID int64) ([]plant.LocationCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range s.plantsOfLocked(userID) {
		counts[p.Location]++
	}
	out := make([]plant.LocationCount, 0, len(counts))
	for loc, n := range counts {
		out = append(out, plant.LocationCount{Location: loc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Location < out[j].Location
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}

func (s *Store) TopSpecies(_ context.Context, userID int64, limit int) ([]plant.SpeciesCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range s.plantsOfLocked(userID) {
		counts[p.Species]++
	}
	out := make([]plant.SpeciesCount, 0, len(counts))
	for sp, n := range counts {
		out = append(out, plant.SpeciesCount{Species: sp, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Species < out[j].Species
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CareStore implementation ----------------------------------------------------

func (s *Store) CreateCare(_ context.Context, rec care.Record) (care.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plants[rec.PlantID]; !ok {
		return care.Record{}, sql.ErrNoRows
	}
	rec.ID = s.nextIDLocked()
	s.cares[rec.ID] = rec
	return rec, nil
}

func (s *Store) GetCare(_ context.Context, id int64) (care.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cares[id]
	if !ok {
		return care.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (s *Store) GetCareForUser(_ context.Context, id, userID int64) (care.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.careForUserLocked(id, userID)
	if !ok {
		return care.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (s *Store) UpdateCare(_ context.Context, rec care.Record) (care.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.cares[rec.ID]
	if !ok {
		return care.Record{}, sql.ErrNoRows
	}
	rec.PlantID = existing.PlantID
	s.cares[rec.ID] = rec
	return rec, nil
}

func (s *Store) DeleteCare(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.careForUserLocked(id, userID); !ok {
		return sql.ErrNoRows
	}
	delete(s.cares, id)
	return nil
}

func (s *Store) ListByPlant(_ context.Context, plantID int64) ([]care.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]care.Record, 0)
	for _, rec := range s.cares {
		if rec.PlantID == plantID {
			out = append(out, rec)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (s *Store) ListByUser(_ context.Context, userID int64) ([]care.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]care.Record, 0)
	for _, rec := range s.cares {
		if p, ok := s.plants[rec.PlantID]; ok && p.UserID == userID {
			out = append(out, rec)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (s *Store) ListPending(_ context.Context, userID int64, today time.Time, horizonDays int) ([]care.PendingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := care.Midnight(today)
	cutoff := day.AddDate(0, 0, horizonDays)

	out := make([]care.PendingView, 0)
	for _, rec := range s.cares {
		p, ok := s.plants[rec.PlantID]
		if !ok || p.UserID != userID || rec.NextMaintenance == nil {
			continue
		}
		due := care.Midnight(*rec.NextMaintenance)
		if due.After(cutoff) {
			continue
		}
		out = append(out, care.PendingView{
			CareID:          rec.ID,
			Type:            rec.Type,
			NextMaintenance: due,
			Observations:    rec.Observations,
			PlantID:         p.ID,
			PlantName:       p.Name,
			Species:         p.Species,
			Location:        p.Location,
		})
	}
	// Overdue first, then due today, then upcoming; ascending due date within
	// each group.
	group := func(v care.PendingView) int {
		switch {
		case v.NextMaintenance.Before(day):
			return 1
		case v.NextMaintenance.Equal(day):
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := group(out[i]), group(out[j])
		if gi != gj {
			return gi < gj
		}
		return out[i].NextMaintenance.Before(out[j].NextMaintenance)
	})
	return out, nil
}

func (s *Store) CountPendingAsOf(_ context.Context, userID int64, today time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := care.Midnight(today)
	count := 0
	for _, rec := range s.cares {
		p, ok := s.plants[rec.PlantID]
		if !ok || p.UserID != userID || rec.NextMaintenance == nil {
			continue
		}
		if !care.Midnight(*rec.NextMaintenance).After(day) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListUpcoming(_ context.Context, userID int64, today time.Time, daysAhead int) ([]care.UpcomingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := care.Midnight(today)
	cutoff := day.AddDate(0, 0, daysAhead)

	out := make([]care.UpcomingView, 0)
	for _, rec := range s.cares {
		p, ok := s.plants[rec.PlantID]
		if !ok || p.UserID != userID || rec.NextMaintenance == nil {
			continue
		}
		due := care.Midnight(*rec.NextMaintenance)
		if due.Before(day) || due.After(cutoff) {
			continue
		}
		out = append(out, care.UpcomingView{
			CareID:          rec.ID,
			Type:            rec.Type,
			NextMaintenance: due,
			PlantID:         p.ID,
			PlantName:       p.Name,
			Location:        p.Location,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NextMaintenance.Equal(out[j].NextMaintenance) {
			return out[i].CareID < out[j].CareID
		}
		return out[i].NextMaintenance.Before(out[j].NextMaintenance)
	})
	return out, nil
}

func (s *Store) ListRecent(_ context.Context, userID int64, limit int) ([]care.ActivityView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]care.Record, 0)
	for _, rec := range s.cares {
		if p, ok := s.plants[rec.PlantID]; ok && p.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sortByDateDesc(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	out := make([]care.ActivityView, 0, len(recs))
	for _, rec := range recs {
		p := s.plants[rec.PlantID]
		out = append(out, care.ActivityView{
			CareID:      rec.ID,
			Type:        rec.Type,
			PlantID:     p.ID,
			PlantName:   p.Name,
			Species:     p.Species,
			PerformedAt: rec.Date,
		})
	}
	return out, nil
}

func (s *Store) CompleteCare(_ context.Context, careID, userID int64, note string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.careForUserLocked(careID, userID)
	if !ok {
		return sql.ErrNoRows
	}

	next := care.NextDue(rec.Type, now)
	rec.Date = now
	rec.Observations += storage.CompletionNote(note, now)
	rec.NextMaintenance = &next
	s.cares[careID] = rec
	return nil
}

func (s *Store) CareStats(_ context.Context, userID int64, now time.Time) (care.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	monthAgo := care.Midnight(now).AddDate(0, 0, -30)
	weekAgo := care.Midnight(now).AddDate(0, 0, -7)

	stats := care.Stats{TypeDistribution: make(map[care.Type]int)}
	plantsSeen := make(map[int64]struct{})
	for _, rec := range s.cares {
		p, ok := s.plants[rec.PlantID]
		if !ok || p.UserID != userID || rec.Date.Before(monthAgo) {
			continue
		}
		stats.TotalCares++
		stats.TypeDistribution[rec.Type]++
		plantsSeen[rec.PlantID] = struct{}{}
		if !rec.Date.Before(weekAgo) {
			stats.CaresLastWeek++
		}
	}
	stats.PlantsCared = len(plantsSeen)
	return stats, nil
}

// helpers ---------------------------------------------------------------------

func (s *Store) plantsOfLocked(userID int64) []plant.Plant {
	out := make([]plant.Plant, 0)
	for _, p := range s.plants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) hasCareLocked(plantID int64) bool {
	for _, rec := range s.cares {
		if rec.PlantID == plantID {
			return true
		}
	}
	return false
}

func (s *Store) careForUserLocked(careID, userID int64) (care.Record, bool) {
	rec, ok := s.cares[careID]
	if !ok {
		return care.Record{}, false
	}
	p, ok := s.plants[rec.PlantID]
	if !ok || p.UserID != userID {
		return care.Record{}, false
	}
	return rec, true
}

func sortByDateDesc(recs []care.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Date.Equal(recs[j].Date) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].Date.After(recs[j].Date)
	})
}
