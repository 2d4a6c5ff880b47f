package storage

import (
	"context"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/domain/user"
)

// PlantStore persists plants. Every query that can leak across users takes
// the owning user id and filters by it.
type PlantStore interface {
	CreatePlant(ctx context.Context, p plant.Plant) (plant.Plant, error)
	GetPlant(ctx context.Context, id int64) (plant.Plant, error)
	GetPlantForUser(ctx context.Context, id, userID int64) (plant.Plant, error)
	UpdatePlant(ctx context.Context, p plant.Plant) (plant.Plant, error)
	// DeletePlant removes a plant and all of its care records.
	DeletePlant(ctx context.Context, id, userID int64) error
	ListPlants(ctx context.Context, userID int64) ([]plant.Plant, error)
	CountPlants(ctx context.Context, userID int64) (int, error)
	// CountHealthyPlants counts plants with a care event on or after "since",
	// plus plants with no care history at all.
	CountHealthyPlants(ctx context.Context, userID int64, since time.Time) (int, error)
	CountLocations(ctx context.Context, userID int64) (int, error)
	ListPlantsWithoutCare(ctx context.Context, userID int64) ([]plant.Plant, error)
	ListRecentlyAdded(ctx context.Context, userID int64, limit int) ([]plant.Plant, error)
	// ListPlantsWithPendingCare returns plants whose earliest pending due date
	// falls on or before today+horizonDays, ordered by that date ascending.
	ListPlantsWithPendingCare(ctx context.Context, userID int64, today time.Time, horizonDays int) ([]plant.PendingCareView, error)
	LocationStats(ctx context.Context, userID int64) ([]plant.LocationCount, error)
	TopSpecies(ctx context.Context, userID int64, limit int) ([]plant.SpeciesCount, error)
}

// CareStore persists care records. Ownership is always resolved through the
// plant relation; a care whose plant belongs to another user is not found.
type CareStore interface {
	CreateCare(ctx context.Context, rec care.Record) (care.Record, error)
	GetCare(ctx context.Context, id int64) (care.Record, error)
	GetCareForUser(ctx context.Context, id, userID int64) (care.Record, error)
	UpdateCare(ctx context.Context, rec care.Record) (care.Record, error)
	DeleteCare(ctx context.Context, id, userID int64) error
	ListByPlant(ctx context.Context, plantID int64) ([]care.Record, error)
	ListByUser(ctx context.Context, userID int64) ([]care.Record, error)
	// ListPending returns cares with a due date on or before today+horizonDays,
	// joined with their plant, ordered overdue-first and then by due date
	// ascending.
	ListPending(ctx context.Context, userID int64, today time.Time, horizonDays int) ([]care.PendingView, error)
	// CountPendingAsOf counts cares whose due date is on or before today.
	CountPendingAsOf(ctx context.Context, userID int64, today time.Time) (int, error)
	// ListUpcoming returns cares due within [today, today+daysAhead].
	ListUpcoming(ctx context.Context, userID int64, today time.Time, daysAhead int) ([]care.UpcomingView, error)
	// ListRecent returns the most recent cares ordered by performed date
	// descending, joined with their plant.
	ListRecent(ctx context.Context, userID int64, limit int) ([]care.ActivityView, error)
	// CompleteCare advances the record's performed date to now, appends a
	// completion note, and recomputes the next maintenance date from the
	// record's type, all as one atomic update. Returns sql.ErrNoRows when the
	// record does not exist or does not belong to userID.
	CompleteCare(ctx context.Context, careID, userID int64, note string, now time.Time) error
	CareStats(ctx context.Context, userID int64, now time.Time) (care.Stats, error)
}

// UserStore persists accounts for the session boundary.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}
