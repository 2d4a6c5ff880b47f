// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/domain/user"
	"github.com/verdeviva/plantcare/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.PlantStore = (*Store)(nil)
var _ storage.CareStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Name, u.Email, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// --- PlantStore -------------------------------------------------------------

func (s *Store) CreatePlant(ctx context.Context, p plant.Plant) (plant.Plant, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO plants (user_id, name, species, acquisition_date, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.UserID, p.Name, p.Species, p.AcquisitionDate, p.Location, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return plant.Plant{}, err
	}
	return p, nil
}

func (s *Store) GetPlant(ctx context.Context, id int64) (plant.Plant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, species, acquisition_date, location, created_at
		FROM plants
		WHERE id = $1
	`, id)
	return scanPlant(row)
}

func (s *Store) GetPlantForUser(ctx context.Context, id, userID int64) (plant.Plant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, species, acquisition_date, location, created_at
		FROM plants
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return scanPlant(row)
}

func (s *Store) UpdatePlant(ctx context.Context, p plant.Plant) (plant.Plant, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE plants
		SET name = $3, species = $4, acquisition_date = $5, location = $6
		WHERE id = $1 AND user_id = $2
	`, p.ID, p.UserID, p.Name, p.Species, p.AcquisitionDate, p.Location)
	if err != nil {
		return plant.Plant{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return plant.Plant{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) DeletePlant(ctx context.Context, id, userID int64) error {
	// Care rows go with the plant via ON DELETE CASCADE.
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM plants
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) ListPlants(ctx context.Context, userID int64) ([]plant.Plant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, species, acquisition_date, location, created_at
		FROM plants
		WHERE user_id = $1
		ORDER BY lower(name)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlants(rows)
}

func (s *Store) CountPlants(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM plants WHERE user_id = $1
	`, userID).Scan(&count)
	return count, err
}

func (s *Store) CountHealthyPlants(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT p.id)
		FROM plants p
		LEFT JOIN cares c ON p.id = c.plant_id
		WHERE p.user_id = $1
		AND (c.care_date >= $2 OR c.id IS NULL)
	`, userID, since).Scan(&count)
	return count, err
}

func (s *Store) CountLocations(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT lower(location))
		FROM plants
		WHERE user_id = $1 AND location IS NOT NULL AND location <> ''
	`, userID).Scan(&count)
	return count, err
}

func (s *Store) ListPlantsWithoutCare(ctx context.Context, userID int64) ([]plant.Plant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.name, p.species, p.acquisition_date, p.location, p.created_at
		FROM plants p
		LEFT JOIN cares c ON p.id = c.plant_id
		WHERE p.user_id = $1 AND c.id IS NULL
		ORDER BY lower(p.name)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlants(rows)
}

func (s *Store) ListRecentlyAdded(ctx context.Context, userID int64, limit int) ([]plant.Plant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, species, acquisition_date, location, created_at
		FROM plants
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlants(rows)
}

func (s *Store) ListPlantsWithPendingCare(ctx context.Context, userID int64, today time.Time, horizonDays int) ([]plant.PendingCareView, error) {
	day := care.Midnight(today)
	cutoff := day.AddDate(0, 0, horizonDays)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.name, p.species, p.acquisition_date, p.location, p.created_at,
		       MIN(c.next_maintenance_date) AS next_care_date
		FROM plants p
		INNER JOIN cares c ON p.id = c.plant_id
		WHERE p.user_id = $1 AND c.next_maintenance_date IS NOT NULL
		GROUP BY p.id
		HAVING MIN(c.next_maintenance_date) <= $2
		ORDER BY next_care_date
	`, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plant.PendingCareView, 0)
	for rows.Next() {
		var v plant.PendingCareView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &v.Species, &v.AcquisitionDate,
			&v.Location, &v.CreatedAt, &v.NextCareDate); err != nil {
			return nil, err
		}
		v.NextCareDate = care.Midnight(v.NextCareDate)
		v.DaysRemaining = care.DaysBetween(day, v.NextCareDate)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) LocationStats(ctx context.Context, userID int64) ([]plant.LocationCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, COUNT(*) AS count
		FROM plants
		WHERE user_id = $1
		GROUP BY location
		ORDER BY count DESC, location
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plant.LocationCount, 0)
	for rows.Next() {
		var lc plant.LocationCount
		if err := rows.Scan(&lc.Location, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

func (s *Store) TopSpecies(ctx context.Context, userID int64, limit int) ([]plant.SpeciesCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT species, COUNT(*) AS count
		FROM plants
		WHERE user_id = $1
		GROUP BY species
		ORDER BY count DESC, species
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plant.SpeciesCount, 0)
	for rows.Next() {
		var sc plant.SpeciesCount
		if err := rows.Scan(&sc.Species, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func scanPlant(row *sql.Row) (plant.Plant, error) {
	var p plant.Plant
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Species, &p.AcquisitionDate,
		&p.Location, &p.CreatedAt); err != nil {
		return plant.Plant{}, err
	}
	return p, nil
}

func scanPlants(rows *sql.Rows) ([]plant.Plant, error) {
	out := make([]plant.Plant, 0)
	for rows.Next() {
		var p plant.Plant
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Species, &p.AcquisitionDate,
			&p.Location, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- CareStore --------------------------------------------------------------

func (s *Store) CreateCare(ctx context.Context, rec care.Record) (care.Record, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cares (plant_id, care_type, care_date, observations, next_maintenance_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, rec.PlantID, string(rec.Type), rec.Date, rec.Observations, rec.NextMaintenance).Scan(&rec.ID)
	if err != nil {
		return care.Record{}, err
	}
	return rec, nil
}

func (s *Store) GetCare(ctx context.Context, id int64) (care.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, plant_id, care_type, care_date, observations, next_maintenance_date
		FROM cares
		WHERE id = $1
	`, id)
	return scanCare(row)
}

func (s *Store) GetCareForUser(ctx context.Context, id, userID int64) (care.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.plant_id, c.care_type, c.care_date, c.observations, c.next_maintenance_date
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE c.id = $1 AND p.user_id = $2
	`, id, userID)
	return scanCare(row)
}

func (s *Store) UpdateCare(ctx context.Context, rec care.Record) (care.Record, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE cares
		SET care_type = $2, care_date = $3, observations = $4, next_maintenance_date = $5
		WHERE id = $1
	`, rec.ID, string(rec.Type), rec.Date, rec.Observations, rec.NextMaintenance)
	if err != nil {
		return care.Record{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return care.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (s *Store) DeleteCare(ctx context.Context, id, userID int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cares c
		USING plants p
		WHERE c.plant_id = p.id AND c.id = $1 AND p.user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) ListByPlant(ctx context.Context, plantID int64) ([]care.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plant_id, care_type, care_date, observations, next_maintenance_date
		FROM cares
		WHERE plant_id = $1
		ORDER BY care_date DESC, id DESC
	`, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCares(rows)
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]care.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.plant_id, c.care_type, c.care_date, c.observations, c.next_maintenance_date
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1
		ORDER BY c.care_date DESC, c.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCares(rows)
}

func (s *Store) ListPending(ctx context.Context, userID int64, today time.Time, horizonDays int) ([]care.PendingView, error) {
	day := care.Midnight(today)
	cutoff := day.AddDate(0, 0, horizonDays)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.care_type, c.next_maintenance_date, c.observations,
		       p.id, p.name, p.species, p.location
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1
		AND c.next_maintenance_date IS NOT NULL
		AND c.next_maintenance_date <= $3
		ORDER BY
			CASE
				WHEN c.next_maintenance_date < $2 THEN 1
				WHEN c.next_maintenance_date = $2 THEN 2
				ELSE 3
			END,
			c.next_maintenance_date
	`, userID, day, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.PendingView, 0)
	for rows.Next() {
		var v care.PendingView
		if err := rows.Scan(&v.CareID, &v.Type, &v.NextMaintenance, &v.Observations,
			&v.PlantID, &v.PlantName, &v.Species, &v.Location); err != nil {
			return nil, err
		}
		v.NextMaintenance = care.Midnight(v.NextMaintenance)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) CountPendingAsOf(ctx context.Context, userID int64, today time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1
		AND c.next_maintenance_date IS NOT NULL
		AND c.next_maintenance_date <= $2
	`, userID, care.Midnight(today)).Scan(&count)
	return count, err
}

func (s *Store) ListUpcoming(ctx context.Context, userID int64, today time.Time, daysAhead int) ([]care.UpcomingView, error) {
	day := care.Midnight(today)
	cutoff := day.AddDate(0, 0, daysAhead)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.care_type, c.next_maintenance_date,
		       p.id, p.name, p.location
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1
		AND c.next_maintenance_date IS NOT NULL
		AND c.next_maintenance_date BETWEEN $2 AND $3
		ORDER BY c.next_maintenance_date, c.id
	`, userID, day, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.UpcomingView, 0)
	for rows.Next() {
		var v care.UpcomingView
		if err := rows.Scan(&v.CareID, &v.Type, &v.NextMaintenance,
			&v.PlantID, &v.PlantName, &v.Location); err != nil {
			return nil, err
		}
		v.NextMaintenance = care.Midnight(v.NextMaintenance)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) ListRecent(ctx context.Context, userID int64, limit int) ([]care.ActivityView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.care_type, c.care_date,
		       p.id, p.name, p.species
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1
		ORDER BY c.care_date DESC, c.id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.ActivityView, 0)
	for rows.Next() {
		var v care.ActivityView
		if err := rows.Scan(&v.CareID, &v.Type, &v.PerformedAt,
			&v.PlantID, &v.PlantName, &v.Species); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CompleteCare advances the record inside a transaction so the performed
// date, the appended note, and the recomputed due date change as one unit.
func (s *Store) CompleteCare(ctx context.Context, careID, userID int64, note string, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var careType string
	err = tx.QueryRowContext(ctx, `
		SELECT c.care_type
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE c.id = $1 AND p.user_id = $2
		FOR UPDATE OF c
	`, careID, userID).Scan(&careType)
	if err != nil {
		return err
	}

	next := care.NextDue(care.Type(careType), now)
	result, err := tx.ExecContext(ctx, `
		UPDATE cares
		SET care_date = $2,
		    observations = COALESCE(observations, '') || $3,
		    next_maintenance_date = $4
		WHERE id = $1
	`, careID, now, storage.CompletionNote(note, now), next)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (s *Store) CareStats(ctx context.Context, userID int64, now time.Time) (care.Stats, error) {
	monthAgo := care.Midnight(now).AddDate(0, 0, -30)
	weekAgo := care.Midnight(now).AddDate(0, 0, -7)

	stats := care.Stats{TypeDistribution: make(map[care.Type]int)}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT c.plant_id),
		       COUNT(*) FILTER (WHERE c.care_date >= $3)
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1 AND c.care_date >= $2
	`, userID, monthAgo, weekAgo).Scan(&stats.TotalCares, &stats.PlantsCared, &stats.CaresLastWeek)
	if err != nil {
		return care.Stats{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.care_type, COUNT(*)
		FROM cares c
		INNER JOIN plants p ON c.plant_id = p.id
		WHERE p.user_id = $1 AND c.care_date >= $2
		GROUP BY c.care_type
		ORDER BY COUNT(*) DESC
	`, userID, monthAgo)
	if err != nil {
		return care.Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return care.Stats{}, err
		}
		stats.TypeDistribution[care.Type(t)] = n
	}
	return stats, rows.Err()
}

func scanCare(row *sql.Row) (care.Record, error) {
	var rec care.Record
	var next sql.NullTime
	if err := row.Scan(&rec.ID, &rec.PlantID, &rec.Type, &rec.Date,
		&rec.Observations, &next); err != nil {
		return care.Record{}, err
	}
	if next.Valid {
		due := care.Midnight(next.Time)
		rec.NextMaintenance = &due
	}
	return rec, nil
}

func scanCares(rows *sql.Rows) ([]care.Record, error) {
	out := make([]care.Record, 0)
	for rows.Next() {
		var rec care.Record
		var next sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.PlantID, &rec.Type, &rec.Date,
			&rec.Observations, &next); err != nil {
			return nil, err
		}
		if next.Valid {
			due := care.Midnight(next.Time)
			rec.NextMaintenance = &due
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
