package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/storage"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCompleteCareRunsInOneTransaction(t *testing.T) {
	store, mock := newMock(t)
	now := care.Date(2024, 6, 10)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF c").
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"care_type"}).AddRow("Water"))
	mock.ExpectExec("UPDATE cares").
		WithArgs(int64(7), now, storage.CompletionNote("done", now), care.NextDue(care.Water, now)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.CompleteCare(context.Background(), 7, 1, "done", now); err != nil {
		t.Fatalf("CompleteCare: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCompleteCareUnknownRecordRollsBack(t *testing.T) {
	store, mock := newMock(t)
	now := care.Date(2024, 6, 10)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF c").
		WithArgs(int64(7), int64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.CompleteCare(context.Background(), 7, 1, "", now)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListPendingScan(t *testing.T) {
	store, mock := newMock(t)
	today := care.Date(2024, 6, 10)
	cutoff := today.AddDate(0, 0, 7)

	rows := sqlmock.NewRows([]string{
		"id", "care_type", "next_maintenance_date", "observations",
		"plant_id", "name", "species", "location",
	}).
		AddRow(int64(3), "Water", care.Date(2024, 6, 8), "", int64(1), "Fern", "Fern", "Kitchen").
		AddRow(int64(4), "Prune", care.Date(2024, 6, 12), "", int64(2), "Cactus", "Cactus", "Office")

	mock.ExpectQuery("SELECT c.id, c.care_type, c.next_maintenance_date").
		WithArgs(int64(1), today, cutoff).
		WillReturnRows(rows)

	views, err := store.ListPending(context.Background(), 1, today, 7)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].CareID != 3 || views[0].PlantName != "Fern" {
		t.Errorf("first view = %+v", views[0])
	}
	if !views[1].NextMaintenance.Equal(care.Date(2024, 6, 12)) {
		t.Errorf("second due = %s", views[1].NextMaintenance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdatePlantMapsMissingRowToErrNoRows(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE plants").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdatePlant(context.Background(), plant.Plant{ID: 9, UserID: 1, Name: "Fern"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetCareNullNextMaintenance(t *testing.T) {
	store, mock := newMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "plant_id", "care_type", "care_date", "observations", "next_maintenance_date",
	}).AddRow(int64(3), int64(1), "Water", care.Date(2024, 6, 8), "", nil)

	mock.ExpectQuery("SELECT id, plant_id, care_type").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	rec, err := store.GetCare(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetCare: %v", err)
	}
	if rec.NextMaintenance != nil {
		t.Fatalf("next maintenance = %v, want nil", rec.NextMaintenance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCareStats(t *testing.T) {
	store, mock := newMock(t)
	now := care.Date(2024, 6, 10)
	monthAgo := now.AddDate(0, 0, -30)
	weekAgo := now.AddDate(0, 0, -7)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1), monthAgo, weekAgo).
		WillReturnRows(sqlmock.NewRows([]string{"count", "plants", "week"}).AddRow(5, 2, 3))
	mock.ExpectQuery("GROUP BY c.care_type").
		WithArgs(int64(1), monthAgo).
		WillReturnRows(sqlmock.NewRows([]string{"care_type", "count"}).
			AddRow("Water", 4).
			AddRow("Prune", 1))

	stats, err := store.CareStats(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("CareStats: %v", err)
	}
	if stats.TotalCares != 5 || stats.PlantsCared != 2 || stats.CaresLastWeek != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TypeDistribution[care.Water] != 4 || stats.TypeDistribution[care.Prune] != 1 {
		t.Errorf("distribution = %v", stats.TypeDistribution)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
