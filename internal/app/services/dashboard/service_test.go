package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/services/cares"
	"github.com/verdeviva/plantcare/internal/app/services/notifications"
	"github.com/verdeviva/plantcare/internal/app/services/plants"
	"github.com/verdeviva/plantcare/internal/app/storage/memory"
)

const ownerID = int64(1)

func newFixture(t *testing.T, now time.Time) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	clock := func() time.Time { return now }
	plantSvc := plants.New(store, nil, plants.WithClock(clock))
	careSvc := cares.New(store, store, nil, cares.WithClock(clock))
	notificationSvc := notifications.New(plantSvc, careSvc, nil, notifications.WithClock(clock))
	svc := New(plantSvc, careSvc, notificationSvc, nil, WithClock(clock))
	return svc, store
}

func TestGetDashboardDataEmptyUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, care.Date(2024, 6, 10))

	data := svc.GetDashboardData(ctx, ownerID)

	if data.Summary != (Summary{}) {
		t.Errorf("summary = %+v, want zeroes", data.Summary)
	}
	if data.PendingCares == nil || len(data.PendingCares) != 0 {
		t.Errorf("pending cares = %v, want empty non-nil", data.PendingCares)
	}
	if data.Notifications == nil || len(data.Notifications) != 0 {
		t.Errorf("notifications = %v, want empty non-nil", data.Notifications)
	}
	if data.RecentActivities == nil || len(data.RecentActivities) != 0 {
		t.Errorf("recent activities = %v, want empty non-nil", data.RecentActivities)
	}
}

func TestGetDashboardDataPopulated(t *testing.T) {
	ctx := context.Background()
	now := care.Date(2024, 6, 10)
	svc, store := newFixture(t, now)

	fern, err := store.CreatePlant(ctx, plant.Plant{
		UserID: ownerID, Name: "Fern", Location: "Kitchen",
		AcquisitionDate: care.Date(2024, 1, 1), CreatedAt: now.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}
	cactus, err := store.CreatePlant(ctx, plant.Plant{
		UserID: ownerID, Name: "Cactus", Location: "Office",
		AcquisitionDate: care.Date(2024, 1, 1), CreatedAt: now.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}

	overdueDue := care.Date(2024, 6, 8)
	recentDue := care.Date(2024, 7, 1)
	if _, err := store.CreateCare(ctx, care.Record{
		PlantID: fern.ID, Type: care.Water,
		Date: care.Date(2024, 6, 5), NextMaintenance: &overdueDue,
	}); err != nil {
		t.Fatalf("create care: %v", err)
	}
	if _, err := store.CreateCare(ctx, care.Record{
		PlantID: cactus.ID, Type: care.Fertilize,
		Date: care.Date(2024, 6, 9), NextMaintenance: &recentDue,
	}); err != nil {
		t.Fatalf("create care: %v", err)
	}

	data := svc.GetDashboardData(ctx, ownerID)

	if data.Summary.TotalPlants != 2 {
		t.Errorf("total plants = %d, want 2", data.Summary.TotalPlants)
	}
	// One care due on or before today.
	if data.Summary.PendingCare != 1 {
		t.Errorf("pending care = %d, want 1", data.Summary.PendingCare)
	}
	// Both plants were cared for inside the health window.
	if data.Summary.HealthyPlants != 2 {
		t.Errorf("healthy plants = %d, want 2", data.Summary.HealthyPlants)
	}
	if data.Summary.Locations != 2 {
		t.Errorf("locations = %d, want 2", data.Summary.Locations)
	}

	if len(data.PendingCares) != 1 || data.PendingCares[0].PlantName != "Fern" {
		t.Errorf("pending cares = %+v", data.PendingCares)
	}
	if len(data.Notifications) == 0 {
		t.Error("expected nonempty notification feed")
	}
	if len(data.RecentActivities) != 2 {
		t.Errorf("recent activities = %d entries, want 2", len(data.RecentActivities))
	}
}
