package plants

import (
	"context"
	"testing"
	"time"

	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/domain/plant"
	"github.com/verdeviva/plantcare/internal/app/storage/memory"
)

const ownerID = int64(1)

func newFixture(t *testing.T, now time.Time) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := New(store, nil, WithClock(func() time.Time { return now }))
	return svc, store
}

func seedPlant(t *testing.T, store *memory.Store, p plant.Plant) plant.Plant {
	t.Helper()
	if p.UserID == 0 {
		p.UserID = ownerID
	}
	created, err := store.CreatePlant(context.Background(), p)
	if err != nil {
		t.Fatalf("seed plant: %v", err)
	}
	return created
}

func seedCare(t *testing.T, store *memory.Store, plantID int64, date, due time.Time) {
	t.Helper()
	if _, err := store.CreateCare(context.Background(), care.Record{
		PlantID:         plantID,
		Type:            care.Water,
		Date:            date,
		NextMaintenance: &due,
	}); err != nil {
		t.Fatalf("seed care: %v", err)
	}
}

func TestCreateTrimsInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, care.Date(2024, 6, 10))

	p, ok := svc.Create(ctx, ownerID, "  Fern  ", " Nephrolepis ", care.Date(2024, 1, 1), " Kitchen ")
	if !ok {
		t.Fatal("Create returned false")
	}
	if p.Name != "Fern" || p.Species != "Nephrolepis" || p.Location != "Kitchen" {
		t.Errorf("created plant = %+v", p)
	}
	if p.ID == 0 {
		t.Error("plant has no id")
	}
}

func TestGetScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, care.Date(2024, 6, 10))
	p := seedPlant(t, store, plant.Plant{Name: "Fern"})

	if _, ok := svc.Get(ctx, ownerID, p.ID); !ok {
		t.Error("owner cannot read own plant")
	}
	if _, ok := svc.Get(ctx, ownerID+1, p.ID); ok {
		t.Error("another user can read the plant")
	}
}

func TestDeleteCascadesToCareHistory(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, care.Date(2024, 6, 10))
	p := seedPlant(t, store, plant.Plant{Name: "Fern"})
	seedCare(t, store, p.ID, care.Date(2024, 6, 1), care.Date(2024, 6, 4))

	if !svc.Delete(ctx, ownerID, p.ID) {
		t.Fatal("Delete returned false")
	}
	recs, err := store.ListByPlant(ctx, p.ID)
	if err != nil {
		t.Fatalf("list cares: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("care history survived plant deletion: %d records", len(recs))
	}
}

func TestHealthyCountWindow(t *testing.T) {
	ctx := context.Background()
	now := care.Date(2024, 6, 20)
	svc, store := newFixture(t, now)

	due := care.Date(2024, 7, 1)
	recent := seedPlant(t, store, plant.Plant{Name: "Fern"})
	seedCare(t, store, recent.ID, care.Date(2024, 6, 15), due)

	stale := seedPlant(t, store, plant.Plant{Name: "Cactus"})
	seedCare(t, store, stale.ID, care.Date(2024, 5, 1), due)

	// Cared for exactly fifteen days ago, still inside the window.
	edge := seedPlant(t, store, plant.Plant{Name: "Ivy"})
	seedCare(t, store, edge.ID, care.Date(2024, 6, 5), due)

	// Never cared for: no signal, counts as healthy.
	seedPlant(t, store, plant.Plant{Name: "Monstera"})

	if got := svc.HealthyCount(ctx, ownerID); got != 3 {
		t.Fatalf("HealthyCount = %d, want 3", got)
	}
}

func TestLocationsCountDistinct(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t, care.Date(2024, 6, 10))

	seedPlant(t, store, plant.Plant{Name: "Fern", Location: "Kitchen"})
	seedPlant(t, store, plant.Plant{Name: "Ivy", Location: "kitchen"})
	seedPlant(t, store, plant.Plant{Name: "Cactus", Location: "Office"})
	seedPlant(t, store, plant.Plant{Name: "Rose", Location: ""})

	if got := svc.LocationsCount(ctx, ownerID); got != 2 {
		t.Fatalf("LocationsCount = %d, want 2", got)
	}
}

func TestWithPendingCarePriorities(t *testing.T) {
	ctx := context.Background()
	today := care.Date(2024, 6, 10)
	svc, store := newFixture(t, today)

	overdue := seedPlant(t, store, plant.Plant{Name: "Fern"})
	seedCare(t, store, overdue.ID, care.Date(2024, 6, 1), care.Date(2024, 6, 8))

	soon := seedPlant(t, store, plant.Plant{Name: "Cactus"})
	seedCare(t, store, soon.ID, care.Date(2024, 6, 9), care.Date(2024, 6, 12))

	distant := seedPlant(t, store, plant.Plant{Name: "Ivy"})
	seedCare(t, store, distant.ID, care.Date(2024, 6, 1), care.Date(2024, 6, 25))

	views := svc.WithPendingCare(ctx, ownerID)
	if len(views) != 2 {
		t.Fatalf("got %d plants with pending care, want 2", len(views))
	}
	if views[0].Name != "Fern" || views[0].Priority != string(care.PriorityHigh) {
		t.Errorf("first = %+v, want overdue Fern", views[0])
	}
	if views[1].Name != "Cactus" || views[1].Priority != string(care.PriorityLow) {
		t.Errorf("second = %+v, want upcoming Cactus", views[1])
	}
}

func TestGardenStatsCountsDistinctPlants(t *testing.T) {
	ctx := context.Background()
	today := care.Date(2024, 6, 10)
	svc, store := newFixture(t, today)

	p := seedPlant(t, store, plant.Plant{Name: "Fern", Species: "Fern", Location: "Kitchen"})
	// Two overdue cares on the same plant still count it once.
	seedCare(t, store, p.ID, care.Date(2024, 6, 1), care.Date(2024, 6, 4))
	seedCare(t, store, p.ID, care.Date(2024, 6, 2), care.Date(2024, 6, 5))

	stats := svc.GardenStats(ctx, ownerID)
	if stats.TotalPlants != 1 {
		t.Errorf("total = %d, want 1", stats.TotalPlants)
	}
	if stats.PendingCare != 1 {
		t.Errorf("pending = %d, want 1 distinct plant", stats.PendingCare)
	}
	if len(stats.PlantsByLocation) != 1 || stats.PlantsByLocation[0].Location != "Kitchen" {
		t.Errorf("locations = %+v", stats.PlantsByLocation)
	}
	if len(stats.TopSpecies) != 1 || stats.TopSpecies[0].Species != "Fern" {
		t.Errorf("species = %+v", stats.TopSpecies)
	}
}

func TestRecentlyAddedAnnotations(t *testing.T) {
	ctx := context.Background()
	now := care.Date(2024, 6, 10)
	svc, store := newFixture(t, now)

	seedPlant(t, store, plant.Plant{Name: "Old", CreatedAt: care.Date(2024, 5, 1)})
	seedPlant(t, store, plant.Plant{Name: "Newer", Species: "Cactus", CreatedAt: care.Date(2024, 6, 9)})

	recent := svc.RecentlyAdded(ctx, ownerID, 1)
	if len(recent) != 1 {
		t.Fatalf("got %d recent plants, want 1", len(recent))
	}
	if recent[0].Name != "Newer" {
		t.Errorf("recent plant = %q, want Newer", recent[0].Name)
	}
	if recent[0].Icon != "🌵" {
		t.Errorf("icon = %q, want cactus", recent[0].Icon)
	}
	if recent[0].AddedDate != "09/06/2024" {
		t.Errorf("added date = %q", recent[0].AddedDate)
	}
}

func TestNotificationsSignals(t *testing.T) {
	ctx := context.Background()
	now := care.Date(2024, 6, 10)
	svc, store := newFixture(t, now)

	seedPlant(t, store, plant.Plant{Name: "Neglected", CreatedAt: care.Date(2024, 6, 9)})
	watered := seedPlant(t, store, plant.Plant{Name: "Fern", CreatedAt: care.Date(2024, 6, 8)})
	seedCare(t, store, watered.ID, care.Date(2024, 6, 1), care.Date(2024, 6, 4))

	feed := svc.Notifications(ctx, ownerID)
	if len(feed) != 3 {
		t.Fatalf("got %d notifications, want 3", len(feed))
	}
	if feed[0].Message != "1 plant(s) never received any care" {
		t.Errorf("without-care message = %q", feed[0].Message)
	}
	if feed[1].Message != "1 plant(s) with overdue care" {
		t.Errorf("overdue message = %q", feed[1].Message)
	}
	if feed[2].Message != "New plants: Neglected, Fern" {
		t.Errorf("recent message = %q", feed[2].Message)
	}
}
