package plant

import (
	"strings"
	"time"
)

// Plant is a plant owned by a user.
type Plant struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Species         string    `json:"species"`
	AcquisitionDate time.Time `json:"acquisition_date"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"created_at"`
}

// PendingCareView is a plant with its earliest pending care date.
type PendingCareView struct {
	Plant
	NextCareDate  time.Time `json:"next_care_date"`
	DaysRemaining int       `json:"days_remaining"`
	Priority      string    `json:"priority"`
}

// RecentView is a recently added plant annotated for display.
type RecentView struct {
	Plant
	Icon      string `json:"icon"`
	AddedDate string `json:"added_date"`
}

// LocationCount is a per-location plant tally.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// SpeciesCount is a per-species plant tally.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

// GardenStats summarizes a user's collection.
type GardenStats struct {
	TotalPlants      int             `json:"total_plants"`
	PendingCare      int             `json:"pending_care"`
	PlantsByLocation []LocationCount `json:"plants_by_location"`
	TopSpecies       []SpeciesCount  `json:"top_species"`
}

// Icon picks a presentational icon from the species name.
func Icon(species string) string {
	s := strings.ToLower(species)
	switch {
	case strings.Contains(s, "succulent"), strings.Contains(s, "cact"):
		return "🌵"
	case strings.Contains(s, "orchid"):
		return "🌸"
	case strings.Contains(s, "fern"):
		return "🌿"
	case strings.Contains(s, "rose"):
		return "🌹"
	case strings.Contains(s, "edible"), strings.Contains(s, "vegetable"), strings.Contains(s, "herb"):
		return "🍅"
	default:
		return "🌱"
	}
}
