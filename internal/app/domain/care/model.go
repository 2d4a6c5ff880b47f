package care

import "time"

// Record is a single care event performed on a plant. NextMaintenance is nil
// when no recurrence is scheduled; when present it is always the output of
// NextDue for the record's type and base date.
type Record struct {
	ID              int64      `json:"id"`
	PlantID         int64      `json:"plant_id"`
	Type            Type       `json:"care_type"`
	Date            time.Time  `json:"care_date"`
	Observations    string     `json:"observations"`
	NextMaintenance *time.Time `json:"next_maintenance_date,omitempty"`
}

// PendingView is a pending care joined with its plant, ready for display.
type PendingView struct {
	CareID          int64          `json:"care_id"`
	Type            Type           `json:"care_type"`
	Icon            string         `json:"icon"`
	NextMaintenance time.Time      `json:"next_maintenance_date"`
	Observations    string         `json:"observations,omitempty"`
	PlantID         int64          `json:"plant_id"`
	PlantName       string         `json:"plant_name"`
	Species         string         `json:"species,omitempty"`
	Location        string         `json:"location,omitempty"`
	Classification  Classification `json:"classification"`
}

// ActivityView is a performed care annotated for the recent-activity feed.
type ActivityView struct {
	CareID      int64     `json:"care_id"`
	Type        Type      `json:"care_type"`
	Icon        string    `json:"icon"`
	PlantID     int64     `json:"plant_id"`
	PlantName   string    `json:"plant_name"`
	Species     string    `json:"species,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
	Description string    `json:"description"`
	TimeAgo     string    `json:"time_ago"`
}

// UpcomingView is a future due care inside a look-ahead window.
type UpcomingView struct {
	CareID          int64     `json:"care_id"`
	Type            Type      `json:"care_type"`
	Icon            string    `json:"icon"`
	NextMaintenance time.Time `json:"next_maintenance_date"`
	PlantID         int64     `json:"plant_id"`
	PlantName       string    `json:"plant_name"`
	Location        string    `json:"location,omitempty"`
	DaysUntil       int       `json:"days_until"`
	Timeline        string    `json:"timeline"`
}

// Stats summarizes a user's care history over the trailing 30 days.
type Stats struct {
	TotalCares       int          `json:"total_cares"`
	PlantsCared      int          `json:"plants_cared"`
	CaresLastWeek    int          `json:"cares_last_week"`
	TypeDistribution map[Type]int `json:"type_distribution"`
}
