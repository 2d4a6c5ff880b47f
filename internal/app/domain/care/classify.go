package care

import (
	"fmt"
	"time"
)

// Priority buckets a due date by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status labels shown alongside each bucket.
const (
	StatusOverdue  = "Overdue"
	StatusDueToday = "Due today"
	StatusUpcoming = "Upcoming"
)

// Classification is the derived urgency of a single due date.
type Classification struct {
	Priority      Priority `json:"priority"`
	Status        string   `json:"status"`
	DaysText      string   `json:"days_text"`
	DaysRemaining int      `json:"days_remaining"`
}

// Classify derives the urgency bucket for a due date relative to today.
// Total over every signed day difference: overdue is high, due today is
// medium, anything in the future is low.
func Classify(dueDate, today time.Time) Classification {
	days := DaysBetween(today, dueDate)

	switch {
	case days < 0:
		return Classification{
			Priority:      PriorityHigh,
			Status:        StatusOverdue,
			DaysText:      fmt.Sprintf("%d day(s) overdue", -days),
			DaysRemaining: days,
		}
	case days == 0:
		return Classification{
			Priority:      PriorityMedium,
			Status:        StatusDueToday,
			DaysText:      StatusDueToday,
			DaysRemaining: 0,
		}
	default:
		return Classification{
			Priority:      PriorityLow,
			Status:        StatusUpcoming,
			DaysText:      fmt.Sprintf("In %d day(s)", days),
			DaysRemaining: days,
		}
	}
}

// TimeAgo renders an elapsed-time label from a whole number of hours.
func TimeAgo(hours int) string {
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hour(s) ago", hours)
	default:
		return fmt.Sprintf("%d day(s) ago", hours/24)
	}
}

// Timeline renders the short label used by upcoming-care views.
func Timeline(daysUntil int) string {
	switch daysUntil {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", daysUntil)
	}
}
