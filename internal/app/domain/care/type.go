package care

import "strings"

// Type enumerates the supported kinds of plant maintenance.
type Type string

const (
	Water       Type = "Water"
	Fertilize   Type = "Fertilize"
	Prune       Type = "Prune"
	Repot       Type = "Repot"
	CleanLeaves Type = "CleanLeaves"
)

// DefaultType is the fallback for unrecognized input. Canonicalization is
// deliberately permissive: the scheduling pipeline must never fail on
// free-text care types, so anything unknown becomes a watering task.
const DefaultType = Water

var aliases = map[string]Type{
	"water":        Water,
	"watering":     Water,
	"fertilize":    Fertilize,
	"fertilizing":  Fertilize,
	"feeding":      Fertilize,
	"prune":        Prune,
	"pruning":      Prune,
	"trim":         Prune,
	"repot":        Repot,
	"repotting":    Repot,
	"transplant":   Repot,
	"cleanleaves":  CleanLeaves,
	"clean leaves": CleanLeaves,
	"cleaning":     CleanLeaves,
	"treatment":    CleanLeaves,
}

// Canonicalize maps raw care-type input to one of the five canonical types.
// Matching is case-insensitive; every input, including the empty string,
// resolves to exactly one type.
func Canonicalize(raw string) Type {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := aliases[key]; ok {
		return t
	}
	return DefaultType
}

// IntervalDays returns the recurrence interval for a care type in whole days.
func IntervalDays(t Type) int {
	switch t {
	case Water:
		return 3
	case Fertilize:
		return 30
	case Prune:
		return 90
	case Repot:
		return 365
	case CleanLeaves:
		return 7
	default:
		return 7
	}
}

// Icon returns the presentational icon for a care type. The value is passed
// through to the view layer unchanged.
func Icon(t Type) string {
	switch t {
	case Water:
		return "💧"
	case Fertilize:
		return "🌱"
	case Prune:
		return "✂️"
	case Repot:
		return "🪴"
	case CleanLeaves:
		return "🍃"
	default:
		return "🌿"
	}
}

// Describe renders a past-tense activity description for a care event.
func Describe(t Type, plantName string) string {
	switch t {
	case Water:
		return "Watered " + plantName
	case Fertilize:
		return "Fertilized " + plantName
	case Prune:
		return "Pruned " + plantName
	case Repot:
		return "Repotted " + plantName
	case CleanLeaves:
		return "Cleaned leaves of " + plantName
	default:
		return "Cared for " + plantName
	}
}
