package care

import (
	"testing"
	"time"
)

func TestNextDue(t *testing.T) {
	cases := []struct {
		typ  Type
		base time.Time
		want time.Time
	}{
		{Water, Date(2024, 6, 10), Date(2024, 6, 13)},
		{Fertilize, Date(2024, 6, 1), Date(2024, 7, 1)},
		{Prune, Date(2024, 1, 1), Date(2024, 3, 31)},
		{Repot, Date(2024, 3, 1), Date(2025, 3, 1)},
		{CleanLeaves, Date(2024, 6, 10), Date(2024, 6, 17)},
	}
	for _, tc := range cases {
		if got := NextDue(tc.typ, tc.base); !got.Equal(tc.want) {
			t.Errorf("NextDue(%s, %s) = %s, want %s",
				tc.typ, tc.base.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestNextDueIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 6, 10, 23, 45, 0, 0, time.UTC)
	if got := NextDue(Water, late); !got.Equal(Date(2024, 6, 13)) {
		t.Fatalf("NextDue with time-of-day = %s, want 2024-06-13", got)
	}
}

func TestDaysBetweenSigned(t *testing.T) {
	a := Date(2024, 6, 10)
	b := Date(2024, 6, 15)
	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("DaysBetween forward = %d, want 5", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("DaysBetween backward = %d, want -5", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2024, 6, 10, 18, 30, 12, 0, time.UTC)
	want := Date(2024, 6, 10)
	if got := Midnight(ts); !got.Equal(want) {
		t.Fatalf("Midnight(%s) = %s, want %s", ts, got, want)
	}
}
