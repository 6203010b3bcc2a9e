package utils

import (
	"testing"
	"time"
)

func TestDaysUntilEvent(t *testing.T) {
	base := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event time.Time
		want  int
	}{
		{"same day later hour", time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC), 0},
		{"tomorrow early morning", time.Date(2025, 6, 11, 1, 0, 0, 0, time.UTC), 1},
		{"twenty days out", time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC), 20},
		{"twenty five days out", time.Date(2025, 7, 5, 9, 0, 0, 0, time.UTC), 25},
		{"yesterday", time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC), -1},
		{"a week ago", time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC), -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUntilEvent(base, tt.event)
			if got != tt.want {
				t.Errorf("DaysUntilEvent(%v, %v) = %d, want %d", base, tt.event, got, tt.want)
			}
		})
	}
}

func TestDaysUntilEventAcrossDSTShift(t *testing.T) {
	// A spring-forward shift makes the span 21 days minus one hour. The count
	// must still read 21, not truncate down to 20 and flip the policy branch.
	standard := time.FixedZone("EST", -5*3600)
	daylight := time.FixedZone("EDT", -4*3600)

	nowTime := time.Date(2026, 3, 7, 10, 0, 0, 0, standard)
	eventDate := time.Date(2026, 3, 28, 18, 0, 0, 0, daylight)

	if got := DaysUntilEvent(nowTime, eventDate); got != 21 {
		t.Errorf("DaysUntilEvent across DST shift = %d, want 21", got)
	}

	// Fall-back shift: 21 days plus one hour must not round up to 22.
	nowTime = time.Date(2026, 10, 20, 10, 0, 0, 0, daylight)
	eventDate = time.Date(2026, 11, 10, 18, 0, 0, 0, standard)

	if got := DaysUntilEvent(nowTime, eventDate); got != 21 {
		t.Errorf("DaysUntilEvent across fall-back shift = %d, want 21", got)
	}
}
