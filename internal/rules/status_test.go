package rules

import (
	"testing"
	"time"

	"crm-online/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveStatus(t *testing.T) {
	start := date("2024-06-01")
	end := date("2024-06-30")

	tests := []struct {
		name string
		now  time.Time
		want models.ProjectStatus
	}{
		{"before start", date("2024-05-01"), models.StatusNotStarted},
		{"between dates", date("2024-06-15"), models.StatusInProgress},
		{"after end", date("2024-07-01"), models.StatusCompleted},
		{"at start", start, models.StatusInProgress},
		{"at end", end, models.StatusInProgress},
		{"instant before start", start.Add(-time.Nanosecond), models.StatusNotStarted},
		{"instant after end", end.Add(time.Nanosecond), models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(start, end, tt.now))
		})
	}
}

// TestDeriveStatusPartition verifies the three statuses partition the
// timeline: every instant maps to exactly one status, with no gap at
// either boundary.
func TestDeriveStatusPartition(t *testing.T) {
	start := date("2024-01-10")
	end := date("2024-01-20")

	instants := []time.Time{
		start.Add(-24 * time.Hour),
		start.Add(-time.Nanosecond),
		start,
		start.Add(time.Nanosecond),
		start.Add(5 * 24 * time.Hour),
		end.Add(-time.Nanosecond),
		end,
		end.Add(time.Nanosecond),
		end.Add(24 * time.Hour),
	}

	for _, now := range instants {
		got := DeriveStatus(start, end, now)
		switch got {
		case models.StatusNotStarted:
			assert.True(t, now.Before(start), "NOT_STARTED only before start, now=%v", now)
		case models.StatusInProgress:
			assert.False(t, now.Before(start), "IN_PROGRESS not before start, now=%v", now)
			assert.False(t, now.After(end), "IN_PROGRESS not after end, now=%v", now)
		case models.StatusCompleted:
			assert.True(t, now.After(end), "COMPLETED only after end, now=%v", now)
		default:
			t.Fatalf("unknown status %q for now=%v", got, now)
		}
	}
}
