package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 21, 30, 0, 0, time.FixedZone("WAT", 3600))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		today time.Time
		want  int
	}{
		{"three days ending today", []string{"2025-01-01", "2025-01-02", "2025-01-03"}, day(3), 3},
		{"broken streak", []string{"2025-01-01", "2025-01-02", "2025-01-03"}, day(5), 0},
		{"ending yesterday", []string{"2025-01-01", "2025-01-02", "2025-01-03"}, day(4), 3},
		{"gap stops the chain", []string{"2025-01-01", "2025-01-03"}, day(3), 1},
		{"unordered with duplicates", []string{"2025-01-03", "2025-01-02", "2025-01-03", "2025-01-02"}, day(3), 2},
		{"empty", nil, day(3), 0},
		{"garbage ignored", []string{"yesterday", "2025-01-03"}, day(3), 1},
		{"month boundary", []string{"2024-12-31", "2025-01-01"}, day(1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.dates, tt.today))
		})
	}
}

func TestCalculateAcrossYearBoundary(t *testing.T) {
	dates := []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}

	assert.Equal(t, 4, Calculate(dates, time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)))
}

func TestAddIsIdempotent(t *testing.T) {
	dates, added := Add(nil, day(3))
	assert.True(t, added)
	assert.Equal(t, []string{"2025-01-03"}, dates)

	dates, added = Add(dates, day(3))
	assert.False(t, added)
	assert.Len(t, dates, 1)
}
