package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"identical", base, base.Add(time.Hour), base, base.Add(time.Hour), true},
		{"contained", base, base.Add(2 * time.Hour), base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"partial front", base, base.Add(time.Hour), base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"partial back", base.Add(30 * time.Minute), base.Add(90 * time.Minute), base, base.Add(time.Hour), true},
		{"back to back", base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"disjoint", base, base.Add(time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestEnd(t *testing.T) {
	assert.Equal(t, base.Add(time.Hour), End(base, 60))
	assert.Equal(t, base.Add(45*time.Minute), End(base, 45))
}

func TestValidWindow(t *testing.T) {
	assert.True(t, ValidWindow(base, base.Add(time.Minute)))
	assert.False(t, ValidWindow(base, base))
	assert.False(t, ValidWindow(base.Add(time.Hour), base))
}
