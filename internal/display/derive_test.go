package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holger24/AFD-sub001/internal/sink"
)

func TestActiveBar(t *testing.T) {
	tests := []struct {
		name      string
		transfers uint32
		maxConn   uint32
		want      int
	}{
		{"zero transfers gives empty bar", 0, 5, 0},
		{"at max connections saturates", 5, 5, 42},
		{"above max connections saturates", 9, 5, 42},
		{"partial load scales linearly", 2, 5, 16},
		{"zero max connections still saturates", 1, 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveBar(tt.transfers, tt.maxConn, 42))
		})
	}
}

func TestActiveScaleNormalizesZeroMaxConnections(t *testing.T) {
	assert.Equal(t, 42.0, ActiveScale(0, 42))
	assert.Equal(t, 42.0, ActiveScale(1, 42))
	assert.Equal(t, 8.4, ActiveScale(5, 42))
}

func TestErrorBar(t *testing.T) {
	tests := []struct {
		name     string
		errHosts uint32
		noHosts  uint32
		want     int
	}{
		{"zero errors gives empty bar", 0, 4, 0},
		{"all hosts errored saturates", 4, 4, 42},
		{"partial errors scale linearly", 1, 4, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorBar(tt.errHosts, tt.noHosts, 42))
		})
	}
}

func TestRateBar(t *testing.T) {
	tests := []struct {
		name   string
		avg    float64
		maxAvg float64
		want   int
	}{
		{"rate at or below one is empty", 1.0, 100, 0},
		{"rate below one is empty", 0.5, 100, 0},
		{"rate at ceiling fills the bar", 50, 50, 42},
		{"ceiling floors at two", 1.5, 1.5, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RateBar(tt.avg, tt.maxAvg, 42))
		})
	}
}

func TestUpdateRateFoldsSampleIntoAverage(t *testing.T) {
	r := &Row{}

	changed, old := r.UpdateRate(100, 42)
	assert.True(t, changed)
	assert.Equal(t, 0, old)
	assert.Equal(t, 50.0, r.AverageTR)
	assert.Equal(t, 50.0, r.MaxAverageTR)
	assert.Equal(t, 42, r.BarLength[sink.BarRate])

	// A repeated sample converges the average but the bar stays pinned
	// at its ceiling, so no redraw is needed.
	changed, old = r.UpdateRate(100, 42)
	assert.False(t, changed)
	assert.Equal(t, 42, old)
	assert.Equal(t, 75.0, r.AverageTR)
	assert.Equal(t, 75.0, r.MaxAverageTR)
}

func TestUpdateRateCeilingIsSticky(t *testing.T) {
	r := &Row{AverageTR: 100, MaxAverageTR: 100}

	r.UpdateRate(0, 42)
	assert.Equal(t, 50.0, r.AverageTR)
	assert.Equal(t, 100.0, r.MaxAverageTR, "ceiling never shrinks")
}

func TestColorOffsets(t *testing.T) {
	step := float64(MaxIntensity) / 42.0

	green, blue := ColorOffsets(0, step)
	assert.Equal(t, MaxIntensity, green)
	assert.Equal(t, 0, blue)

	green, blue = ColorOffsets(21, step)
	assert.Equal(t, 127, blue)
	assert.Equal(t, 128, green)

	// Offsets stay complementary and in range across the whole extent.
	for bar := 0; bar <= 42; bar++ {
		green, blue = ColorOffsets(bar, step)
		assert.Equal(t, MaxIntensity, green+blue)
		assert.GreaterOrEqual(t, blue, 0)
		assert.LessOrEqual(t, blue, MaxIntensity)
	}
}
