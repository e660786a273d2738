// Package display owns the console's projection of the Monitor Status Area:
// the per-site mirror rows, the layout vectors, the selection state, and the
// tick-driven diff engine that folds fresh MSA reads into the mirror and
// emits minimal redraw deltas.
package display

import (
	"math"

	"github.com/holger24/AFD-sub001/internal/sink"
)

// MaxIntensity is the ceiling of the bar color gradient.
const MaxIntensity = 255

// ActiveBar computes the active-transfers bar length.
// Zero transfers give an empty bar; at or above max_connections the bar
// saturates exactly at maxBar.
func ActiveBar(transfers, maxConn uint32, maxBar int) int {
	if transfers == 0 {
		return 0
	}
	if transfers >= maxConn {
		return maxBar
	}
	return clampBar(int(float64(transfers)*ActiveScale(maxConn, maxBar)), maxBar)
}

// ActiveScale is the bar units per active transfer. A collector reporting
// max_connections < 1 is normalized to 1 so the scale stays finite.
func ActiveScale(maxConn uint32, maxBar int) float64 {
	if maxConn < 1 {
		maxConn = 1
	}
	return float64(maxBar) / float64(maxConn)
}

// ErrorBar computes the host-error bar length, analogous to ActiveBar.
func ErrorBar(errHosts, noHosts uint32, maxBar int) int {
	if errHosts == 0 {
		return 0
	}
	if errHosts >= noHosts {
		return maxBar
	}
	return clampBar(int(float64(errHosts)*ErrorScale(noHosts, maxBar)), maxBar)
}

// ErrorScale is the bar units per errored host.
func ErrorScale(noHosts uint32, maxBar int) float64 {
	if noHosts < 1 {
		noHosts = 1
	}
	return float64(maxBar) / float64(noHosts)
}

// RateBar computes the logarithmic transfer-rate bar from the EMA rate and
// its adaptive ceiling. Rates at or below 1.0 give an empty bar.
func RateBar(avg, maxAvg float64, maxBar int) int {
	if avg <= 1.0 {
		return 0
	}
	ceiling := maxAvg
	if ceiling < 2.0 {
		ceiling = 2.0
	}
	bar := int(math.Log10(avg) * float64(maxBar) / math.Log10(ceiling))
	return clampBar(bar, maxBar)
}

// UpdateRate folds a fresh transfer-rate sample into the row's EMA and
// ceiling, then recomputes the rate bar. It reports whether the bar length
// changed and returns the previous length for delta-sign computation.
func (r *Row) UpdateRate(tr float64, maxBar int) (changed bool, old int) {
	r.AverageTR = (r.AverageTR + tr) / 2
	if r.AverageTR > r.MaxAverageTR {
		r.MaxAverageTR = r.AverageTR
	}
	old = r.BarLength[sink.BarRate]
	r.BarLength[sink.BarRate] = RateBar(r.AverageTR, r.MaxAverageTR, maxBar)
	return r.BarLength[sink.BarRate] != old, old
}

// ColorOffsets derives the bar gradient from the active-transfers bar:
// blue grows with the bar, green is its complement, both saturated at
// MaxIntensity.
func ColorOffsets(activeBar int, step float64) (green, blue int) {
	blue = int(float64(activeBar) * step)
	if blue > MaxIntensity {
		blue = MaxIntensity
	}
	green = MaxIntensity - blue
	if green < 0 {
		green = 0
	}
	return green, blue
}

func clampBar(bar, maxBar int) int {
	if bar < 0 {
		return 0
	}
	if bar > maxBar {
		return maxBar
	}
	return bar
}
