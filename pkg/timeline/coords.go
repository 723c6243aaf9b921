package timeline

import (
	"fmt"
	"math"
)

// NsToX converts a timestamp to a horizontal pixel offset at the given zoom
// (pixels per nanosecond).
func NsToX(ns, minNs uint64, zoom float64) float64 {
	return float64(satSub(ns, minNs)) * zoom
}

// DurationToWidth converts a duration to a pixel width at the given zoom.
func DurationToWidth(durationNs uint64, zoom float64) float64 {
	return float64(durationNs) * zoom
}

// TotalNs returns the timeline's covered duration.
func TotalNs(minNs, maxNs uint64) uint64 {
	return satSub(maxNs, minNs)
}

// ClampScrollOffset keeps a horizontal scroll offset (ns, relative to the
// timeline start) within the scrollable range for the viewport.
func ClampScrollOffset(scrollOffsetNs float64, totalNs uint64, viewportWidth, zoom float64) float64 {
	if zoom < 1e-9 {
		zoom = 1e-9
	}
	visibleNs := viewportWidth / zoom
	if visibleNs < 0 {
		visibleNs = 0
	}
	maxStartNs := float64(totalNs) - visibleNs
	if maxStartNs < 0 {
		maxStartNs = 0
	}
	return math.Min(math.Max(scrollOffsetNs, 0), maxStartNs)
}

// NiceInterval rounds a target tick spacing up to the nearest
// {1, 2, 5, 10} x 10^k nanoseconds so tick labels land on readable values.
func NiceInterval(targetNs float64) float64 {
	if math.IsInf(targetNs, 0) || math.IsNaN(targetNs) || targetNs <= 0 {
		return 0
	}

	base := math.Pow(10, math.Floor(math.Log10(targetNs)))
	ratio := targetNs / base
	switch {
	case ratio <= 1.0:
		return base
	case ratio <= 2.0:
		return base * 2
	case ratio <= 5.0:
		return base * 5
	default:
		return base * 10
	}
}

// FormatDuration renders a duration with the unit matching its magnitude.
func FormatDuration(ns uint64) string {
	switch {
	case ns >= 1_000_000_000:
		return fmt.Sprintf("%.2f s", float64(ns)/1e9)
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", float64(ns)/1e6)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", float64(ns)/1e3)
	default:
		return fmt.Sprintf("%d ns", ns)
	}
}

// FormatTimeLabel renders a tick label, choosing the unit from the tick
// interval's magnitude so all labels along an axis agree.
func FormatTimeLabel(relativeNs, interval float64) string {
	switch {
	case interval >= 1e9:
		return fmt.Sprintf("%.2f s", relativeNs/1e9)
	case interval >= 1e6:
		return fmt.Sprintf("%.2f ms", relativeNs/1e6)
	case interval >= 1e3:
		return fmt.Sprintf("%.2f µs", relativeNs/1e3)
	default:
		return fmt.Sprintf("%.0f ns", relativeNs)
	}
}
