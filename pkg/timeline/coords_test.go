package timeline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracescope/tracescope/pkg/timeline"
)

func TestNiceInterval(t *testing.T) {
	for _, test := range []struct {
		target float64
		want   float64
	}{
		{target: 1, want: 1},
		{target: 1.5, want: 2},
		{target: 2, want: 2},
		{target: 3, want: 5},
		{target: 5, want: 5},
		{target: 7, want: 10},
		{target: 10, want: 10},
		{target: 130, want: 200},
		{target: 4_900, want: 5_000},
		{target: 61_000, want: 100_000},
		{target: 950_000_000, want: 1_000_000_000},
		{target: 0, want: 0},
		{target: -5, want: 0},
		{target: math.Inf(1), want: 0},
		{target: math.NaN(), want: 0},
	} {
		require.Equal(t, test.want, timeline.NiceInterval(test.target), "target %v", test.target)
	}
}

func TestCoordinateMapping(t *testing.T) {
	require.Equal(t, 0.0, timeline.NsToX(100, 100, 2.0))
	require.Equal(t, 200.0, timeline.NsToX(200, 100, 2.0))
	// Timestamps before the baseline clamp to x=0.
	require.Equal(t, 0.0, timeline.NsToX(50, 100, 2.0))

	require.Equal(t, 50.0, timeline.DurationToWidth(100, 0.5))
	require.Equal(t, 0.0, timeline.DurationToWidth(0, 10))

	require.Equal(t, uint64(900), timeline.TotalNs(100, 1000))
	require.Equal(t, uint64(0), timeline.TotalNs(1000, 100))
}

func TestClampScrollOffset(t *testing.T) {
	// 1000ns total, 100px viewport at 1px/ns leaves 900ns of scroll room.
	require.Equal(t, 0.0, timeline.ClampScrollOffset(-10, 1000, 100, 1))
	require.Equal(t, 500.0, timeline.ClampScrollOffset(500, 1000, 100, 1))
	require.Equal(t, 900.0, timeline.ClampScrollOffset(5000, 1000, 100, 1))
	// Viewport wider than the timeline pins the offset at zero.
	require.Equal(t, 0.0, timeline.ClampScrollOffset(300, 1000, 2000, 1))
	// Degenerate zoom must not panic.
	require.Equal(t, 0.0, timeline.ClampScrollOffset(100, 1000, 100, 0))
}

func TestFormatDuration(t *testing.T) {
	for _, test := range []struct {
		ns   uint64
		want string
	}{
		{ns: 0, want: "0 ns"},
		{ns: 999, want: "999 ns"},
		{ns: 1_500, want: "1.50 µs"},
		{ns: 2_500_000, want: "2.50 ms"},
		{ns: 3_250_000_000, want: "3.25 s"},
	} {
		require.Equal(t, test.want, timeline.FormatDuration(test.ns))
	}
}

func TestFormatTimeLabel(t *testing.T) {
	// The unit follows the tick interval, not the value.
	require.Equal(t, "0.50 s", timeline.FormatTimeLabel(500_000_000, 1e9))
	require.Equal(t, "500.00 ms", timeline.FormatTimeLabel(500_000_000, 1e6))
	require.Equal(t, "2.00 µs", timeline.FormatTimeLabel(2_000, 1e3))
	require.Equal(t, "42 ns", timeline.FormatTimeLabel(42, 10))
}
