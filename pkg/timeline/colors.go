package timeline

import (
	"image/color"
	"sort"

	"github.com/tracescope/tracescope/pkg/symtab"
)

const (
	kindBaseHue    = 120.0
	kindSaturation = 0.35
	kindLightness  = 0.8
)

// fallbackColor is used for events whose kind is absent from the map.
var fallbackColor = HSL(0, 0, 0.85)

// threadRootColor marks synthetic per-thread root bands.
var threadRootColor = color.RGBA{R: 217, G: 222, B: 230, A: 255}

// buildKindColors assigns each distinct event kind an evenly spaced hue
// around the color wheel. Kinds are sorted by their resolved string, not by
// symbol id, so identical kind sets produce identical colors no matter in
// which order the strings were interned.
func buildKindColors(events []Event, syms *symtab.Table) map[symtab.Symbol]color.RGBA {
	seen := make(map[symtab.Symbol]struct{})
	for i := range events {
		seen[events[i].Kind] = struct{}{}
	}

	kinds := make([]symtab.Symbol, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return syms.Resolve(kinds[i]) < syms.Resolve(kinds[j])
	})

	kindCount := len(kinds)
	if kindCount == 0 {
		kindCount = 1
	}
	step := 360.0 / float64(kindCount)

	res := make(map[symtab.Symbol]color.RGBA, len(kinds))
	for i, kind := range kinds {
		hue := kindBaseHue + float64(i)*step
		for hue >= 360.0 {
			hue -= 360.0
		}
		res[kind] = HSL(hue, kindSaturation, kindLightness)
	}
	return res
}

func applyKindColors(events []Event, colors map[symtab.Symbol]color.RGBA) {
	for i := range events {
		c, ok := colors[events[i].Kind]
		if !ok {
			c = fallbackColor
		}
		events[i].Color = c
	}
}
