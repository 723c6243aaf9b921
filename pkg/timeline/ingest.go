package timeline

import (
	"io"

	"github.com/tracescope/tracescope/pkg/symtab"
	"github.com/tracescope/tracescope/pkg/tracefile"
)

type collectedEvents struct {
	events     []Event
	maxNs      uint64
	eventCount int
}

// collectEvents normalizes raw records into arena events. Only interval
// records are retained; instant markers and counters have no place on the
// timeline and are dropped by policy. Timestamps preceding the epoch are
// clamped to zero via saturating subtraction rather than rejected, so clock
// skew never fails a build.
func collectEvents(src tracefile.Reader, syms *symtab.Table) (*collectedEvents, error) {
	epoch := src.Metadata().EpochNs

	res := &collectedEvents{}
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec.Interval == nil {
			continue
		}

		res.eventCount++

		startNs := satSub(rec.Interval.StartNs, epoch)
		endNs := satSub(rec.Interval.EndNs, epoch)
		if endNs > res.maxNs {
			res.maxNs = endNs
		}

		var extra []symtab.Symbol
		if len(rec.ExtraLabels) > 0 {
			extra = make([]symtab.Symbol, 0, len(rec.ExtraLabels))
			for _, s := range rec.ExtraLabels {
				extra = append(extra, syms.Intern(s))
			}
		}

		res.events = append(res.events, Event{
			Label:      syms.Intern(rec.Label),
			Kind:       syms.Intern(rec.Kind),
			Extra:      extra,
			Payload:    rec.Payload,
			ThreadID:   rec.ThreadID,
			StartNs:    startNs,
			DurationNs: satSub(endNs, startNs),
			// Depth and color are resolved by later stages.
		})
	}

	return res, nil
}
