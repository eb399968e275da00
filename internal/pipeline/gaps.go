package pipeline

import (
	"slices"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

// DefaultDetectionThreshold is the fine-grained threshold used when
// pre-computing the persisted gap tables. The dashboard applies its own
// coarser, user-chosen threshold at query time; detection stays fine so the
// stored tables can serve any display threshold.
const DefaultDetectionThreshold = 24 * time.Hour

// FindGaps computes the coverage gaps for one property within one group's
// observations. The input slice must already be filtered to a single
// grouping key (and, when gaps are computed per organization, to a single
// organization); it does not need to be sorted.
//
// When the group has no observations of prop at all, the total absence of
// coverage is itself a gap: exactly one gap spanning the whole window is
// returned. Otherwise a virtual sentinel at windowStart is prepended and a
// gap is emitted for every pair of consecutive timestamps whose delta is
// strictly greater than threshold, so duplicate timestamps never produce a
// gap. Results ascend by start time and do not overlap.
//
// Known limitation, kept deliberately: no gap is emitted between the last
// observation and windowEnd. Downstream aggregates were built against this
// behavior; do not fix it silently.
func FindGaps(obs []domain.Observation, windowStart, windowEnd time.Time, prop domain.Property, threshold time.Duration) []domain.Gap {
	times := make([]time.Time, 0, len(obs))
	for _, o := range obs {
		if o.Property == prop {
			times = append(times, o.DateTime)
		}
	}

	if len(times) == 0 {
		return []domain.Gap{{Start: windowStart, Finish: windowEnd, Property: prop}}
	}

	slices.SortStableFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	var gaps []domain.Gap
	prev := windowStart
	for _, t := range times {
		if t.Sub(prev) > threshold {
			gaps = append(gaps, domain.Gap{Start: prev, Finish: t, Property: prop})
		}
		prev = t
	}
	return gaps
}
