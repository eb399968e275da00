// Package query filters the built gap tables for the presentation layer.
// Every filter is a pure relational selection: inputs are never mutated and
// results are freshly allocated, so concurrent dashboard queries against the
// same table never interfere.
package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

// ErrInvalidFilter marks a rejected query: malformed dates, unknown
// enumeration codes, or a negative threshold. Callers must distinguish this
// from an empty result, which is a valid outcome, not an error.
var ErrInvalidFilter = errors.New("invalid filter")

// Params is a validated set of filter criteria. Build one with ParseParams.
type Params struct {
	RangeType        domain.DateRangeType
	Start            time.Time
	End              time.Time
	GapThresholdDays int
	UnderThreshold   bool // keep gaps at or under the threshold instead of at or over
	Properties       []domain.Property
	Organization     domain.Organization // OrganizationUnknown selects all
}

// ParseParams validates raw filter inputs as they arrive from the dashboard:
// dates as ISO strings, enumerations as their integer codes. Any malformed
// value yields ErrInvalidFilter; nothing is silently coerced.
func ParseParams(rangeType int, start, end string, thresholdDays int, under bool, properties []int, organization int) (Params, error) {
	rt := domain.DateRangeFromCode(rangeType)
	if rt == domain.DateRangeUnknown {
		return Params{}, fmt.Errorf("%w: unknown date range type %d", ErrInvalidFilter, rangeType)
	}

	startAt, err := parseDate(start)
	if err != nil {
		return Params{}, fmt.Errorf("%w: start date %q", ErrInvalidFilter, start)
	}
	endAt, err := parseDate(end)
	if err != nil {
		return Params{}, fmt.Errorf("%w: end date %q", ErrInvalidFilter, end)
	}
	if endAt.Before(startAt) {
		return Params{}, fmt.Errorf("%w: end date precedes start date", ErrInvalidFilter)
	}

	if thresholdDays < 0 {
		return Params{}, fmt.Errorf("%w: negative gap threshold %d", ErrInvalidFilter, thresholdDays)
	}

	props := make([]domain.Property, 0, len(properties))
	for _, code := range properties {
		p := domain.Property(code)
		if !p.Valid() {
			return Params{}, fmt.Errorf("%w: unknown property code %d", ErrInvalidFilter, code)
		}
		props = append(props, p)
	}

	org := domain.Organization(organization)
	if !org.Valid() {
		return Params{}, fmt.Errorf("%w: unknown organization code %d", ErrInvalidFilter, organization)
	}

	return Params{
		RangeType:        rt,
		Start:            startAt,
		End:              endAt,
		GapThresholdDays: thresholdDays,
		UnderThreshold:   under,
		Properties:       props,
		Organization:     org,
	}, nil
}

// Filter returns the rows of table matching p. The filters compose as a
// conjunction; order is irrelevant to the result. The input table is read
// but never modified, and a zero-row match returns an empty, non-nil slice.
func Filter(table []domain.GapRow, p Params) []domain.GapRow {
	propSet := make(map[domain.Property]struct{}, len(p.Properties))
	for _, prop := range p.Properties {
		propSet[prop] = struct{}{}
	}
	threshold := time.Duration(p.GapThresholdDays) * 24 * time.Hour

	out := make([]domain.GapRow, 0)
	for _, row := range table {
		if !matchesDateRange(row, p.RangeType, p.Start, p.End) {
			continue
		}
		if p.UnderThreshold {
			if row.Elapsed() > threshold {
				continue
			}
		} else if row.Elapsed() < threshold {
			continue
		}
		if _, ok := propSet[row.Property]; !ok {
			continue
		}
		if p.Organization != domain.OrganizationUnknown && row.Organization != p.Organization {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesDateRange(row domain.GapRow, rt domain.DateRangeType, start, end time.Time) bool {
	switch rt {
	case domain.DateRangeBetween:
		// Gap fully contained in the window.
		return !row.Start.Before(start) && !row.Finish.After(end)
	case domain.DateRangeOverlapping:
		// Gap intersects the window.
		return !row.Start.After(end) && !row.Finish.Before(start)
	default:
		return false
	}
}

var queryDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
