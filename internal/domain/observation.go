package domain

import (
	"fmt"
	"strings"
	"time"
)

// RawObservation is one row of the combined water-quality export, as read
// from the source CSV. All values are the vendor's strings except the
// coordinates, which the export guarantees to be numeric.
type RawObservation struct {
	Database         string // source database tag ("CMC" or "CBP")
	Station          string
	StationCode      string
	StationName      string
	ParameterNameCBP string
	ParameterNameCMC string
	Latitude         float64
	Longitude        float64
	HUC12            string // watershed unit code, opaque grouping key
	HUCName          string
	County           string
	State            string
	Date             string
	Time             string
}

// Observation is a classified sample: the raw row plus the canonical
// property, organization, and merged timestamp. Immutable once built.
type Observation struct {
	RawObservation

	Property     Property
	Organization Organization
	DateTime     time.Time
}

// dateLayouts are tried in order when parsing the sample date. The combined
// export mixes ISO dates with US-style slash dates.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
}

// ClassifyObservation derives the canonical columns for one raw row:
// property from the two vendor parameter names, organization from the
// database tag, and a single DateTime merged from the date and time strings.
// A missing or malformed time falls back to midnight; a malformed date is an
// error, since an observation without a timestamp cannot take part in gap
// analysis.
func ClassifyObservation(raw RawObservation) (Observation, error) {
	dt, err := MergeDateTime(raw.Date, raw.Time)
	if err != nil {
		return Observation{}, fmt.Errorf("classify observation for station %q: %w", raw.StationCode, err)
	}

	return Observation{
		RawObservation: raw,
		Property:       ClassifyProperty(raw.ParameterNameCBP, raw.ParameterNameCMC),
		Organization:   ClassifyOrganization(raw.Database),
		DateTime:       dt,
	}, nil
}

// MergeDateTime combines the separate date and time columns into one UTC
// timestamp. The time portion is best-effort: blank or unparseable times
// resolve to midnight of the sample date.
func MergeDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, fmt.Errorf("empty sample date")
	}

	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		day, err = time.ParseInLocation(layout, date, time.UTC)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse sample date %q: %w", date, err)
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		return day, nil
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	return day, nil
}
