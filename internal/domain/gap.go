package domain

import "time"

// Gap is a detected coverage hole: a time interval during which no
// observation of Property was recorded within the group identified by
// GroupKey. Organization is set only when gaps were computed per
// organization; otherwise it is filled in from group metadata at join time.
type Gap struct {
	Start        time.Time
	Finish       time.Time
	Property     Property
	Organization Organization
	GroupKey     string // station code or HUC12 region code
}

// Elapsed returns the duration of the gap.
func (g Gap) Elapsed() time.Duration {
	return g.Finish.Sub(g.Start)
}

// StationMeta holds the first-observed descriptive attributes for one
// grouping key, used to annotate gap records at join time.
type StationMeta struct {
	Station      string
	StationCode  string
	StationName  string
	Latitude     float64
	Longitude    float64
	HUC12        string
	HUCName      string
	County       string
	State        string
	Organization Organization
}

// GapRow is one row of a persisted gap table: a Gap joined with the
// descriptive metadata of its group. Rows are never mutated after the table
// is built; the query layer always returns fresh slices.
type GapRow struct {
	Start        time.Time
	Finish       time.Time
	Property     Property
	Organization Organization
	Station      string
	StationCode  string
	StationName  string
	HUC12        string
	HUCName      string
	Latitude     float64
	Longitude    float64
	County       string
	State        string
}

// Elapsed returns the gap duration for the row.
func (r GapRow) Elapsed() time.Duration {
	return r.Finish.Sub(r.Start)
}

// ElapsedDays returns the gap duration in fractional days, the unit the
// dashboard's threshold filter works in.
func (r GapRow) ElapsedDays() float64 {
	return r.Elapsed().Hours() / 24
}

// Region is one row of the watershed reference table: a HUC12 code plus the
// land-cover percentages carried along for the presentation layer. The core
// uses only the code, as the set of regions to scan for gaps.
type Region struct {
	HUC12          string
	Name           string
	PctDeveloped   float64
	PctAgriculture float64
	PctWetland     float64
}
