package query

import (
	"errors"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

// Context is the process-wide read-only data context: the three persisted
// tables loaded once at startup and handed to every consumer explicitly.
// Nothing mutates it after construction.
type Context struct {
	hucGaps     []domain.GapRow
	stationGaps []domain.GapRow
	stations    []domain.StationMeta
}

// NewContext wraps loaded tables in a read-only context.
func NewContext(hucGaps, stationGaps []domain.GapRow, stations []domain.StationMeta) *Context {
	return &Context{
		hucGaps:     hucGaps,
		stationGaps: stationGaps,
		stations:    stations,
	}
}

// HUCGaps filters the region-level gap table.
func (c *Context) HUCGaps(p Params) []domain.GapRow {
	return Filter(c.hucGaps, p)
}

// StationGaps filters the station-level gap table.
func (c *Context) StationGaps(p Params) []domain.GapRow {
	return Filter(c.stationGaps, p)
}

// Stations returns a copy of the station metadata table.
func (c *Context) Stations() []domain.StationMeta {
	out := make([]domain.StationMeta, len(c.stations))
	copy(out, c.stations)
	return out
}

// Sizes reports the row counts of the loaded tables, for logging and gauges.
func (c *Context) Sizes() (hucGaps, stationGaps, stations int) {
	return len(c.hucGaps), len(c.stationGaps), len(c.stations)
}

// CheckReadiness reports whether the context holds any data at all. A serve
// process with three empty tables almost certainly points at the wrong
// directory or a never-built dataset.
func (c *Context) CheckReadiness() error {
	if len(c.hucGaps) == 0 && len(c.stationGaps) == 0 && len(c.stations) == 0 {
		return errors.New("no gap tables loaded")
	}
	return nil
}
