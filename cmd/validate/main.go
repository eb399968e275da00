// Command validate runs integrity checks over built gap tables: interval
// invariants, enumeration codes, metadata join completeness, and cross-table
// consistency. It also prints a distribution summary of gap durations per
// table, which is the quickest way to spot a build fed bad input.
//
// Usage:
//
//	go run ./cmd/validate -dir data
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
	"github.com/couchcryptid/water-gap-etl/internal/store"
	"github.com/montanaflynn/stats"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "data", "directory containing the built gap tables")
	threshold := flag.Duration("threshold", 24*time.Hour, "detection threshold the tables were built with")
	flag.Parse()

	if code := run(*dir, *threshold); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, threshold time.Duration) int {
	fmt.Println("=== Gap Table Integrity Validation ===")
	fmt.Println()

	tables := store.NewTableStore(dir)

	hucGaps, err := tables.LoadHUCGaps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load HUC12 gap table: %v\n", err)
		return 1
	}
	stationGaps, err := tables.LoadStationGaps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load station gap table: %v\n", err)
		return 1
	}
	stations, err := tables.LoadStations()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load station metadata table: %v\n", err)
		return 1
	}

	fmt.Printf("loaded: %d HUC12 gaps, %d station gaps, %d stations\n\n",
		len(hucGaps), len(stationGaps), len(stations))

	phases := []*phase{
		checkGapInvariants("huc12 gap invariants", hucGaps, threshold),
		checkGapInvariants("station gap invariants", stationGaps, threshold),
		checkStationJoin(stationGaps, stations),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s (%d problems)\n", p.name, len(p.errors))
		for i, e := range p.errors {
			if i == 10 {
				fmt.Printf("     ... and %d more\n", len(p.errors)-10)
				break
			}
			fmt.Printf("     %s\n", e)
		}
	}

	fmt.Println()
	printDistribution("HUC12 gap durations (days)", hucGaps)
	printDistribution("station gap durations (days)", stationGaps)

	if failed > 0 {
		fmt.Printf("\n%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Println("\nall phases passed")
	return 0
}

// checkGapInvariants verifies every row: Finish after Start, duration at or
// above the detection threshold (the zero-observation full-window gap is
// the one legitimate shorter case, and only when the window itself is
// shorter than the threshold), and valid enumeration codes.
func checkGapInvariants(name string, rows []domain.GapRow, threshold time.Duration) *phase {
	p := &phase{name: name}

	// The full analysis window is the widest interval present; full-window
	// gaps (zero observations of a property) legitimately equal it.
	var windowStart, windowEnd time.Time
	for _, r := range rows {
		if windowStart.IsZero() || r.Start.Before(windowStart) {
			windowStart = r.Start
		}
		if r.Finish.After(windowEnd) {
			windowEnd = r.Finish
		}
	}

	for i, r := range rows {
		fullWindow := r.Start.Equal(windowStart) && r.Finish.Equal(windowEnd)
		if !r.Finish.After(r.Start) && !fullWindow {
			p.errorf("row %d: Finish %s not after Start %s", i, r.Finish, r.Start)
		}
		if r.Finish.After(r.Start) && r.Elapsed() <= threshold && !fullWindow {
			p.errorf("row %d: duration %s at or under detection threshold %s", i, r.Elapsed(), threshold)
		}
		if !r.Property.Valid() || r.Property == domain.PropertyUnknown {
			p.errorf("row %d: invalid property code %d", i, int(r.Property))
		}
		if !r.Organization.Valid() {
			p.errorf("row %d: invalid organization code %d", i, int(r.Organization))
		}
	}
	return p
}

// checkStationJoin verifies every station gap references a known station.
func checkStationJoin(gaps []domain.GapRow, stations []domain.StationMeta) *phase {
	p := &phase{name: "station metadata join"}

	known := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		known[s.StationCode] = struct{}{}
	}

	missing := make(map[string]struct{})
	for _, g := range gaps {
		if g.StationCode == "" {
			continue
		}
		if _, ok := known[g.StationCode]; !ok {
			missing[g.StationCode] = struct{}{}
		}
	}
	for code := range missing {
		p.errorf("station %q has gaps but no metadata row", code)
	}
	return p
}

// printDistribution summarizes gap durations for one table.
func printDistribution(name string, rows []domain.GapRow) {
	if len(rows) == 0 {
		fmt.Printf("%s: no rows\n", name)
		return
	}

	days := make([]float64, 0, len(rows))
	for _, r := range rows {
		days = append(days, r.ElapsedDays())
	}

	mean, _ := stats.Mean(days)
	median, _ := stats.Median(days)
	p95, _ := stats.Percentile(days, 95)
	max, _ := stats.Max(days)

	fmt.Printf("%s: n=%d mean=%.1f median=%.1f p95=%.1f max=%.1f\n",
		name, len(days), mean, median, p95, max)
}
