package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

// Output table file names, fixed so the build and serve commands agree.
const (
	HUCGapsFile     = "huc12_gaps.csv"
	StationGapsFile = "station_gaps.csv"
	StationsFile    = "stations.csv"
)

// TableStore persists and reloads the three output tables under one
// directory. Writes go through a temp file and an atomic rename, so a
// failed build never clobbers the previous good table.
type TableStore struct {
	dir string
}

// NewTableStore creates a store rooted at dir.
func NewTableStore(dir string) *TableStore {
	return &TableStore{dir: dir}
}

var gapColumns = []string{
	"Start",
	"Finish",
	"ElapsedDays",
	"PropertyValue",
	"PropertyName",
	"Organization",
	"OrganizationName",
	"Station",
	"StationCode",
	"StationName",
	"HUC12",
	"HUCName",
	"Latitude",
	"Longitude",
	"County",
	"State",
}

var stationColumns = []string{
	"Station",
	"StationCode",
	"StationName",
	"HUC12",
	"HUCName",
	"Latitude",
	"Longitude",
	"County",
	"State",
	"Organization",
}

// WriteHUCGaps persists the region-level gap table.
func (s *TableStore) WriteHUCGaps(rows []domain.GapRow) error {
	return s.writeGapTable(HUCGapsFile, rows)
}

// WriteStationGaps persists the station-level gap table.
func (s *TableStore) WriteStationGaps(rows []domain.GapRow) error {
	return s.writeGapTable(StationGapsFile, rows)
}

// WriteStations persists the station metadata table.
func (s *TableStore) WriteStations(meta []domain.StationMeta) error {
	records := make([][]string, 0, len(meta))
	for _, m := range meta {
		records = append(records, []string{
			m.Station,
			m.StationCode,
			m.StationName,
			m.HUC12,
			m.HUCName,
			formatFloat(m.Latitude),
			formatFloat(m.Longitude),
			m.County,
			m.State,
			strconv.Itoa(int(m.Organization)),
		})
	}
	return s.writeAtomic(StationsFile, stationColumns, records)
}

// LoadHUCGaps reloads the region-level gap table.
func (s *TableStore) LoadHUCGaps() ([]domain.GapRow, error) {
	return s.loadGapTable(HUCGapsFile)
}

// LoadStationGaps reloads the station-level gap table.
func (s *TableStore) LoadStationGaps() ([]domain.GapRow, error) {
	return s.loadGapTable(StationGapsFile)
}

// LoadStations reloads the station metadata table.
func (s *TableStore) LoadStations() ([]domain.StationMeta, error) {
	records, cols, err := s.readTable(StationsFile, stationColumns)
	if err != nil {
		return nil, err
	}

	meta := make([]domain.StationMeta, 0, len(records))
	for _, rec := range records {
		org, err := strconv.Atoi(field(rec, cols["Organization"]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad organization code %q", StationsFile, field(rec, cols["Organization"]))
		}
		meta = append(meta, domain.StationMeta{
			Station:      field(rec, cols["Station"]),
			StationCode:  field(rec, cols["StationCode"]),
			StationName:  field(rec, cols["StationName"]),
			HUC12:        field(rec, cols["HUC12"]),
			HUCName:      field(rec, cols["HUCName"]),
			Latitude:     floatOrZero(field(rec, cols["Latitude"])),
			Longitude:    floatOrZero(field(rec, cols["Longitude"])),
			County:       field(rec, cols["County"]),
			State:        field(rec, cols["State"]),
			Organization: domain.OrganizationFromCode(org),
		})
	}
	return meta, nil
}

func (s *TableStore) writeGapTable(name string, rows []domain.GapRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Start.UTC().Format(time.RFC3339),
			r.Finish.UTC().Format(time.RFC3339),
			formatFloat(r.ElapsedDays()),
			strconv.Itoa(int(r.Property)),
			r.Property.Label(),
			strconv.Itoa(int(r.Organization)),
			r.Organization.Label(),
			r.Station,
			r.StationCode,
			r.StationName,
			r.HUC12,
			r.HUCName,
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.County,
			r.State,
		})
	}
	return s.writeAtomic(name, gapColumns, records)
}

func (s *TableStore) loadGapTable(name string) ([]domain.GapRow, error) {
	records, cols, err := s.readTable(name, gapColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.GapRow, 0, len(records))
	for _, rec := range records {
		start, err := time.Parse(time.RFC3339, field(rec, cols["Start"]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad Start %q: %w", name, field(rec, cols["Start"]), err)
		}
		finish, err := time.Parse(time.RFC3339, field(rec, cols["Finish"]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad Finish %q: %w", name, field(rec, cols["Finish"]), err)
		}
		prop, err := strconv.Atoi(field(rec, cols["PropertyValue"]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad property code %q", name, field(rec, cols["PropertyValue"]))
		}
		org, err := strconv.Atoi(field(rec, cols["Organization"]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad organization code %q", name, field(rec, cols["Organization"]))
		}

		// Elapsed is recomputed from the timestamps; the ElapsedDays column
		// exists for human readers of the CSV.
		rows = append(rows, domain.GapRow{
			Start:        start,
			Finish:       finish,
			Property:     domain.PropertyFromCode(prop),
			Organization: domain.OrganizationFromCode(org),
			Station:      field(rec, cols["Station"]),
			StationCode:  field(rec, cols["StationCode"]),
			StationName:  field(rec, cols["StationName"]),
			HUC12:        field(rec, cols["HUC12"]),
			HUCName:      field(rec, cols["HUCName"]),
			Latitude:     floatOrZero(field(rec, cols["Latitude"])),
			Longitude:    floatOrZero(field(rec, cols["Longitude"])),
			County:       field(rec, cols["County"]),
			State:        field(rec, cols["State"]),
		})
	}
	return rows, nil
}

func (s *TableStore) readTable(name string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s header: %w", name, err)
	}
	cols, err := indexColumns(header, required)
	if err != nil {
		return nil, nil, fmt.Errorf("%s schema: %w", name, err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s row: %w", name, err)
		}
		records = append(records, rec)
	}
	return records, cols, nil
}

// writeAtomic writes the table to a temp file in the same directory and
// renames it over the target, so readers never observe a half-written table.
func (s *TableStore) writeAtomic(name string, header []string, records [][]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
