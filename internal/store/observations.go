// Package store reads the raw monitoring exports and persists the built gap
// tables as flat CSV files, the only serialization format the service uses.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

// ObservationReader extracts raw observations from the combined
// water-quality CSV export.
type ObservationReader struct {
	path string
}

// NewObservationReader creates a reader for the export at path.
func NewObservationReader(path string) *ObservationReader {
	return &ObservationReader{path: path}
}

// Column names of the combined export. The trailing underscores come from
// the upstream GIS join that produced the file and are preserved verbatim.
var observationColumns = []string{
	"Database",
	"Station",
	"StationCode",
	"StationName",
	"ParameterName_CBP",
	"ParameterName_CMC",
	"Latitude",
	"Longitude",
	"HUC12_",
	"HUCNAME_",
	"COUNTY_",
	"STATE_",
	"Date",
	"Time",
}

// ExtractObservations reads every row of the export. Columns are addressed
// by header name, so column order in the file does not matter; extra
// columns are ignored.
func (r *ObservationReader) ExtractObservations(ctx context.Context) ([]domain.RawObservation, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read observations header: %w", err)
	}
	cols, err := indexColumns(header, observationColumns)
	if err != nil {
		return nil, fmt.Errorf("observations schema: %w", err)
	}

	var rows []domain.RawObservation
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read observations row: %w", err)
		}
		rows = append(rows, domain.RawObservation{
			Database:         field(record, cols["Database"]),
			Station:          field(record, cols["Station"]),
			StationCode:      field(record, cols["StationCode"]),
			StationName:      field(record, cols["StationName"]),
			ParameterNameCBP: field(record, cols["ParameterName_CBP"]),
			ParameterNameCMC: field(record, cols["ParameterName_CMC"]),
			Latitude:         floatOrZero(field(record, cols["Latitude"])),
			Longitude:        floatOrZero(field(record, cols["Longitude"])),
			HUC12:            field(record, cols["HUC12_"]),
			HUCName:          field(record, cols["HUCNAME_"]),
			County:           field(record, cols["COUNTY_"]),
			State:            field(record, cols["STATE_"]),
			Date:             field(record, cols["Date"]),
			Time:             field(record, cols["Time"]),
		})
	}
	return rows, nil
}

// RegionReader extracts the HUC12 watershed reference table.
type RegionReader struct {
	path string
}

// NewRegionReader creates a reader for the land-cover reference at path.
func NewRegionReader(path string) *RegionReader {
	return &RegionReader{path: path}
}

var regionColumns = []string{
	"HUC12",
	"Name",
	"Percent Developed",
	"Percent Agriculture",
	"Percent Wetland",
}

// ExtractRegions reads the reference table. The land-cover percentages ride
// along for the presentation layer; the pipeline itself only needs the
// HUC12 codes.
func (r *RegionReader) ExtractRegions(ctx context.Context) ([]domain.Region, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open regions: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read regions header: %w", err)
	}
	cols, err := indexColumns(header, regionColumns)
	if err != nil {
		return nil, fmt.Errorf("regions schema: %w", err)
	}

	var rows []domain.Region
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read regions row: %w", err)
		}
		rows = append(rows, domain.Region{
			HUC12:          field(record, cols["HUC12"]),
			Name:           field(record, cols["Name"]),
			PctDeveloped:   floatOrZero(field(record, cols["Percent Developed"])),
			PctAgriculture: floatOrZero(field(record, cols["Percent Agriculture"])),
			PctWetland:     floatOrZero(field(record, cols["Percent Wetland"])),
		})
	}
	return rows, nil
}

// indexColumns maps each required column name to its position in the header.
func indexColumns(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	cols := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[name] = i
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// floatOrZero parses a string as float64, returning 0 on failure.
func floatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
