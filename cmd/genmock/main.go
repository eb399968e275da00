// Command genmock generates a synthetic water-quality observation CSV in
// the combined-export schema, for local pipeline runs and demos without the
// real dataset. Output is deterministic for a given seed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/Water_FINAL.csv -rows 50000 -stations 120 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// parameterPair is a plausible (CBP, CMC) vendor naming for one measurement.
// A handful of entries match no classifier rule on purpose, so generated
// datasets exercise the unknown-property path.
type parameterPair struct {
	cbp string
	cmc string
}

var parameterPairs = []parameterPair{
	{"WTEMP Water temperature", "Water temperature (C)"},
	{"ATEMP Air temperature", "Air temperature (C)"},
	{"DO Dissolved oxygen", "Dissolved oxygen (mg/L)"},
	{"DO_SAT Dissolved oxygen saturation", "DO probe units (%)"},
	{"PH Corrected pH", "pH (standard units)"},
	{"SALINITY Salinity", "Salinity (ppt)"},
	{"SECCHI Secchi depth", "Water clarity / secchi depth (m)"},
	{"SPCOND Specific conductivity", "Specific conductivity (uS/cm)"},
	{"ALK Alkalinity", "Alkalinity (mg/L CaCO3)"},
	{"CHLA Chlorophyll a", "Chlorophyll a (ug/L)"},
	{"NH4F Ammonia nitrogen", "Ammonia nitrogen (mg/L)"},
	{"NO23F Nitrate nitrite nitrogen", "Nitrate nitrite nitrogen (mg/L)"},
	{"TN Total nitrogen", "Total nitrogen (mg/L)"},
	{"PO4F Orthophosphate", "Orthophosphate (mg/L)"},
	{"TP Total phosphorus", "Total phosphorus (mg/L)"},
	{"TSS Total suspended solids", "Total suspended solids (mg/L)"},
	{"TDS Total dissolved solids", "Total dissolved solids (mg/L)"},
	{"ECOLI E. coli bacteria count", "Bacteria (E. Coli) (MPN/100mL)"},
	{"ENT Enterococcus", "Enterococcus (MPN/100mL)"},
	{"DEPTH Total depth", "Total depth (m)"},
	// The last three match no classifier rule.
	{"FLOW_CFS Stream flow", "Stream flow (cfs)"},
	{"WIND_SPD Wind speed", "Wind speed (mph)"},
	{"AIR_PRES Barometric pressure", "Air pressure (inHg)"},
}

var header = []string{
	"Database", "Station", "StationCode", "StationName",
	"ParameterName_CBP", "ParameterName_CMC",
	"Latitude", "Longitude",
	"HUC12_", "HUCNAME_", "COUNTY_", "STATE_",
	"Date", "Time",
}

type station struct {
	code, name, huc12, hucName, county, state string
	lat, lon                                  float64
	database                                  string
}

func main() {
	out := flag.String("out", "data/Water_FINAL.csv", "output CSV path")
	rows := flag.Int("rows", 10000, "number of observation rows")
	stations := flag.Int("stations", 50, "number of distinct stations")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := run(*out, *rows, *stations, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(out string, rows, stationCount int, seed int64) error {
	faker := gofakeit.New(seed)

	windowStart := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC)

	stations := make([]station, 0, stationCount)
	for i := 0; i < stationCount; i++ {
		db := "CBP"
		if faker.Bool() {
			db = "CMC"
		}
		hucIndex := faker.Number(1, 40)
		stations = append(stations, station{
			code:     fmt.Sprintf("%s-%04d", db, i+1),
			name:     fmt.Sprintf("%s %s", faker.City(), faker.RandomString([]string{"Creek", "Run", "Branch", "River", "Landing"})),
			huc12:    fmt.Sprintf("0207%08d", hucIndex),
			hucName:  fmt.Sprintf("%s Watershed", faker.City()),
			county:   faker.City(),
			state:    faker.RandomString([]string{"MD", "VA", "PA", "DE", "NY", "WV"}),
			lat:      faker.Float64Range(36.8, 40.5),
			lon:      faker.Float64Range(-78.5, -75.0),
			database: db,
		})
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < rows; i++ {
		st := stations[faker.Number(0, len(stations)-1)]
		pair := parameterPairs[faker.Number(0, len(parameterPairs)-1)]
		sampledAt := faker.DateRange(windowStart, windowEnd)

		// CBP rows populate the CBP name column, CMC rows the CMC column.
		cbpName, cmcName := pair.cbp, ""
		if st.database == "CMC" {
			cbpName, cmcName = "", pair.cmc
		}

		record := []string{
			st.database,
			st.code,
			st.code,
			st.name,
			cbpName,
			cmcName,
			strconv.FormatFloat(st.lat, 'f', 5, 64),
			strconv.FormatFloat(st.lon, 'f', 5, 64),
			st.huc12,
			st.hucName,
			st.county,
			st.state,
			sampledAt.Format("2006-01-02"),
			sampledAt.Format("15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("wrote %d observations across %d stations: %s", rows, stationCount, out)
	return nil
}
