package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const observationFixture = `Database,Station,StationCode,StationName,ParameterName_CBP,ParameterName_CMC,Latitude,Longitude,HUC12_,HUCNAME_,COUNTY_,STATE_,Date,Time
CMC,James River 01,CMC-0001,James River at Mile 1,,Water temperature (C),37.53333,-77.43333,020700100101,Upper Creek,Henrico,VA,2018-06-15,08:45:00
CBP,TF5.5,TF5.5,Tidal Fresh 5.5,WTEMP,,37.31250,-77.28000,020700100102,Lower Creek,Chesterfield,VA,6/15/2018,
`

func TestObservationReader(t *testing.T) {
	path := writeFixture(t, "water.csv", observationFixture)

	rows, err := NewObservationReader(path).ExtractObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "CMC", first.Database)
	assert.Equal(t, "CMC-0001", first.StationCode)
	assert.Equal(t, "Water temperature (C)", first.ParameterNameCMC)
	assert.Empty(t, first.ParameterNameCBP)
	assert.InDelta(t, 37.53333, first.Latitude, 1e-9)
	assert.Equal(t, "020700100101", first.HUC12)
	assert.Equal(t, "Henrico", first.County)
	assert.Equal(t, "2018-06-15", first.Date)
	assert.Equal(t, "08:45:00", first.Time)

	second := rows[1]
	assert.Equal(t, "CBP", second.Database)
	assert.Equal(t, "WTEMP", second.ParameterNameCBP)
	assert.Empty(t, second.Time)
}

func TestObservationReader_ShuffledColumns(t *testing.T) {
	fixture := `Date,Time,Database,StationCode,Station,StationName,ParameterName_CBP,ParameterName_CMC,Latitude,Longitude,HUC12_,HUCNAME_,COUNTY_,STATE_
2018-06-15,08:45:00,CMC,CMC-0001,James River 01,James River at Mile 1,,pH (units),37.5,-77.4,0207,Upper,Henrico,VA
`
	path := writeFixture(t, "water.csv", fixture)

	rows, err := NewObservationReader(path).ExtractObservations(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CMC-0001", rows[0].StationCode)
	assert.Equal(t, "2018-06-15", rows[0].Date)
}

func TestObservationReader_MissingColumn(t *testing.T) {
	path := writeFixture(t, "water.csv", "Database,Station\nCMC,x\n")

	_, err := NewObservationReader(path).ExtractObservations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestObservationReader_MissingFile(t *testing.T) {
	_, err := NewObservationReader(filepath.Join(t.TempDir(), "nope.csv")).ExtractObservations(context.Background())
	assert.Error(t, err)
}

func TestObservationReader_CancelledContext(t *testing.T) {
	path := writeFixture(t, "water.csv", observationFixture)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewObservationReader(path).ExtractObservations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

const regionFixture = `HUC12,Name,Percent Developed,Percent Agriculture,Percent Wetland
020700100101,Upper Creek,12.5,40.1,3.2
020700100102,Lower Creek,55.0,10.0,1.1
`

func TestRegionReader(t *testing.T) {
	path := writeFixture(t, "landcover.csv", regionFixture)

	rows, err := NewRegionReader(path).ExtractRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "020700100101", rows[0].HUC12)
	assert.Equal(t, "Upper Creek", rows[0].Name)
	assert.InDelta(t, 12.5, rows[0].PctDeveloped, 1e-9)
	assert.InDelta(t, 40.1, rows[0].PctAgriculture, 1e-9)
	assert.InDelta(t, 3.2, rows[0].PctWetland, 1e-9)
}

func TestFloatOrZero(t *testing.T) {
	assert.Equal(t, 0.0, floatOrZero(""))
	assert.Equal(t, 0.0, floatOrZero("not a number"))
	assert.InDelta(t, -77.4, floatOrZero("-77.4"), 1e-9)
}
