package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/water-gap-etl/internal/domain"
)

func stationKey(o domain.Observation) string { return o.StationCode }

func TestAggregateGaps(t *testing.T) {
	windowStart := day(2018, time.January, 1)
	windowEnd := day(2018, time.April, 1)

	opts := AggregateOptions{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Threshold:   24 * time.Hour,
		Workers:     4,
	}

	t.Run("combined series per group", func(t *testing.T) {
		obs := []domain.Observation{
			{RawObservation: domain.RawObservation{StationCode: "A"}, Property: domain.PropertyPH, DateTime: day(2018, time.January, 1)},
			{RawObservation: domain.RawObservation{StationCode: "A"}, Property: domain.PropertyPH, DateTime: day(2018, time.March, 1)},
			{RawObservation: domain.RawObservation{StationCode: "B"}, Property: domain.PropertyPH, DateTime: day(2018, time.January, 1)},
			{RawObservation: domain.RawObservation{StationCode: "B"}, Property: domain.PropertyPH, DateTime: day(2018, time.January, 2)},
		}

		gaps, err := AggregateGaps(context.Background(), obs, stationKey, []string{"A", "B"}, opts)
		require.NoError(t, err)

		byGroup := make(map[string][]domain.Gap)
		for _, g := range gaps {
			byGroup[g.GroupKey] = append(byGroup[g.GroupKey], g)
		}

		// Station A: one real pH gap plus one full-window gap per other
		// property. Station B: full coverage for pH, full-window gaps for
		// the rest.
		propCount := len(domain.KnownProperties())
		assert.Len(t, byGroup["A"], 1+(propCount-1))
		assert.Len(t, byGroup["B"], propCount-1)

		var phGaps []domain.Gap
		for _, g := range byGroup["A"] {
			if g.Property == domain.PropertyPH {
				phGaps = append(phGaps, g)
			}
		}
		require.Len(t, phGaps, 1)
		assert.True(t, phGaps[0].Start.Equal(day(2018, time.January, 1)))
		assert.True(t, phGaps[0].Finish.Equal(day(2018, time.March, 1)))

		// Combined series: organization left for the metadata join.
		for _, g := range gaps {
			assert.Equal(t, domain.OrganizationUnknown, g.Organization)
		}
	})

	t.Run("split by organization", func(t *testing.T) {
		obs := []domain.Observation{
			{RawObservation: domain.RawObservation{StationCode: "A"}, Organization: domain.OrganizationCMC, Property: domain.PropertyPH, DateTime: day(2018, time.January, 1)},
			{RawObservation: domain.RawObservation{StationCode: "A"}, Organization: domain.OrganizationCMC, Property: domain.PropertyPH, DateTime: day(2018, time.January, 2)},
			{RawObservation: domain.RawObservation{StationCode: "A"}, Organization: domain.OrganizationCBP, Property: domain.PropertyPH, DateTime: day(2018, time.January, 1)},
			{RawObservation: domain.RawObservation{StationCode: "A"}, Organization: domain.OrganizationCBP, Property: domain.PropertyPH, DateTime: day(2018, time.March, 1)},
		}

		split := opts
		split.SplitByOrg = true

		gaps, err := AggregateGaps(context.Background(), obs, stationKey, []string{"A"}, split)
		require.NoError(t, err)

		var cmcPH, cbpPH []domain.Gap
		for _, g := range gaps {
			if g.Property != domain.PropertyPH {
				continue
			}
			switch g.Organization {
			case domain.OrganizationCMC:
				cmcPH = append(cmcPH, g)
			case domain.OrganizationCBP:
				cbpPH = append(cbpPH, g)
			}
		}

		// CMC covered pH daily; CBP has the January-March hole. The combined
		// series would have hidden it.
		assert.Empty(t, cmcPH)
		require.Len(t, cbpPH, 1)
		assert.True(t, cbpPH[0].Start.Equal(day(2018, time.January, 1)))
		assert.True(t, cbpPH[0].Finish.Equal(day(2018, time.March, 1)))
	})

	t.Run("group without observations gets full window gaps", func(t *testing.T) {
		gaps, err := AggregateGaps(context.Background(), nil, stationKey, []string{"EMPTY"}, opts)
		require.NoError(t, err)

		require.Len(t, gaps, len(domain.KnownProperties()))
		for _, g := range gaps {
			assert.Equal(t, "EMPTY", g.GroupKey)
			assert.True(t, g.Start.Equal(windowStart))
			assert.True(t, g.Finish.Equal(windowEnd))
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := AggregateGaps(ctx, nil, stationKey, []string{"A"}, opts)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("deterministic across worker counts", func(t *testing.T) {
		obs := []domain.Observation{
			{RawObservation: domain.RawObservation{StationCode: "A"}, Property: domain.PropertyPH, DateTime: day(2018, time.January, 1)},
			{RawObservation: domain.RawObservation{StationCode: "A"}, Property: domain.PropertyPH, DateTime: day(2018, time.March, 1)},
			{RawObservation: domain.RawObservation{StationCode: "B"}, Property: domain.PropertyTurbidity, DateTime: day(2018, time.February, 1)},
		}

		one := opts
		one.Workers = 1
		serial, err := AggregateGaps(context.Background(), obs, stationKey, []string{"A", "B"}, one)
		require.NoError(t, err)

		many := opts
		many.Workers = 16
		parallel, err := AggregateGaps(context.Background(), obs, stationKey, []string{"A", "B"}, many)
		require.NoError(t, err)

		assert.Equal(t, serial, parallel)
	})
}

func TestGroupFirst(t *testing.T) {
	obs := []domain.Observation{
		{
			RawObservation: domain.RawObservation{StationCode: "A", StationName: "First Name", County: "Kent"},
			Organization:   domain.OrganizationCMC,
		},
		{
			RawObservation: domain.RawObservation{StationCode: "A", StationName: "Second Name", County: "Sussex"},
			Organization:   domain.OrganizationCBP,
		},
		{
			RawObservation: domain.RawObservation{StationCode: "B", StationName: "Other"},
			Organization:   domain.OrganizationCBP,
		},
		{
			RawObservation: domain.RawObservation{StationCode: "", StationName: "No Key"},
		},
	}

	meta := GroupFirst(obs, stationKey)

	require.Len(t, meta, 2)
	assert.Equal(t, "First Name", meta["A"].StationName)
	assert.Equal(t, "Kent", meta["A"].County)
	assert.Equal(t, domain.OrganizationCMC, meta["A"].Organization)
	assert.Equal(t, "Other", meta["B"].StationName)
}

func TestDistinctKeys(t *testing.T) {
	obs := []domain.Observation{
		{RawObservation: domain.RawObservation{StationCode: "B"}},
		{RawObservation: domain.RawObservation{StationCode: "A"}},
		{RawObservation: domain.RawObservation{StationCode: "B"}},
		{RawObservation: domain.RawObservation{StationCode: ""}},
		{RawObservation: domain.RawObservation{StationCode: "C"}},
	}

	assert.Equal(t, []string{"B", "A", "C"}, DistinctKeys(obs, stationKey))
}

func TestJoinMetadata(t *testing.T) {
	gap := domain.Gap{
		Start:    day(2018, time.January, 1),
		Finish:   day(2018, time.February, 1),
		Property: domain.PropertyPH,
		GroupKey: "A",
	}
	meta := map[string]domain.StationMeta{
		"A": {
			Station:      "Station A",
			StationCode:  "A",
			StationName:  "Station A Name",
			Latitude:     38.9,
			Longitude:    -76.5,
			HUC12:        "020700100101",
			HUCName:      "Upper Creek",
			County:       "Anne Arundel",
			State:        "MD",
			Organization: domain.OrganizationCBP,
		},
	}

	t.Run("matched gap gets full metadata", func(t *testing.T) {
		rows := JoinMetadata([]domain.Gap{gap}, meta, KeyStationCode)

		require.Len(t, rows, 1)
		row := rows[0]
		assert.Equal(t, "A", row.StationCode)
		assert.Equal(t, "Station A Name", row.StationName)
		assert.Equal(t, "020700100101", row.HUC12)
		assert.Equal(t, "MD", row.State)
		assert.InDelta(t, 38.9, row.Latitude, 1e-9)
		assert.Equal(t, domain.OrganizationCBP, row.Organization)
	})

	t.Run("per organization gap keeps its organization", func(t *testing.T) {
		g := gap
		g.Organization = domain.OrganizationCMC

		rows := JoinMetadata([]domain.Gap{g}, meta, KeyStationCode)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.OrganizationCMC, rows[0].Organization)
	})

	t.Run("missing metadata keeps key and defaults the rest", func(t *testing.T) {
		g := gap
		g.GroupKey = "ORPHAN"

		rows := JoinMetadata([]domain.Gap{g}, meta, KeyStationCode)
		require.Len(t, rows, 1)
		assert.Equal(t, "ORPHAN", rows[0].StationCode)
		assert.Empty(t, rows[0].StationName)
		assert.Equal(t, domain.OrganizationUnknown, rows[0].Organization)
	})

	t.Run("huc key lands in the huc column", func(t *testing.T) {
		g := gap
		g.GroupKey = "020700100101"

		rows := JoinMetadata([]domain.Gap{g}, map[string]domain.StationMeta{}, KeyHUC12)
		require.Len(t, rows, 1)
		assert.Equal(t, "020700100101", rows[0].HUC12)
		assert.Empty(t, rows[0].StationCode)
	})
}
