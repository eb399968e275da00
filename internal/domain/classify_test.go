package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProperty(t *testing.T) {
	tests := []struct {
		name     string
		cbpName  string
		cmcName  string
		expected Property
	}{
		{"air temperature", "ATEMP Air temperature", "", PropertyAirTemperature},
		{"alkalinity", "", "Alkalinity (mg/L CaCO3)", PropertyAlkalinity},
		{"ammonia nitrogen", "Ammonia nitrogen (mg/L)", "", PropertyAmmoniaNitrogen},
		{"chlorophyll", "Chlorophyll a", "", PropertyChlorophyll},
		{"conductivity", "", "Specific conductivity", PropertyConductivity},
		{"dissolved oxygen", "Dissolved oxygen (mg/L)", "", PropertyDissolvedOxygen},
		{"oxygen probe units", "", "DO probe units (%)", PropertyDissolvedOxygen},
		{"e coli via bacteria", "", "Bacteria (E. Coli)", PropertyEColi},
		{"enterococcus", "Enterococcus (MPN/100mL)", "", PropertyEnterococcus},
		{"nitrate nitrite", "Nitrate nitrite nitrogen", "", PropertyNitrateNitrogen},
		{"orthophosphate", "", "Orthophosphate (mg/L)", PropertyOrthophosphate},
		{"pH with units", "PH (standard units)", "", PropertyPH},
		{"phosphorus", "Total phosphorus (mg/L)", "", PropertyPhosphorus},
		{"salinity", "", "Salinity (ppt)", PropertySalinity},
		{"total depth", "Total depth (m)", "", PropertyTotalDepth},
		{"total dissolved solids", "Total dissolved solids", "", PropertyTotalDissolvedSolids},
		{"total nitrogen", "Total nitrogen (mg/L)", "", PropertyTotalNitrogen},
		{"total suspended solids", "", "Total suspended solids", PropertyTotalSuspendedSolids},
		{"turbidity", "Turbidity (NTU)", "", PropertyTurbidity},
		{"clarity maps to turbidity", "", "Water clarity / secchi depth", PropertyTurbidity},
		{"water temperature", "", "Water temperature (C)", PropertyWaterTemperature},
		{"case insensitive", "WATER TEMP", "", PropertyWaterTemperature},
		{"matches either input", "", "water temperature", PropertyWaterTemperature},
		{"unrecognized", "Stream flow (cfs)", "Wind speed", PropertyUnknown},
		{"empty inputs", "", "", PropertyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyProperty(tt.cbpName, tt.cmcName))
		})
	}
}

func TestClassifyProperty_PriorityOrder(t *testing.T) {
	// Several patterns overlap; the first matching rule must win.
	t.Run("ammonia beats total nitrogen", func(t *testing.T) {
		assert.Equal(t, PropertyAmmoniaNitrogen, ClassifyProperty("Total ammonia nitrogen", ""))
	})

	t.Run("nitrate beats total nitrogen", func(t *testing.T) {
		assert.Equal(t, PropertyNitrateNitrogen, ClassifyProperty("Nitrate nitrite as nitrogen", ""))
	})

	t.Run("air temp beats water temp ordering is moot but fixed", func(t *testing.T) {
		assert.Equal(t, PropertyAirTemperature, ClassifyProperty("Air temp", "Water temp"))
	})

	t.Run("orthophosphate beats phosphorus", func(t *testing.T) {
		// "Orthophosphate phosphorus" contains both keywords.
		assert.Equal(t, PropertyOrthophosphate, ClassifyProperty("Orthophosphate phosphorus", ""))
	})

	t.Run("dissolved oxygen beats pH lookalike", func(t *testing.T) {
		assert.Equal(t, PropertyDissolvedOxygen, ClassifyProperty("Oxygen pH probe", ""))
	})
}

func TestClassifyProperty_NeverPanics(t *testing.T) {
	// Garbage and control characters must classify, not crash.
	inputs := []string{"", " ", "\x00\x01", "((((", "pH", "nitrogen\nnitrogen", "????"}
	for _, a := range inputs {
		for _, b := range inputs {
			assert.NotPanics(t, func() { ClassifyProperty(a, b) })
		}
	}
}

func TestClassifyProperty_BarePHNeedsTrailingDelimiter(t *testing.T) {
	// The pH rule requires a non-letter after "ph" so words like
	// "phosphorus" or a bare trailing "ph" don't misclassify.
	assert.Equal(t, PropertyPH, ClassifyProperty("pH (units)", ""))
	assert.Equal(t, PropertyPhosphorus, ClassifyProperty("phosphorus", ""))
	assert.Equal(t, PropertyUnknown, ClassifyProperty("ph", ""))
}

func TestClassifyOrganization(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected Organization
	}{
		{"CMC tag", "CMC", OrganizationCMC},
		{"CBP tag", "CBP", OrganizationCBP},
		{"anything else is CBP", "TIDAL", OrganizationCBP},
		{"empty is CBP", "", OrganizationCBP},
		{"lowercase cmc is not CMC", "cmc", OrganizationCBP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyOrganization(tt.tag))
		})
	}
}
