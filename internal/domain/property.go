package domain

// Property is the canonical water-quality or biological measurement category.
// The integer codes are persisted in the gap tables and must stay stable
// across versions; new categories get new codes, existing codes never move.
type Property int

const (
	PropertyUnknown Property = iota
	PropertyAirTemperature
	PropertyAlkalinity
	PropertyAmmoniaNitrogen
	PropertyChlorophyll
	PropertyConductivity
	PropertyDissolvedOxygen
	PropertyEColi
	PropertyEnterococcus
	PropertyNitrateNitrogen
	PropertyOrthophosphate
	PropertyPH
	PropertyPhosphorus
	PropertySalinity
	PropertyTotalDepth
	PropertyTotalDissolvedSolids
	PropertyTotalNitrogen
	PropertyTotalSuspendedSolids
	PropertyTurbidity
	PropertyWaterTemperature
)

// propertyLabels maps each property to its display label. Labels are
// presentation-only and kept separate from the persisted codes. E.Coli and
// pH are irregular and spelled out explicitly rather than derived from the
// constant name.
var propertyLabels = map[Property]string{
	PropertyUnknown:              "Unknown",
	PropertyAirTemperature:       "Air Temperature",
	PropertyAlkalinity:           "Alkalinity",
	PropertyAmmoniaNitrogen:      "Ammonia Nitrogen",
	PropertyChlorophyll:          "Chlorophyll",
	PropertyConductivity:         "Conductivity",
	PropertyDissolvedOxygen:      "Dissolved Oxygen",
	PropertyEColi:                "E.Coli",
	PropertyEnterococcus:         "Enterococcus",
	PropertyNitrateNitrogen:      "Nitrate Nitrogen",
	PropertyOrthophosphate:       "Orthophosphate",
	PropertyPH:                   "pH",
	PropertyPhosphorus:           "Phosphorus",
	PropertySalinity:             "Salinity",
	PropertyTotalDepth:           "Total Depth",
	PropertyTotalDissolvedSolids: "Total Dissolved Solids",
	PropertyTotalNitrogen:        "Total Nitrogen",
	PropertyTotalSuspendedSolids: "Total Suspended Solids",
	PropertyTurbidity:            "Turbidity",
	PropertyWaterTemperature:     "Water Temperature",
}

// Label returns the human-readable display label for the property.
func (p Property) Label() string {
	if label, ok := propertyLabels[p]; ok {
		return label
	}
	return propertyLabels[PropertyUnknown]
}

// Valid reports whether p is one of the defined property codes.
func (p Property) Valid() bool {
	_, ok := propertyLabels[p]
	return ok
}

// PropertyFromCode converts a persisted integer code back to a Property.
// Unrecognized codes map to PropertyUnknown.
func PropertyFromCode(code int) Property {
	p := Property(code)
	if !p.Valid() {
		return PropertyUnknown
	}
	return p
}

// KnownProperties returns every property except PropertyUnknown, in code
// order. Gap analysis iterates this set; the unknown sentinel is excluded.
func KnownProperties() []Property {
	props := make([]Property, 0, len(propertyLabels)-1)
	for p := PropertyAirTemperature; p <= PropertyWaterTemperature; p++ {
		props = append(props, p)
	}
	return props
}
