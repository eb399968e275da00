package domain

import "regexp"

// propertyRule pairs a property with the keyword pattern that identifies it
// in vendor parameter names.
type propertyRule struct {
	property Property
	pattern  *regexp.Regexp
}

// propertyRules is evaluated in order and the first match wins. The order is
// load-bearing: several patterns overlap (a name containing "Ammonia
// Nitrogen" also matches the total-nitrogen pattern), so the more specific
// rules must come first. Do not reorder or alphabetize.
var propertyRules = []propertyRule{
	{PropertyAirTemperature, regexp.MustCompile(`(?im)air\s?temp`)},
	{PropertyAlkalinity, regexp.MustCompile(`(?im)alkalinity`)},
	{PropertyAmmoniaNitrogen, regexp.MustCompile(`(?im)ammoni.*nitrogen`)},
	{PropertyChlorophyll, regexp.MustCompile(`(?im)chlorophyll`)},
	{PropertyConductivity, regexp.MustCompile(`(?im)conductivity`)},
	{PropertyDissolvedOxygen, regexp.MustCompile(`(?im)oxygen|probe\s?units`)},
	{PropertyEColi, regexp.MustCompile(`(?im)bacteria`)},
	{PropertyEnterococcus, regexp.MustCompile(`(?im)enterococcus`)},
	{PropertyNitrateNitrogen, regexp.MustCompile(`(?im)nitr.*nitr`)},
	{PropertyOrthophosphate, regexp.MustCompile(`(?im)orthophosphate`)},
	{PropertyPH, regexp.MustCompile(`(?im)ph[^a-z]`)},
	{PropertyPhosphorus, regexp.MustCompile(`(?im)phosphorus`)},
	{PropertySalinity, regexp.MustCompile(`(?im)salinity`)},
	{PropertyTotalDepth, regexp.MustCompile(`(?im)total\s?depth`)},
	{PropertyTotalDissolvedSolids, regexp.MustCompile(`(?im)total\s?dissolved\s?solids`)},
	{PropertyTotalNitrogen, regexp.MustCompile(`(?im)total.*nitrogen`)},
	{PropertyTotalSuspendedSolids, regexp.MustCompile(`(?im)total\s?suspended\s?solids`)},
	{PropertyTurbidity, regexp.MustCompile(`(?im)turbidity|clarity|secchi`)},
	{PropertyWaterTemperature, regexp.MustCompile(`(?im)water\s?temp`)},
}

// ClassifyProperty maps the two vendor parameter name fields of an
// observation to a canonical Property. A rule matches when its pattern is
// found in either name. The function is total: empty or unrecognizable
// names yield PropertyUnknown, never an error.
func ClassifyProperty(cbpName, cmcName string) Property {
	for _, rule := range propertyRules {
		if rule.pattern.MatchString(cbpName) || rule.pattern.MatchString(cmcName) {
			return rule.property
		}
	}
	return PropertyUnknown
}

// ClassifyOrganization maps a source-database tag to the contributing
// organization. The CMC database tag is an exact match; every other row in
// the combined export comes from the Chesapeake Bay Program.
func ClassifyOrganization(sourceDB string) Organization {
	if sourceDB == "CMC" {
		return OrganizationCMC
	}
	return OrganizationCBP
}
