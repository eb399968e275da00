// Package domain models Chesapeake Bay water-quality monitoring data.
//
// # Data Source
//
// Observations come from a combined export of two monitoring programs: the
// Chesapeake Monitoring Cooperative (CMC) and the Chesapeake Bay Program
// (CBP). Each row is one environmental sample taken at a fixed station,
// tagged with the station's HUC12 watershed code and the vendor's own
// parameter naming. The two programs name the same measurements differently
// ("WTEMP" vs "Water temperature (C)"), so every row carries up to two
// parameter name columns, one per naming scheme.
//
// # Canonical Taxonomy
//
// ClassifyProperty folds the vendor names into the closed Property
// enumeration via an ordered list of case-insensitive keyword patterns.
// Order matters: patterns overlap (any name containing "nitrogen" matches
// the total-nitrogen rule, so ammonia- and nitrate-nitrogen are tried
// first). Names matching no rule classify as PropertyUnknown; those rows
// stay in the raw table but are excluded from gap analysis.
//
// # Timestamps
//
// Sample date and time arrive as separate strings and are merged into one
// UTC DateTime by MergeDateTime. Times are best-effort (blank or malformed
// times resolve to midnight); dates are mandatory, since gap detection is
// meaningless for an undated sample.
//
// # Persisted Codes
//
// Property, Organization, and DateRangeType are persisted as their integer
// codes in the flat gap tables and shared with the presentation layer.
// Codes are frozen; display labels live in explicit lookup tables and may
// change freely.
package domain
