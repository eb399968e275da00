package domain

// Organization is a data-contributing entity. Code 0 doubles as the "all
// organizations" sentinel in query filters and as the join default when a
// group has no metadata row.
type Organization int

const (
	OrganizationUnknown Organization = iota
	OrganizationCMC                  // Chesapeake Monitoring Cooperative
	OrganizationCBP                  // Chesapeake Bay Program
)

var organizationLabels = map[Organization]string{
	OrganizationUnknown: "Unknown",
	OrganizationCMC:     "CMC",
	OrganizationCBP:     "CBP",
}

// Label returns the display label for the organization.
func (o Organization) Label() string {
	if label, ok := organizationLabels[o]; ok {
		return label
	}
	return organizationLabels[OrganizationUnknown]
}

// Valid reports whether o is one of the defined organization codes.
func (o Organization) Valid() bool {
	_, ok := organizationLabels[o]
	return ok
}

// OrganizationFromCode converts a persisted integer code back to an
// Organization. Unrecognized codes map to OrganizationUnknown.
func OrganizationFromCode(code int) Organization {
	o := Organization(code)
	if !o.Valid() {
		return OrganizationUnknown
	}
	return o
}

// KnownOrganizations returns the named organizations, excluding the
// unknown sentinel.
func KnownOrganizations() []Organization {
	return []Organization{OrganizationCMC, OrganizationCBP}
}

// DateRangeType selects how a query window matches gap intervals.
type DateRangeType int

const (
	DateRangeUnknown     DateRangeType = iota
	DateRangeBetween                   // gap fully contained in the window
	DateRangeOverlapping               // gap intersects the window
)

// DateRangeFromCode converts an integer code to a DateRangeType.
// Unrecognized codes map to DateRangeUnknown.
func DateRangeFromCode(code int) DateRangeType {
	switch t := DateRangeType(code); t {
	case DateRangeBetween, DateRangeOverlapping:
		return t
	default:
		return DateRangeUnknown
	}
}
