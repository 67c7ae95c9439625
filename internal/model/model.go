package model

import "time"

// NoRepresentationLabel is the label rendered for Gregorian dates that have
// no Seoian representation (before the epoch, or in a gap between ranges).
const NoRepresentationLabel = "—"

// AnchorType identifies how a recurring event definition is pinned to a
// calendar. SY anchors attach to the Seoian calendar; GY_* anchors attach to
// Gregorian recurrence rules.
type AnchorType string

const (
	AnchorSY              AnchorType = "SY"
	AnchorGYFixed         AnchorType = "GY_FIXED"
	AnchorGYNthDOW        AnchorType = "GY_NTH_DOW"
	AnchorGYLastDOW       AnchorType = "GY_LAST_DOW"
	AnchorGYLastDOWBefore AnchorType = "GY_LAST_DOW_BEFORE_DATE"
	AnchorGYEaster        AnchorType = "GY_EASTER"
)

// ParseAnchorType maps a raw table value onto an AnchorType.
func ParseAnchorType(s string) (AnchorType, bool) {
	switch AnchorType(s) {
	case AnchorSY, AnchorGYFixed, AnchorGYNthDOW, AnchorGYLastDOW, AnchorGYLastDOWBefore, AnchorGYEaster:
		return AnchorType(s), true
	}
	return "", false
}

// Category classifies an event definition for display purposes.
type Category string

const (
	CategorySpecial  Category = "special"
	CategoryStandard Category = "standard"
)

// Kind classifies a produced occurrence. Supermonths always sort before
// special days, which sort before standard days.
type Kind string

const (
	KindSupermonth Kind = "supermonth"
	KindSpecial    Kind = "special"
	KindStandard   Kind = "standard"
)

// KindPriority returns the sort priority for a kind (lower sorts first).
func KindPriority(k Kind) int {
	switch k {
	case KindSupermonth:
		return 0
	case KindSpecial:
		return 1
	default:
		return 2
	}
}

// MonthRange is one variable-length named month ("supermonth") of the Seoian
// calendar, expressed as an inclusive span of Gregorian civil dates. Ranges
// are loaded once from an external table and never mutated; overlapping
// ranges for the same year are legal and resolved by the converter.
//
// Start and End are civil dates: midnight UTC, time-of-day ignored.
type MonthRange struct {
	SeoianYear int
	MonthNo    int // 1..13
	MonthName  string
	Start      time.Time
	End        time.Time
}

// EventDefinition is one recurring observance, immutable after load.
//
// Exactly one anchor parameter group is meaningful depending on Anchor:
// SYMonth/SYDay/SYStartYear for SY anchors, the GY* group for the rest.
// Weekday uses Sunday=0 .. Saturday=6.
type EventDefinition struct {
	ID       string
	Title    string
	Notes    string
	Category Category
	Anchor   AnchorType

	SYMonth     int
	SYDay       int
	SYStartYear int

	GYMonth            int
	GYDay              int
	Nth                int
	Weekday            int
	OffsetDays         int
	GregorianStartYear int

	Rank     int
	Sequence int
	Visible  bool
}

// SeoianDate is the Seoian representation of a Gregorian date, computed on
// demand and never stored. MonthNo == 0 means the date has no representation;
// that is a normal outcome, not an error, and Label carries the sentinel.
type SeoianDate struct {
	Year    int    `json:"year"`
	MonthNo int    `json:"month_no"`
	Day     int    `json:"day"`
	Label   string `json:"label"`
}

// Represented reports whether the date falls inside a defined month range.
func (d SeoianDate) Represented() bool { return d.MonthNo != 0 }

// Occurrence is one dated entry produced by the collector for a query range.
// Start and End are inclusive civil dates; single-day occurrences have
// Start == End.
type Occurrence struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Notes    string    `json:"notes,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Kind     Kind      `json:"kind"`
	Rank     int       `json:"rank"`
	Sequence int       `json:"sequence"`
}

// SuperDayBounds is the computed dual-timezone day interval: local midnight
// of a date in the east zone through the next local midnight of the same date
// label in the west zone. Duration is the absolute-instant difference and is
// only exactly 24h when the two zones share a UTC offset.
type SuperDayBounds struct {
	EastZone string        `json:"east_zone"`
	WestZone string        `json:"west_zone"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}
