package rules

import (
	"testing"
	"time"

	"seocal/internal/model"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestOccurrenceForYear_Fixed(t *testing.T) {
	def := model.EventDefinition{Anchor: model.AnchorGYFixed, GYMonth: 7, GYDay: 4}

	got, ok := OccurrenceForYear(def, 2026)
	if !ok || !got.Equal(d(2026, time.July, 4)) {
		t.Errorf("fixed July 4 = (%v, %v), want 2026-07-04", got, ok)
	}
}

func TestOccurrenceForYear_NthDOW(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		weekday int // Sunday=0
		nth     int
		year    int
		want    time.Time
		wantOK  bool
	}{
		{"2nd Sunday of May 2024", 5, 0, 2, 2024, d(2024, time.May, 12), true},
		{"4th Thursday of Nov 2024", 11, 4, 4, 2024, d(2024, time.November, 28), true},
		{"1st Monday of Sep 2025", 9, 1, 1, 2025, d(2025, time.September, 1), true},
		{"5th Monday of Feb 2025 does not exist", 2, 1, 5, 2025, time.Time{}, false},
		{"5th Friday of Aug 2025 exists", 8, 5, 5, 2025, d(2025, time.August, 29), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.EventDefinition{
				Anchor:  model.AnchorGYNthDOW,
				GYMonth: tt.month,
				Weekday: tt.weekday,
				Nth:     tt.nth,
			}
			got, ok := OccurrenceForYear(def, tt.year)
			if ok != tt.wantOK || (ok && !got.Equal(tt.want)) {
				t.Errorf("got (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOccurrenceForYear_LastDOW(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		weekday int
		year    int
		want    time.Time
	}{
		{"last Monday of May 2024", 5, 1, 2024, d(2024, time.May, 27)},
		{"last Sunday of Feb 2024 (leap)", 2, 0, 2024, d(2024, time.February, 25)},
		{"last Friday of Dec 2025", 12, 5, 2025, d(2025, time.December, 26)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.EventDefinition{
				Anchor:  model.AnchorGYLastDOW,
				GYMonth: tt.month,
				Weekday: tt.weekday,
			}
			got, ok := OccurrenceForYear(def, tt.year)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("got (%v, %v), want %v", got, ok, tt.want)
			}
		})
	}
}

func TestOccurrenceForYear_LastDOWBeforeDate(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		day     int
		weekday int
		year    int
		want    time.Time
	}{
		{"last Friday before May 25 2024", 5, 25, 5, 2024, d(2024, time.May, 24)},
		{"boundary day itself excluded", 5, 24, 5, 2024, d(2024, time.May, 17)},
		{"walks into previous month", 3, 3, 0, 2024, d(2024, time.February, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.EventDefinition{
				Anchor:  model.AnchorGYLastDOWBefore,
				GYMonth: tt.month,
				GYDay:   tt.day,
				Weekday: tt.weekday,
			}
			got, ok := OccurrenceForYear(def, tt.year)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("got (%v, %v), want %v", got, ok, tt.want)
			}
		})
	}
}

func TestOccurrenceForYear_Easter(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		offset int
		want   time.Time
	}{
		{"Easter 2024", 2024, 0, d(2024, time.March, 31)},
		{"Easter 2025", 2025, 0, d(2025, time.April, 20)},
		{"Good Friday 2024", 2024, -2, d(2024, time.March, 29)},
		{"Easter Monday 2025", 2025, 1, d(2025, time.April, 21)},
		{"Easter 2038 (late extreme)", 2038, 0, d(2038, time.April, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.EventDefinition{Anchor: model.AnchorGYEaster, OffsetDays: tt.offset}
			got, ok := OccurrenceForYear(def, tt.year)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("got (%v, %v), want %v", got, ok, tt.want)
			}
		})
	}
}

func TestOccurrenceForYear_StartYearGate(t *testing.T) {
	def := model.EventDefinition{
		Anchor:             model.AnchorGYFixed,
		GYMonth:            1,
		GYDay:              1,
		GregorianStartYear: 2020,
	}

	if _, ok := OccurrenceForYear(def, 2019); ok {
		t.Error("rule must not fire before its Gregorian start year")
	}
	if got, ok := OccurrenceForYear(def, 2020); !ok || !got.Equal(d(2020, time.January, 1)) {
		t.Errorf("rule must fire from its start year on, got (%v, %v)", got, ok)
	}
}

func TestOccurrenceForYear_SYAnchorHasNoGregorianOccurrence(t *testing.T) {
	def := model.EventDefinition{Anchor: model.AnchorSY, SYMonth: 1, SYDay: 5}
	if _, ok := OccurrenceForYear(def, 2024); ok {
		t.Error("SY anchors are resolved by the collector, not by year")
	}
}

func TestEasterSunday_KnownDates(t *testing.T) {
	known := map[int]time.Time{
		2000: d(2000, time.April, 23),
		2016: d(2016, time.March, 27),
		2024: d(2024, time.March, 31),
		2025: d(2025, time.April, 20),
		2026: d(2026, time.April, 5),
		2029: d(2029, time.April, 1),
	}
	for year, want := range known {
		if got := EasterSunday(year); !got.Equal(want) {
			t.Errorf("EasterSunday(%d) = %s, want %s",
				year, got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	}
}
