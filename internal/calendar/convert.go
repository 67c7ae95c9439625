package calendar

import (
	"fmt"
	"sort"
	"time"

	"seocal/internal/model"
)

// The Seoian calendar is epoched at Gregorian 1994-01-19 ("Barrel Day",
// Seoian 01/01/0001). Every Gregorian year flips to the next Seoian year on
// January 19.
const (
	EpochGregorianYear = 1994
	epochDay           = 19
)

// SeoianYearFor returns the Seoian year a Gregorian civil date falls in.
// Dates strictly before the epoch have no Seoian year; that is a normal
// outcome reported via ok=false, never an error.
func SeoianYearFor(date time.Time) (int, bool) {
	d := Civil(date)
	gy := d.Year()

	sy := gy - EpochGregorianYear
	if !d.Before(Date(gy, time.January, epochDay)) {
		sy = gy - (EpochGregorianYear - 1)
	}
	if sy < 1 {
		return 0, false
	}
	return sy, true
}

// CanonicalDate maps a Gregorian civil date to its canonical Seoian date.
//
// Candidates are gathered from the computed Seoian year and its immediate
// neighbors, so ranges that straddle the Gregorian year-end are still found.
// When several ranges cover the date (overlaps near a transition are legal),
// the canonical one is the candidate with the latest start; ties break by
// highest month number. Day numbering starts at 1 on the range's start date.
//
// A date with no covering range (or before the epoch) yields the
// no-representation sentinel, with Label set to model.NoRepresentationLabel.
func (ix *Index) CanonicalDate(date time.Time) model.SeoianDate {
	d := Civil(date)

	sy, ok := SeoianYearFor(d)
	if !ok {
		return model.SeoianDate{Label: model.NoRepresentationLabel}
	}

	var best model.MonthRange
	found := false
	for y := sy - 1; y <= sy+1; y++ {
		for _, r := range ix.byYear[y] {
			if !covers(r, d) {
				continue
			}
			if !found || r.Start.After(best.Start) ||
				(r.Start.Equal(best.Start) && r.MonthNo > best.MonthNo) {
				best = r
				found = true
			}
		}
	}
	if !found {
		return model.SeoianDate{Year: sy, Label: model.NoRepresentationLabel}
	}

	day := DaysBetween(best.Start, d) + 1
	return model.SeoianDate{
		Year:    best.SeoianYear,
		MonthNo: best.MonthNo,
		Day:     day,
		Label:   FormatLabel(day, best.MonthNo, best.SeoianYear),
	}
}

// GregorianFromSeoian maps a Seoian (year, monthNo, day) back to a Gregorian
// civil date. ok=false when the (year, monthNo) range is undefined or the day
// number runs past the range's end; no invalid date is ever produced.
func (ix *Index) GregorianFromSeoian(year, monthNo, day int) (time.Time, bool) {
	r, ok := ix.Range(year, monthNo)
	if !ok || day < 1 {
		return time.Time{}, false
	}
	d := r.Start.AddDate(0, 0, day-1)
	if d.After(r.End) {
		return time.Time{}, false
	}
	return d, true
}

// ActiveRanges returns every range covering the date, not just the canonical
// one, sorted by month number. Callers that display all overlapping periods
// use this instead of CanonicalDate.
func (ix *Index) ActiveRanges(date time.Time) []model.MonthRange {
	d := Civil(date)

	sy, ok := SeoianYearFor(d)
	if !ok {
		return nil
	}

	var active []model.MonthRange
	for y := sy - 1; y <= sy+1; y++ {
		for _, r := range ix.byYear[y] {
			if covers(r, d) {
				active = append(active, r)
			}
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].MonthNo != active[j].MonthNo {
			return active[i].MonthNo < active[j].MonthNo
		}
		return active[i].SeoianYear < active[j].SeoianYear
	})
	return active
}

// FormatLabel renders a Seoian date label as DD/MM/YYYY, zero padded to the
// Seoian year.
func FormatLabel(day, monthNo, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, monthNo, year)
}

func covers(r model.MonthRange, d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
