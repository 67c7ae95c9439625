package calendar

import (
	"sort"
	"time"

	"seocal/internal/model"
)

// Index holds the loaded month-range table in lookup form. It is built once
// at startup and read-only afterwards, so it is safe for concurrent use.
//
// The index performs no overlap validation; overlapping ranges are legal and
// resolved at conversion time.
type Index struct {
	byYear      map[int][]model.MonthRange
	byYearMonth map[yearMonth]model.MonthRange
	all         []model.MonthRange
}

type yearMonth struct {
	year  int
	month int
}

// Gap describes a hole between two consecutive ranges of one Seoian year.
// Gaps are reported, never repaired: whether they are intercalary days or a
// data error is a question for the table's owner.
type Gap struct {
	SeoianYear int
	AfterMonth int
	Start      time.Time // first uncovered day
	End        time.Time // last uncovered day
}

// NewIndex builds an Index from raw table rows. Rows missing any required
// field (year, month number, start, end) are skipped silently; NewIndex never
// fails. Each year's list is sorted by start date.
func NewIndex(ranges []model.MonthRange) *Index {
	ix := &Index{
		byYear:      make(map[int][]model.MonthRange),
		byYearMonth: make(map[yearMonth]model.MonthRange),
	}

	for _, r := range ranges {
		if r.SeoianYear == 0 || r.MonthNo == 0 || r.Start.IsZero() || r.End.IsZero() {
			continue
		}
		r.Start = Civil(r.Start)
		r.End = Civil(r.End)
		ix.byYear[r.SeoianYear] = append(ix.byYear[r.SeoianYear], r)
		ix.byYearMonth[yearMonth{r.SeoianYear, r.MonthNo}] = r
	}

	for y := range ix.byYear {
		rs := ix.byYear[y]
		sort.SliceStable(rs, func(i, j int) bool {
			if !rs[i].Start.Equal(rs[j].Start) {
				return rs[i].Start.Before(rs[j].Start)
			}
			return rs[i].MonthNo < rs[j].MonthNo
		})
	}

	years := make([]int, 0, len(ix.byYear))
	for y := range ix.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		ix.all = append(ix.all, ix.byYear[y]...)
	}

	return ix
}

// Year returns the ranges defined for one Seoian year, sorted by start.
// The returned slice must not be mutated.
func (ix *Index) Year(year int) []model.MonthRange {
	return ix.byYear[year]
}

// Range returns the exact range for (year, monthNo), if defined.
func (ix *Index) Range(year, monthNo int) (model.MonthRange, bool) {
	r, ok := ix.byYearMonth[yearMonth{year, monthNo}]
	return r, ok
}

// All returns every indexed range ordered by Seoian year, then start date.
// The returned slice must not be mutated.
func (ix *Index) All() []model.MonthRange {
	return ix.all
}

// Len returns the number of indexed ranges.
func (ix *Index) Len() int { return len(ix.all) }

// Gaps reports uncovered days between consecutive ranges within each Seoian
// year. A day is uncovered when it lies after the furthest end seen so far
// and before the next range's start.
func (ix *Index) Gaps() []Gap {
	var gaps []Gap
	for _, y := range ix.years() {
		rs := ix.byYear[y]
		covered := rs[0].End
		lastMonth := rs[0].MonthNo
		for _, r := range rs[1:] {
			if r.Start.After(covered.AddDate(0, 0, 1)) {
				gaps = append(gaps, Gap{
					SeoianYear: y,
					AfterMonth: lastMonth,
					Start:      covered.AddDate(0, 0, 1),
					End:        r.Start.AddDate(0, 0, -1),
				})
			}
			if r.End.After(covered) {
				covered = r.End
				lastMonth = r.MonthNo
			}
		}
	}
	return gaps
}

func (ix *Index) years() []int {
	years := make([]int, 0, len(ix.byYear))
	for y := range ix.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
