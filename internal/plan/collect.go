package plan

import (
	"fmt"
	"sort"
	"time"

	"seocal/internal/calendar"
	"seocal/internal/model"
	"seocal/internal/rules"
)

// Collect produces every occurrence touching the inclusive civil-date window
// [start, end], merged from three sources:
//
//   - month ranges overlapping the window (kind supermonth, rank 0, the
//     month number as sequence);
//   - SY-anchored definitions whose (month, day) matches the canonical
//     Seoian date of some day in the window (kind special);
//   - Gregorian-anchored definitions whose yearly occurrence falls inside
//     the window (kind standard).
//
// The result is totally ordered: kind priority, rank, sequence, start date,
// label. Two calls with identical inputs produce identical output; the
// display layer's overflow counting depends on that.
func (e *Engine) Collect(start, end time.Time) []model.Occurrence {
	start = calendar.Civil(start)
	end = calendar.Civil(end)
	if end.Before(start) {
		return nil
	}

	var out []model.Occurrence

	for _, r := range e.index.All() {
		if r.End.Before(start) || r.Start.After(end) {
			continue
		}
		out = append(out, model.Occurrence{
			ID:       fmt.Sprintf("sm-%04d-%02d", r.SeoianYear, r.MonthNo),
			Label:    r.MonthName,
			Start:    r.Start,
			End:      r.End,
			Kind:     model.KindSupermonth,
			Rank:     0,
			Sequence: r.MonthNo,
		})
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		sd := e.index.CanonicalDate(d)
		if !sd.Represented() {
			continue
		}
		for _, def := range e.bySY[syKey{sd.MonthNo, sd.Day}] {
			if !def.Visible {
				continue
			}
			if def.SYStartYear > 0 && sd.Year < def.SYStartYear {
				continue
			}
			out = append(out, model.Occurrence{
				ID:       def.ID,
				Label:    def.Title,
				Notes:    def.Notes,
				Start:    d,
				End:      d,
				Kind:     model.KindSpecial,
				Rank:     def.Rank,
				Sequence: def.Sequence,
			})
		}
	}

	for year := start.Year(); year <= end.Year(); year++ {
		for _, def := range e.gy {
			if !def.Visible {
				continue
			}
			d, ok := rules.OccurrenceForYear(def, year)
			if !ok || d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, model.Occurrence{
				ID:       def.ID,
				Label:    def.Title,
				Notes:    def.Notes,
				Start:    d,
				End:      d,
				Kind:     model.KindStandard,
				Rank:     def.Rank,
				Sequence: def.Sequence,
			})
		}
	}

	sortOccurrences(out)
	return out
}

// sortOccurrences applies the collector's total order. Every comparison tier
// is deterministic, so repeated runs over equal inputs sort identically.
func sortOccurrences(occs []model.Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		a, b := occs[i], occs[j]
		if pa, pb := model.KindPriority(a.Kind), model.KindPriority(b.Kind); pa != pb {
			return pa < pb
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.Label < b.Label
	})
}
