package plan

import (
	"fmt"
	"time"

	"seocal/internal/calendar"
	"seocal/internal/model"
)

// PlacedOccurrence is an occurrence assigned to a display lane, with its
// clipped inclusive day-column range within the week.
type PlacedOccurrence struct {
	model.Occurrence
	Lane     int `json:"lane"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// Placement is the result of laying a week's occurrences onto a bounded
// number of lanes. OverflowByDay counts, per day column, the occurrences
// that found no free lane; placed and overflowed together account for every
// input occurrence touching the week.
type Placement struct {
	Placed        []PlacedOccurrence `json:"placed"`
	OverflowByDay [7]int             `json:"overflow_by_day"`
}

// Place assigns occurrences to lanes 0..maxLanes-1 in input order, which is
// expected to be collector order: earlier (higher-priority) occurrences get
// first choice of lanes, and a claimed span is never reassigned.
//
// Each occurrence is clipped to the inclusive window [weekStart, weekEnd]
// (at most 7 day columns) and goes to the lowest-indexed lane whose occupied
// column mask does not intersect the occurrence's columns. When no lane
// admits it, every day of its clipped span counts one overflow instead.
//
// maxLanes <= 0 and a window wider than 7 days are caller bugs, reported as
// errors before any work happens.
func Place(occs []model.Occurrence, weekStart, weekEnd time.Time, maxLanes int) (Placement, error) {
	if maxLanes <= 0 {
		return Placement{}, fmt.Errorf("plan: maxLanes must be positive, got %d", maxLanes)
	}
	weekStart = calendar.Civil(weekStart)
	weekEnd = calendar.Civil(weekEnd)
	width := calendar.DaysBetween(weekStart, weekEnd) + 1
	if width < 1 || width > 7 {
		return Placement{}, fmt.Errorf("plan: window must span 1..7 days, got %d", width)
	}

	lanes := make([]uint8, maxLanes)
	var p Placement

	for _, occ := range occs {
		s, e := occ.Start, occ.End
		if e.Before(weekStart) || s.After(weekEnd) {
			continue
		}
		if s.Before(weekStart) {
			s = weekStart
		}
		if e.After(weekEnd) {
			e = weekEnd
		}
		c0 := calendar.DaysBetween(weekStart, s)
		c1 := calendar.DaysBetween(weekStart, e)

		var mask uint8
		for c := c0; c <= c1; c++ {
			mask |= 1 << uint(c)
		}

		lane := -1
		for l := range lanes {
			if lanes[l]&mask == 0 {
				lane = l
				break
			}
		}
		if lane < 0 {
			for c := c0; c <= c1; c++ {
				p.OverflowByDay[c]++
			}
			continue
		}

		lanes[lane] |= mask
		p.Placed = append(p.Placed, PlacedOccurrence{
			Occurrence: occ,
			Lane:       lane,
			StartCol:   c0,
			EndCol:     c1,
		})
	}

	return p, nil
}
