// Package rules evaluates yearly occurrences of Gregorian-anchored event
// definitions. All arithmetic happens on UTC civil dates, decoupled from any
// display timezone, so results never shift with the viewer's zone.
package rules

import (
	"time"

	"github.com/teambition/rrule-go"

	"seocal/internal/calendar"
	"seocal/internal/model"
)

// rruleWeekdays converts the definitions' Sunday=0 numbering to rrule's
// weekday values.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// OccurrenceForYear computes the single occurrence of a Gregorian-anchored
// definition in the given calendar year. ok=false means the rule produces no
// occurrence that year: before its start year, an nth-weekday that does not
// exist, or a non-Gregorian anchor. Absence is a normal outcome, not an
// error.
func OccurrenceForYear(def model.EventDefinition, year int) (time.Time, bool) {
	if def.GregorianStartYear > 0 && year < def.GregorianStartYear {
		return time.Time{}, false
	}

	switch def.Anchor {
	case model.AnchorGYFixed:
		return calendar.Date(year, time.Month(def.GYMonth), def.GYDay), true
	case model.AnchorGYNthDOW:
		return positionalWeekday(year, def.GYMonth, def.Weekday, def.Nth)
	case model.AnchorGYLastDOW:
		return positionalWeekday(year, def.GYMonth, def.Weekday, -1)
	case model.AnchorGYLastDOWBefore:
		return lastWeekdayBefore(year, def.GYMonth, def.GYDay, def.Weekday)
	case model.AnchorGYEaster:
		return EasterSunday(year).AddDate(0, 0, def.OffsetDays), true
	}
	return time.Time{}, false
}

// positionalWeekday resolves "the nth weekday of month" (nth=-1 for the last
// one) through a yearly recurrence rule. A requested occurrence that does not
// exist in that month/year simply yields no instance.
func positionalWeekday(year, month, weekday, nth int) (time.Time, bool) {
	if month < 1 || month > 12 || weekday < 0 || weekday > 6 || nth == 0 {
		return time.Time{}, false
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.YEARLY,
		Dtstart:   calendar.Date(year, time.January, 1),
		Bymonth:   []int{month},
		Byweekday: []rrule.Weekday{rruleWeekdays[weekday].Nth(nth)},
	})
	if err != nil {
		return time.Time{}, false
	}

	hits := r.Between(
		calendar.Date(year, time.January, 1),
		calendar.Date(year, time.December, 31),
		true,
	)
	if len(hits) == 0 {
		return time.Time{}, false
	}
	return calendar.Civil(hits[0]), true
}

// lastWeekdayBefore finds the last occurrence of weekday strictly before
// (month, day), walking backward from the preceding day. The result may land
// in the previous month when day is early enough.
func lastWeekdayBefore(year, month, day, weekday int) (time.Time, bool) {
	if month < 1 || month > 12 || weekday < 0 || weekday > 6 {
		return time.Time{}, false
	}
	d := calendar.Date(year, time.Month(month), day).AddDate(0, 0, -1)
	for i := 0; i < 7; i++ {
		if int(d.Weekday()) == weekday {
			return d, true
		}
		d = d.AddDate(0, 0, -1)
	}
	return time.Time{}, false
}
