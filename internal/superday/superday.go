// Package superday computes the dual-timezone day interval: the span from
// local midnight of a date in the "east" zone to the next local midnight of
// the same date label in the "west" zone.
package superday

import (
	"fmt"
	"time"

	"seocal/internal/model"
)

// Bounds computes the SuperDay interval for a civil date across two IANA
// zones. Which zone is east is derived from the UTC offsets at that date's
// local midnight in each zone, on every call; nothing is cached, so swapping
// the configured zones can never leave a stale assignment behind.
//
// Duration is the difference between the two absolute instants. It equals
// exactly 24h only when the zones share an offset (then the pair is treated
// as identical and no east/west distinction applies); otherwise it stretches
// or shrinks with the offset delta and any DST transition inside either zone.
//
// The only error case is an unknown zone identifier.
func Bounds(date time.Time, zoneA, zoneB string) (model.SuperDayBounds, error) {
	locA, err := time.LoadLocation(zoneA)
	if err != nil {
		return model.SuperDayBounds{}, fmt.Errorf("superday: zone %q: %w", zoneA, err)
	}
	locB, err := time.LoadLocation(zoneB)
	if err != nil {
		return model.SuperDayBounds{}, fmt.Errorf("superday: zone %q: %w", zoneB, err)
	}

	y, m, d := date.Date()
	midnightA := time.Date(y, m, d, 0, 0, 0, 0, locA)
	midnightB := time.Date(y, m, d, 0, 0, 0, 0, locB)
	_, offA := midnightA.Zone()
	_, offB := midnightB.Zone()

	if offA == offB {
		// Identical pair: a plain 24h day anchored in the first zone.
		start := midnightA
		return model.SuperDayBounds{
			EastZone: zoneA,
			WestZone: zoneB,
			Start:    start,
			End:      start.Add(24 * time.Hour),
			Duration: 24 * time.Hour,
		}, nil
	}

	eastZone, westZone := zoneA, zoneB
	eastMidnight, westLoc := midnightA, locB
	if offB > offA {
		eastZone, westZone = zoneB, zoneA
		eastMidnight, westLoc = midnightB, locA
	}

	// End of the same calendar date label in the west zone. time.Date
	// normalizes d+1 across month boundaries and resolves the instant with
	// whatever offset is in force there, which keeps the subtraction correct
	// across DST transitions.
	end := time.Date(y, m, d+1, 0, 0, 0, 0, westLoc)

	return model.SuperDayBounds{
		EastZone: eastZone,
		WestZone: westZone,
		Start:    eastMidnight,
		End:      end,
		Duration: end.Sub(eastMidnight),
	}, nil
}
