package plan

import (
	"testing"
	"time"

	"seocal/internal/model"
)

func weekFixture() (time.Time, time.Time) {
	// Monday 2024-02-12 .. Sunday 2024-02-18.
	return d(2024, time.February, 12), d(2024, time.February, 18)
}

func spanOcc(id string, start, end time.Time) model.Occurrence {
	return model.Occurrence{ID: id, Label: id, Start: start, End: end, Kind: model.KindStandard}
}

func TestPlace_RejectsBadLaneCount(t *testing.T) {
	ws, we := weekFixture()
	for _, lanes := range []int{0, -1} {
		if _, err := Place(nil, ws, we, lanes); err == nil {
			t.Errorf("maxLanes=%d must be rejected", lanes)
		}
	}
}

func TestPlace_RejectsOverwideWindow(t *testing.T) {
	ws, _ := weekFixture()
	if _, err := Place(nil, ws, ws.AddDate(0, 0, 9), 3); err == nil {
		t.Error("window wider than 7 days must be rejected")
	}
}

func TestPlace_PriorityGetsFirstLane(t *testing.T) {
	ws, we := weekFixture()
	occs := []model.Occurrence{
		spanOcc("whole-week", ws, we),
		spanOcc("mid", d(2024, time.February, 14), d(2024, time.February, 15)),
	}

	p, err := Place(occs, ws, we, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placed) != 2 {
		t.Fatalf("placed %d, want 2", len(p.Placed))
	}
	if p.Placed[0].ID != "whole-week" || p.Placed[0].Lane != 0 {
		t.Errorf("first occurrence should claim lane 0, got %+v", p.Placed[0])
	}
	if p.Placed[1].Lane != 1 {
		t.Errorf("conflicting occurrence should fall to lane 1, got %d", p.Placed[1].Lane)
	}
}

func TestPlace_ReusesFreeColumns(t *testing.T) {
	ws, we := weekFixture()
	occs := []model.Occurrence{
		spanOcc("mon-tue", d(2024, time.February, 12), d(2024, time.February, 13)),
		spanOcc("thu-fri", d(2024, time.February, 15), d(2024, time.February, 16)),
	}

	p, err := Place(occs, ws, we, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placed) != 2 {
		t.Fatalf("disjoint spans must share a lane, placed %d", len(p.Placed))
	}
	for _, po := range p.Placed {
		if po.Lane != 0 {
			t.Errorf("%s on lane %d, want 0", po.ID, po.Lane)
		}
	}
}

func TestPlace_OverflowCountsEveryClippedDay(t *testing.T) {
	ws, we := weekFixture()
	occs := []model.Occurrence{
		spanOcc("a", ws, we),
		spanOcc("b", d(2024, time.February, 13), d(2024, time.February, 15)),
	}

	p, err := Place(occs, ws, we, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placed) != 1 || p.Placed[0].ID != "a" {
		t.Fatalf("only the first occurrence should fit, got %+v", p.Placed)
	}

	want := [7]int{0, 1, 1, 1, 0, 0, 0}
	if p.OverflowByDay != want {
		t.Errorf("overflow = %v, want %v", p.OverflowByDay, want)
	}
}

func TestPlace_ClipsToWindow(t *testing.T) {
	ws, we := weekFixture()
	// Spans a supermonth-sized range far beyond the week.
	occs := []model.Occurrence{spanOcc("month", d(2024, time.January, 19), d(2024, time.March, 16))}

	p, err := Place(occs, ws, we, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placed) != 1 {
		t.Fatalf("placed %d, want 1", len(p.Placed))
	}
	if p.Placed[0].StartCol != 0 || p.Placed[0].EndCol != 6 {
		t.Errorf("clipped columns = [%d, %d], want [0, 6]",
			p.Placed[0].StartCol, p.Placed[0].EndCol)
	}
}

func TestPlace_SkipsOccurrencesOutsideWindow(t *testing.T) {
	ws, we := weekFixture()
	occs := []model.Occurrence{spanOcc("elsewhere", d(2024, time.March, 1), d(2024, time.March, 2))}

	p, err := Place(occs, ws, we, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Placed) != 0 || p.OverflowByDay != [7]int{} {
		t.Errorf("occurrence outside the window must be ignored, got %+v", p)
	}
}

// TestPlace_SafetyInvariant packs a dense synthetic week and checks the two
// structural guarantees: no two placed occurrences share a lane with
// overlapping columns, and placed plus overflowed accounts for every input
// touching the window.
func TestPlace_SafetyInvariant(t *testing.T) {
	ws, we := weekFixture()

	var occs []model.Occurrence
	for i := 0; i < 7; i++ {
		occs = append(occs, spanOcc("w"+string(rune('a'+i)), ws, we))
		occs = append(occs, spanOcc("d"+string(rune('a'+i)), ws.AddDate(0, 0, i), ws.AddDate(0, 0, i)))
	}

	const maxLanes = 3
	p, err := Place(occs, ws, we, maxLanes)
	if err != nil {
		t.Fatal(err)
	}

	lanes := make(map[int]uint8)
	for _, po := range p.Placed {
		if po.Lane < 0 || po.Lane >= maxLanes {
			t.Fatalf("%s placed on invalid lane %d", po.ID, po.Lane)
		}
		var mask uint8
		for c := po.StartCol; c <= po.EndCol; c++ {
			mask |= 1 << uint(c)
		}
		if lanes[po.Lane]&mask != 0 {
			t.Fatalf("%s overlaps another occurrence on lane %d", po.ID, po.Lane)
		}
		lanes[po.Lane] |= mask
	}

	placedDays := 0
	for _, po := range p.Placed {
		placedDays += po.EndCol - po.StartCol + 1
	}
	overflowDays := 0
	for _, n := range p.OverflowByDay {
		overflowDays += n
	}
	wantDays := 7*7 + 7 // seven week-long spans + seven single days
	if placedDays+overflowDays != wantDays {
		t.Errorf("placed (%d) + overflowed (%d) day cells = %d, want %d",
			placedDays, overflowDays, placedDays+overflowDays, wantDays)
	}
}
