package load

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seocal/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMonthRangesCSV_AliasHeaders(t *testing.T) {
	// Headers in one of the historical spellings: spaced, mixed case.
	path := writeFile(t, "months.csv",
		"Seoian Year,Month No,Month Name,Start Date,End Date\n"+
			"31,1,Alder,2024-01-19,2024-02-15\n"+
			"31,2,Birch,2024-02-16,2024-03-16\n")

	got, err := MonthRangesCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d ranges, want 2", len(got))
	}
	if got[0].SeoianYear != 31 || got[0].MonthNo != 1 || got[0].MonthName != "Alder" {
		t.Errorf("first range = %+v", got[0])
	}
	if !got[0].Start.Equal(time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", got[0].Start)
	}
}

func TestMonthRangesCSV_SkipsBadRows(t *testing.T) {
	path := writeFile(t, "months.csv",
		"year,month,name,start,end\n"+
			"31,1,Alder,2024-01-19,2024-02-15\n"+
			"31,x,Broken,2024-02-16,2024-03-16\n"+ // bad month number
			"31,2,Birch,not-a-date,2024-03-16\n"+ // bad start
			"31,3,Cedar,2024-04-08,2024-03-10\n") // end before start

	got, err := MonthRangesCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d ranges, want 1 (bad rows skipped)", len(got))
	}
}

func TestMonthRangesCSV_MissingColumn(t *testing.T) {
	path := writeFile(t, "months.csv", "year,month,name,start\n31,1,Alder,2024-01-19\n")
	if _, err := MonthRangesCSV(path); err == nil {
		t.Error("a table without an end column must fail to load")
	}
}

func TestMonthRangesJSON(t *testing.T) {
	path := writeFile(t, "months.json", `[
		{"year": 31, "month": 1, "name": "Alder", "start": "2024-01-19", "end": "2024-02-15"},
		{"year": 0, "month": 2, "name": "NoYear", "start": "2024-02-16", "end": "2024-03-16"}
	]`)

	got, err := MonthRangesJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d ranges, want 1 (row without year skipped)", len(got))
	}
}

func TestEventDefinitionsCSV(t *testing.T) {
	// "Gregorain Start Year" is the long-lived misspelling from the source
	// sheets and must resolve like the correct spelling.
	path := writeFile(t, "events.csv",
		"ID,Title,Notes,Category,Anchor Type,SY_Month,SY_Day,SY_Start_Year,GY_Month,GY_Day,Nth,Weekday,Offset_Days,Gregorain Start Year,Rank,Seq,Visible\n"+
			"anniv,Anniversary,first day,special,SY,1,5,0,,,,,,,1,1,yes\n"+
			"tg,Thanksgiving,,standard,GY_NTH_DOW,,,,11,,4,4,,1942,2,1,\n"+
			"gf,Good Friday,,standard,GY_EASTER,,,,,,,,-2,,2,2,true\n"+
			"old,Hidden,,standard,GY_FIXED,,,,7,4,,,,,2,3,no\n")

	got, err := EventDefinitions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("loaded %d definitions, want 4", len(got))
	}

	byID := make(map[string]model.EventDefinition)
	for _, def := range got {
		byID[def.ID] = def
	}

	anniv := byID["anniv"]
	if anniv.Anchor != model.AnchorSY || anniv.SYMonth != 1 || anniv.SYDay != 5 || !anniv.Visible {
		t.Errorf("anniv = %+v", anniv)
	}
	if anniv.Category != model.CategorySpecial {
		t.Errorf("anniv category = %q", anniv.Category)
	}

	tg := byID["tg"]
	if tg.Anchor != model.AnchorGYNthDOW || tg.GYMonth != 11 || tg.Nth != 4 || tg.Weekday != 4 {
		t.Errorf("tg = %+v", tg)
	}
	if tg.GregorianStartYear != 1942 {
		t.Errorf("misspelled Gregorian header not resolved: start year = %d", tg.GregorianStartYear)
	}
	if !tg.Visible {
		t.Error("empty visible cell must default to visible")
	}

	if gf := byID["gf"]; gf.OffsetDays != -2 {
		t.Errorf("gf offset = %d", gf.OffsetDays)
	}
	if old := byID["old"]; old.Visible {
		t.Error("explicit 'no' must hide the definition")
	}
}

func TestEventDefinitions_SkipsBadRows(t *testing.T) {
	path := writeFile(t, "events.csv",
		"id,title,anchor\n"+
			"ok,Fine,GY_EASTER\n"+
			",NoID,GY_EASTER\n"+
			"bad,Bad Anchor,GY_SOMETIMES\n"+
			"incomplete,No Month,GY_FIXED\n")

	got, err := EventDefinitions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("loaded %+v, want only the valid row", got)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"SY_Start_Year", "systartyear"},
		{"sy start year", "systartyear"},
		{" Month-No ", "monthno"},
		{"\uFEFFYear", "year"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
