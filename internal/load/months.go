package load

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seocal/internal/calendar"
	appLog "seocal/internal/log"
	"seocal/internal/model"
)

const dateLayout = "2006-01-02"

// MonthRanges loads a month-range table, choosing the parser by file
// extension (.json, otherwise CSV).
func MonthRanges(path string) ([]model.MonthRange, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return MonthRangesJSON(path)
	}
	return MonthRangesCSV(path)
}

// MonthRangesCSV reads month ranges from a CSV file with tolerant headers.
// Rows missing a required field or carrying an unparseable value are logged
// and skipped.
func MonthRangesCSV(path string) ([]model.MonthRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: open months table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load: read months table: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := resolveHeaders(records[0], monthAliases)
	for _, required := range []string{fieldYear, fieldMonth, fieldStart, fieldEnd} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("load: months table missing %q column", required)
		}
	}

	var out []model.MonthRange
	for i, rec := range records[1:] {
		mr, err := parseMonthRow(rec, cols)
		if err != nil {
			appLog.Warn("months table: skipping row", "row", i+2, "reason", err)
			continue
		}
		out = append(out, mr)
	}

	appLog.Info("months table loaded", "path", path, "ranges", len(out))
	return out, nil
}

func parseMonthRow(rec []string, cols map[string]int) (model.MonthRange, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	year, err := strconv.Atoi(get(fieldYear))
	if err != nil {
		return model.MonthRange{}, fmt.Errorf("bad year %q", get(fieldYear))
	}
	monthNo, err := strconv.Atoi(get(fieldMonth))
	if err != nil || monthNo < 1 || monthNo > 13 {
		return model.MonthRange{}, fmt.Errorf("bad month number %q", get(fieldMonth))
	}
	start, err := time.Parse(dateLayout, get(fieldStart))
	if err != nil {
		return model.MonthRange{}, fmt.Errorf("bad start date %q", get(fieldStart))
	}
	end, err := time.Parse(dateLayout, get(fieldEnd))
	if err != nil {
		return model.MonthRange{}, fmt.Errorf("bad end date %q", get(fieldEnd))
	}
	if end.Before(start) {
		return model.MonthRange{}, fmt.Errorf("end %s before start %s", get(fieldEnd), get(fieldStart))
	}

	return model.MonthRange{
		SeoianYear: year,
		MonthNo:    monthNo,
		MonthName:  get(fieldName),
		Start:      calendar.Civil(start),
		End:        calendar.Civil(end),
	}, nil
}

// monthRangeJSON is the JSON row shape for month tables.
type monthRangeJSON struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// MonthRangesJSON reads month ranges from a JSON array. Field names are
// fixed here; tolerant alias matching only applies to the CSV form, where
// the historical header drift actually happened.
func MonthRangesJSON(path string) ([]model.MonthRange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read months table: %w", err)
	}

	var rows []monthRangeJSON
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("load: parse months table: %w", err)
	}

	var out []model.MonthRange
	for i, row := range rows {
		start, err := time.Parse(dateLayout, row.Start)
		if err != nil {
			appLog.Warn("months table: skipping row", "row", i, "reason", fmt.Sprintf("bad start date %q", row.Start))
			continue
		}
		end, err := time.Parse(dateLayout, row.End)
		if err != nil {
			appLog.Warn("months table: skipping row", "row", i, "reason", fmt.Sprintf("bad end date %q", row.End))
			continue
		}
		if row.Year == 0 || row.Month < 1 || row.Month > 13 || end.Before(start) {
			appLog.Warn("months table: skipping row", "row", i, "reason", "missing or inconsistent fields")
			continue
		}
		out = append(out, model.MonthRange{
			SeoianYear: row.Year,
			MonthNo:    row.Month,
			MonthName:  row.Name,
			Start:      calendar.Civil(start),
			End:        calendar.Civil(end),
		})
	}

	appLog.Info("months table loaded", "path", path, "ranges", len(out))
	return out, nil
}
