package load

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	appLog "seocal/internal/log"
	"seocal/internal/model"
)

// EventDefinitions reads the recurring-event table from a CSV file with
// tolerant headers. Rows with an unrecognized anchor type or unparseable
// anchor parameters are logged and skipped; the load itself only fails when
// the file cannot be read or carries no usable header.
func EventDefinitions(path string) ([]model.EventDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: open events table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load: read events table: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := resolveHeaders(records[0], eventAliases)
	for _, required := range []string{fieldID, fieldTitle, fieldAnchor} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("load: events table missing %q column", required)
		}
	}

	var out []model.EventDefinition
	for i, rec := range records[1:] {
		def, err := parseEventRow(rec, cols)
		if err != nil {
			appLog.Warn("events table: skipping row", "row", i+2, "reason", err)
			continue
		}
		out = append(out, def)
	}

	appLog.Info("events table loaded", "path", path, "definitions", len(out))
	return out, nil
}

func parseEventRow(rec []string, cols map[string]int) (model.EventDefinition, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	getInt := func(field string) int {
		n, _ := strconv.Atoi(get(field))
		return n
	}

	id := get(fieldID)
	title := get(fieldTitle)
	if id == "" || title == "" {
		return model.EventDefinition{}, fmt.Errorf("missing id or title")
	}

	anchor, ok := model.ParseAnchorType(strings.ToUpper(get(fieldAnchor)))
	if !ok {
		return model.EventDefinition{}, fmt.Errorf("unknown anchor type %q", get(fieldAnchor))
	}

	def := model.EventDefinition{
		ID:                 id,
		Title:              title,
		Notes:              get(fieldNotes),
		Anchor:             anchor,
		SYMonth:            getInt(fieldSYMonth),
		SYDay:              getInt(fieldSYDay),
		SYStartYear:        getInt(fieldSYStartYear),
		GYMonth:            getInt(fieldGYMonth),
		GYDay:              getInt(fieldGYDay),
		Nth:                getInt(fieldNth),
		Weekday:            getInt(fieldWeekday),
		OffsetDays:         getInt(fieldOffsetDays),
		GregorianStartYear: getInt(fieldGYStartYear),
		Rank:               getInt(fieldRank),
		Sequence:           getInt(fieldSequence),
		Visible:            parseVisible(get(fieldVisible)),
	}

	switch strings.ToLower(get(fieldCategory)) {
	case "special":
		def.Category = model.CategorySpecial
	case "standard", "":
		def.Category = model.CategoryStandard
	default:
		return model.EventDefinition{}, fmt.Errorf("unknown category %q", get(fieldCategory))
	}

	switch anchor {
	case model.AnchorSY:
		if def.SYMonth < 1 || def.SYMonth > 13 || def.SYDay < 1 {
			return model.EventDefinition{}, fmt.Errorf("SY anchor needs month and day")
		}
	case model.AnchorGYFixed, model.AnchorGYLastDOWBefore:
		if def.GYMonth < 1 || def.GYMonth > 12 || def.GYDay < 1 {
			return model.EventDefinition{}, fmt.Errorf("%s anchor needs month and day", anchor)
		}
	case model.AnchorGYNthDOW:
		if def.GYMonth < 1 || def.GYMonth > 12 || def.Nth < 1 {
			return model.EventDefinition{}, fmt.Errorf("GY_NTH_DOW anchor needs month and nth")
		}
	case model.AnchorGYLastDOW:
		if def.GYMonth < 1 || def.GYMonth > 12 {
			return model.EventDefinition{}, fmt.Errorf("GY_LAST_DOW anchor needs month")
		}
	}

	return def, nil
}

// parseVisible treats an empty cell as visible; only an explicit negative
// hides a definition.
func parseVisible(s string) bool {
	switch strings.ToLower(s) {
	case "0", "false", "no", "n", "hidden":
		return false
	}
	return true
}
