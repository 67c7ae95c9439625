// Package load reads the month-range and event-definition tables from CSV or
// JSON files. Header matching is tolerant: every field has a declarative
// alias table covering the historical spellings seen in the source sheets,
// resolved once per file into column positions. Malformed rows are logged
// and skipped; loading never fails on bad data, only on unreadable files.
package load

import "strings"

// Canonical field names used internally after header resolution.
const (
	fieldYear  = "year"
	fieldMonth = "month"
	fieldName  = "name"
	fieldStart = "start"
	fieldEnd   = "end"

	fieldID          = "id"
	fieldTitle       = "title"
	fieldNotes       = "notes"
	fieldCategory    = "category"
	fieldAnchor      = "anchor"
	fieldSYMonth     = "sy_month"
	fieldSYDay       = "sy_day"
	fieldSYStartYear = "sy_start_year"
	fieldGYMonth     = "gy_month"
	fieldGYDay       = "gy_day"
	fieldNth         = "nth"
	fieldWeekday     = "weekday"
	fieldOffsetDays  = "offset_days"
	fieldGYStartYear = "gy_start_year"
	fieldRank        = "rank"
	fieldSequence    = "sequence"
	fieldVisible     = "visible"
)

// monthAliases maps normalized header spellings onto canonical month-table
// fields.
var monthAliases = map[string]string{
	"year":       fieldYear,
	"seoianyear": fieldYear,
	"sy":         fieldYear,
	"syear":      fieldYear,

	"month":      fieldMonth,
	"monthno":    fieldMonth,
	"monthnum":   fieldMonth,
	"no":         fieldMonth,
	"supermonth": fieldMonth,

	"name":      fieldName,
	"monthname": fieldName,
	"label":     fieldName,

	"start":     fieldStart,
	"startdate": fieldStart,
	"begins":    fieldStart,
	"from":      fieldStart,

	"end":     fieldEnd,
	"enddate": fieldEnd,
	"ends":    fieldEnd,
	"to":      fieldEnd,
}

// eventAliases maps normalized header spellings onto canonical event-table
// fields. "gregorain" is a long-lived misspelling in the source sheets and
// must keep resolving to the Gregorian start year.
var eventAliases = map[string]string{
	"id":  fieldID,
	"key": fieldID,

	"title":   fieldTitle,
	"summary": fieldTitle,
	"event":   fieldTitle,

	"notes":       fieldNotes,
	"note":        fieldNotes,
	"description": fieldNotes,

	"category": fieldCategory,
	"type":     fieldCategory,

	"anchor":     fieldAnchor,
	"anchortype": fieldAnchor,
	"rule":       fieldAnchor,

	"symonth":         fieldSYMonth,
	"seoianmonth":     fieldSYMonth,
	"syday":           fieldSYDay,
	"seoianday":       fieldSYDay,
	"systartyear":     fieldSYStartYear,
	"seoianstartyear": fieldSYStartYear,

	"gymonth":        fieldGYMonth,
	"gregorianmonth": fieldGYMonth,
	"gregorainmonth": fieldGYMonth,
	"gyday":          fieldGYDay,
	"gregorianday":   fieldGYDay,
	"gregorainday":   fieldGYDay,

	"nth":     fieldNth,
	"n":       fieldNth,
	"weekday": fieldWeekday,
	"dow":     fieldWeekday,

	"offsetdays": fieldOffsetDays,
	"offset":     fieldOffsetDays,

	"gystartyear":        fieldGYStartYear,
	"gregorianstartyear": fieldGYStartYear,
	"gregorainstartyear": fieldGYStartYear,

	"rank":     fieldRank,
	"priority": fieldRank,

	"sequence": fieldSequence,
	"seq":      fieldSequence,
	"order":    fieldSequence,

	"visible": fieldVisible,
	"show":    fieldVisible,
	"shown":   fieldVisible,
}

// normalizeHeader lowercases a header cell and strips separators and a
// leading BOM, so "SY_Start_Year", "sy start year" and "systartyear" all
// collapse to the same key.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(h)
	return h
}

// resolveHeaders maps a CSV header row to canonical-field → column-index.
// Unknown headers are ignored; on duplicate aliases the first column wins.
func resolveHeaders(header []string, aliases map[string]string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		canonical, ok := aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, exists := cols[canonical]; exists {
			continue
		}
		cols[canonical] = i
	}
	return cols
}
