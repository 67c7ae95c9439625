package web

import (
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "seocal/internal/log"
	"seocal/internal/model"
)

// handleICS serves the collected occurrences as an iCalendar feed so regular
// calendar clients can subscribe to the Seoian schedule.
//
// GET /api/calendar.ics?start=2026-01-01&end=2026-12-31
// Without parameters the feed covers today through one year ahead.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	start, okStart := s.queryDate(r, "start")
	end, okEnd := s.queryDate(r, "end")
	if !okStart || !okEnd {
		writeError(w, http.StatusBadRequest, "invalid 'start' or 'end' date, want YYYY-MM-DD")
		return
	}
	if r.URL.Query().Get("end") == "" {
		end = start.AddDate(1, 0, 0)
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "'end' is before 'start'")
		return
	}

	occs := s.currentEngine().Collect(start, end)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//seocal//calendar//EN")

	stamp := time.Now().UTC()
	for _, occ := range occs {
		ev := cal.AddEvent(icsUID(occ))
		ev.SetDtStampTime(stamp)
		// Occurrence spans are inclusive civil dates; DTEND is exclusive.
		ev.SetAllDayStartAt(occ.Start)
		ev.SetAllDayEndAt(occ.End.AddDate(0, 0, 1))
		ev.SetSummary(occ.Label)
		if occ.Notes != "" {
			ev.SetDescription(occ.Notes)
		}
	}

	appLog.Debug("ics export",
		"range_start", start.Format("2006-01-02"),
		"range_end", end.Format("2006-01-02"),
		"events", len(occs),
	)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}

// icsUID derives a stable per-instance UID from the occurrence identity and
// its start date.
func icsUID(occ model.Occurrence) string {
	return occ.ID + "-" + occ.Start.Format("20060102") + "@seocal"
}
