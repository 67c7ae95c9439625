// Package web exposes the calendar engine over a small JSON API. The engine
// itself is pure; this layer owns the mutable bits: the current Engine
// (swapped wholesale on table reload) and a short-lived response cache.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"seocal/internal/calendar"
	"seocal/internal/config"
	appLog "seocal/internal/log"
	"seocal/internal/model"
	"seocal/internal/plan"
	"seocal/internal/superday"
)

// Server provides HTTP APIs over a loaded Engine.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	engineMu sync.RWMutex
	engine   *plan.Engine

	// Cache for /api/occurrences responses keyed by the query window, to
	// avoid re-collecting on every poll from the display layer.
	cacheMu sync.Mutex
	cache   map[string]cachedResponse
}

type cachedResponse struct {
	body      []byte
	updatedAt time.Time
}

const occurrencesCacheTTL = 30 * time.Second

// NewServer constructs a Server around an initial engine.
func NewServer(cfg *config.Config, engine *plan.Engine) *Server {
	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		engine: engine,
		cache:  make(map[string]cachedResponse),
	}
	s.registerRoutes()
	return s
}

// SetEngine swaps in a freshly built engine after a table reload and drops
// any cached responses computed from the old tables.
func (s *Server) SetEngine(engine *plan.Engine) {
	s.engineMu.Lock()
	s.engine = engine
	s.engineMu.Unlock()

	s.cacheMu.Lock()
	s.cache = make(map[string]cachedResponse)
	s.cacheMu.Unlock()
}

func (s *Server) currentEngine() *plan.Engine {
	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	return s.engine
}

// Handler returns the http.Handler, wrapped with basic auth if configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="seocal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/date", s.handleDate)
	s.mux.HandleFunc("/api/superday", s.handleSuperDay)
	s.mux.HandleFunc("/api/occurrences", s.handleOccurrences)
	s.mux.HandleFunc("/api/week", s.handleWeek)
	s.mux.HandleFunc("/api/calendar.ics", s.handleICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// dateResponse is the JSON shape for /api/date.
type dateResponse struct {
	Gregorian    string           `json:"gregorian"`
	Seoian       model.SeoianDate `json:"seoian"`
	ActiveRanges []activeRangeDTO `json:"active_ranges"`
}

type activeRangeDTO struct {
	SeoianYear int    `json:"seoian_year"`
	MonthNo    int    `json:"month_no"`
	MonthName  string `json:"month_name"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// handleDate maps a Gregorian date to its canonical Seoian date plus every
// overlapping month range.
//
// GET /api/date?on=2026-02-01 (defaults to today in the display timezone)
func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	d, ok := s.queryDate(r, "on")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'on' date, want YYYY-MM-DD")
		return
	}

	eng := s.currentEngine()
	sd := eng.Index().CanonicalDate(d)

	active := eng.Index().ActiveRanges(d)
	dtos := make([]activeRangeDTO, 0, len(active))
	for _, mr := range active {
		dtos = append(dtos, activeRangeDTO{
			SeoianYear: mr.SeoianYear,
			MonthNo:    mr.MonthNo,
			MonthName:  mr.MonthName,
			Start:      mr.Start.Format("2006-01-02"),
			End:        mr.End.Format("2006-01-02"),
		})
	}

	writeJSON(w, http.StatusOK, dateResponse{
		Gregorian:    d.Format("2006-01-02"),
		Seoian:       sd,
		ActiveRanges: dtos,
	})
}

// handleSuperDay computes the dual-timezone day interval for a date.
//
// GET /api/superday?date=2026-02-01 (defaults to today in the display zone)
func (s *Server) handleSuperDay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.queryDate(r, "date")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'date', want YYYY-MM-DD")
		return
	}

	b, err := superday.Bounds(d, s.cfg.SuperDay.ZoneA, s.cfg.SuperDay.ZoneB)
	if err != nil {
		appLog.Error("superday bounds failed", err)
		writeError(w, http.StatusInternalServerError, "superday computation failed")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		EastZone   string    `json:"east_zone"`
		WestZone   string    `json:"west_zone"`
		Start      time.Time `json:"start"`
		End        time.Time `json:"end"`
		DurationMs int64     `json:"duration_ms"`
	}{b.EastZone, b.WestZone, b.Start, b.End, b.Duration.Milliseconds()})
}

// occurrencesResponse is the JSON shape for /api/occurrences.
type occurrencesResponse struct {
	Occurrences []model.Occurrence `json:"occurrences"`
	RangeStart  string             `json:"range_start"`
	RangeEnd    string             `json:"range_end"`
}

// handleOccurrences returns the ranked occurrence sequence for a window.
//
// GET /api/occurrences?start=2026-02-01&end=2026-02-28
// Without parameters the window is today plus 27 days in the display zone.
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	start, okStart := s.queryDate(r, "start")
	end, okEnd := s.queryDate(r, "end")
	if !okStart || !okEnd {
		writeError(w, http.StatusBadRequest, "invalid 'start' or 'end' date, want YYYY-MM-DD")
		return
	}
	if r.URL.Query().Get("start") == "" && r.URL.Query().Get("end") == "" {
		end = start.AddDate(0, 0, 27)
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "'end' is before 'start'")
		return
	}

	key := start.Format("2006-01-02") + ".." + end.Format("2006-01-02")
	now := time.Now()

	s.cacheMu.Lock()
	if c, ok := s.cache[key]; ok && now.Sub(c.updatedAt) < occurrencesCacheTTL {
		s.cacheMu.Unlock()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(c.body)
		return
	}
	s.cacheMu.Unlock()

	occs := s.currentEngine().Collect(start, end)
	resp := occurrencesResponse{
		Occurrences: occs,
		RangeStart:  start.Format("2006-01-02"),
		RangeEnd:    end.Format("2006-01-02"),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		appLog.Error("occurrences marshal failed", err)
		writeError(w, http.StatusInternalServerError, "failed to encode occurrences")
		return
	}

	s.cacheMu.Lock()
	s.cache[key] = cachedResponse{body: body, updatedAt: time.Now()}
	s.cacheMu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// weekResponse is the JSON shape for /api/week.
type weekResponse struct {
	WeekStart string                  `json:"week_start"`
	WeekEnd   string                  `json:"week_end"`
	Lanes     int                     `json:"lanes"`
	Placed    []plan.PlacedOccurrence `json:"placed"`
	Overflow  [7]int                  `json:"overflow_by_day"`
}

// handleWeek lays one week's occurrences onto display lanes.
//
// GET /api/week?start=2026-02-02&lanes=4
// Without 'start' the current week (per configured week start) is used.
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	var weekStart time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'start' date, want YYYY-MM-DD")
			return
		}
		weekStart = calendar.Civil(d)
	} else {
		today, _ := s.queryDate(r, "")
		weekStart = weekStartFor(today, s.cfg.WeekStart)
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	lanes := s.cfg.MaxLanes
	if raw := r.URL.Query().Get("lanes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid 'lanes', want a positive integer")
			return
		}
		lanes = n
	}

	eng := s.currentEngine()
	occs := eng.Collect(weekStart, weekEnd)
	placement, err := plan.Place(occs, weekStart, weekEnd, lanes)
	if err != nil {
		appLog.Error("lane placement failed", err)
		writeError(w, http.StatusInternalServerError, "lane placement failed")
		return
	}

	writeJSON(w, http.StatusOK, weekResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   weekEnd.Format("2006-01-02"),
		Lanes:     lanes,
		Placed:    placement.Placed,
		Overflow:  placement.OverflowByDay,
	})
}

// queryDate resolves a date query parameter, defaulting to today in the
// display timezone when absent. ok=false only on a malformed value.
func (s *Server) queryDate(r *http.Request, param string) (time.Time, bool) {
	raw := ""
	if param != "" {
		raw = r.URL.Query().Get(param)
	}
	if raw == "" {
		loc := resolveLocationOrUTC(s.cfg.Timezone)
		return calendar.CivilIn(time.Now(), loc), true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return calendar.Civil(d), true
}

// weekStartFor returns the start of the week containing d. weekStart is
// "sunday" or "monday" (anything else is treated as monday).
func weekStartFor(d time.Time, weekStart string) time.Time {
	offset := int(d.Weekday()) // Sunday=0
	if weekStart != "sunday" {
		offset = (offset + 6) % 7 // Monday=0
	}
	return d.AddDate(0, 0, -offset)
}

func resolveLocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load display timezone; falling back to UTC", err, "name", name)
		return time.UTC
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
