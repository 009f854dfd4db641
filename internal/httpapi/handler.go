package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/dieliga/internal/calendar"
	"github.com/pfrederiksen/dieliga/internal/league"
	"github.com/pfrederiksen/dieliga/internal/sensor"
)

// defaultWindow is the calendar range when no end is given.
const defaultWindow = 30 * 24 * time.Hour

// Source is the read side of the refresh coordinator.
type Source interface {
	Snapshot() *league.Snapshot
	LastUpdateSuccess() bool
	LeagueID() string
	Location() *time.Location
}

// Handler serves read-only views of the current snapshot.
type Handler struct {
	src  Source
	team string
	now  func() time.Time
}

// NewHandler creates a Handler. team is the configured team used when a
// request does not name one.
func NewHandler(src Source, team string) *Handler {
	return &Handler{src: src, team: team, now: time.Now}
}

func (h *Handler) teamParam(r *http.Request) string {
	if team := strings.TrimSpace(r.URL.Query().Get("team")); team != "" {
		return team
	}
	return h.team
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	snap := h.src.Snapshot()
	status := "ok"
	switch {
	case snap.IsEmpty():
		status = "empty"
	case !h.src.LastUpdateSuccess():
		status = "stale"
	}

	body := map[string]any{
		"status":              status,
		"league_id":           h.src.LeagueID(),
		"last_update_success": h.src.LastUpdateSuccess(),
	}
	if !snap.IsEmpty() {
		body["fetched_at"] = snap.FetchedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, h.src.Snapshot())
}

func (h *Handler) ListSensors(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, sensor.All(h.sensorInput(h.teamParam(r))))
}

func (h *Handler) GetStanding(w http.ResponseWriter, r *http.Request) {
	team := strings.TrimSpace(r.PathValue("team"))
	sb := h.src.Snapshot().Scoreboard

	pos, ok := league.PositionOf(&sb, team)
	if !ok {
		writeError(w, http.StatusNotFound, "team not found: "+team)
		return
	}
	writeSuccess(w, map[string]any{
		"position": pos,
		"team":     sb.Teams[pos-1],
	})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	s := h.src.Snapshot().Schedule
	team := h.teamParam(r)
	if team == "" {
		writeSuccess(w, s)
		return
	}
	writeSuccess(w, map[string]any{
		"league_total_games":     s.TotalGames,
		"league_completed_games": s.CompletedGames,
		"team":                   league.ForTeam(&s, team, h.now(), h.src.Location()),
	})
}

func (h *Handler) ListCalendar(w http.ResponseWriter, r *http.Request) {
	loc := h.src.Location()
	now := h.now()

	start, err := parseInstant(r.URL.Query().Get("start"), now, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	end, err := parseInstant(r.URL.Query().Get("end"), start.Add(defaultWindow), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end before start")
		return
	}

	snap := h.src.Snapshot()
	events := calendar.EventsInRange(&snap.Schedule, h.teamParam(r), snap.Scoreboard.Region, start, end, loc)
	if events == nil {
		events = []calendar.Event{}
	}
	writeSuccess(w, events)
}

func (h *Handler) GetICS(w http.ResponseWriter, r *http.Request) {
	snap := h.src.Snapshot()
	events := calendar.Build(&snap.Schedule, h.teamParam(r), snap.Scoreboard.Region, h.src.Location())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="dieliga.ics"`)
	_, _ = w.Write([]byte(calendar.GenerateICS(h.src.LeagueID(), events, h.now())))
}

func (h *Handler) sensorInput(team string) sensor.Input {
	return sensor.Input{
		LeagueID:          h.src.LeagueID(),
		Team:              team,
		Snapshot:          h.src.Snapshot(),
		LastUpdateSuccess: h.src.LastUpdateSuccess(),
		Now:               h.now(),
		Location:          h.src.Location(),
	}
}

// parseInstant accepts RFC 3339 or YYYY-MM-DD (midnight in loc). An empty
// value yields def.
func parseInstant(v string, def time.Time, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation(league.DayLayout, v, loc)
}
