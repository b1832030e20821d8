package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/monthly/internal/auth"
	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/ics"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/dukerupert/monthly/internal/view"
	"github.com/google/uuid"
)

// EventHandler serves the JSON API.
type EventHandler struct {
	store    store.Store
	notifier view.Notifier
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewEventHandler returns an EventHandler. Successful changes are reported to
// n, which may be nil.
func NewEventHandler(s store.Store, n view.Notifier, loc *time.Location, logger *slog.Logger) *EventHandler {
	if n == nil {
		n = view.Discard
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EventHandler{store: s, notifier: n, loc: loc, logger: logger, now: time.Now}
}

func (h *EventHandler) today() calendar.Date {
	return calendar.DateOf(h.now().In(h.loc))
}

func (h *EventHandler) notify(r *http.Request, action view.Action, id uuid.UUID, day calendar.Date) {
	h.logger.Info("event "+string(action), "id", id, "date", day, "user", auth.Username(r.Context()))
	h.notifier.Notify(view.Notice{
		Level:   view.LevelSuccess,
		Action:  action,
		Message: action.Message(),
		EventID: id,
		Date:    day,
	})
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Color       string `json:"color"`
}

// input converts the request, collecting date and color problems alongside
// the model's own field checks.
func (req eventRequest) input() (model.EventInput, error) {
	in := model.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
	}

	var fields []model.FieldError
	switch d, err := calendar.ParseDate(strings.TrimSpace(req.Date)); {
	case strings.TrimSpace(req.Date) == "":
		fields = append(fields, model.FieldError{Field: "date", Message: "date is required"})
	case err != nil:
		fields = append(fields, model.FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
	default:
		in.Date = d
	}

	if strings.TrimSpace(req.Color) != "" {
		c, err := model.ParseColor(req.Color)
		if err != nil {
			fields = append(fields, model.FieldError{Field: "color", Message: "color must be one of the palette colors"})
		}
		in.Color = c
	}

	err := in.Validate()
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		fields = append(fields, ve.Fields...)
	} else if err != nil {
		return in, err
	}
	if len(fields) > 0 {
		return in, &model.ValidationError{Fields: fields}
	}
	return in, nil
}

func (h *EventHandler) decode(w http.ResponseWriter, r *http.Request) (model.EventInput, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return model.EventInput{}, false
	}

	in, err := req.input()
	if err != nil {
		h.writeStoreError(w, err, "invalid event")
		return model.EventInput{}, false
	}
	return in, true
}

// writeStoreError maps validation failures to 400 and anything else to 500.
func (h *EventHandler) writeStoreError(w http.ResponseWriter, err error, msg string) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeValidation(w, ve)
		return
	}
	h.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	event, err := h.store.Create(in)
	if err != nil {
		h.writeStoreError(w, err, "failed to create event")
		return
	}

	h.notify(r, view.ActionCreated, event.ID, event.Date)
	writeJSON(w, http.StatusCreated, event)
}

// List returns all events, optionally narrowed by ?date=, ?month= or ?color=.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		events []model.Event
		err    error
	)
	switch {
	case q.Get("date") != "":
		day, perr := calendar.ParseDate(q.Get("date"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		events, err = h.store.ListByDay(day)
	case q.Get("month") != "":
		m, perr := calendar.ParseMonth(q.Get("month"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		events, err = h.store.ListByMonth(m.Year(), m.Month())
	case q.Get("color") != "":
		c, perr := model.ParseColor(q.Get("color"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "unknown color")
			return
		}
		events, err = h.store.ListByColor(c)
	default:
		events, err = h.store.List()
	}
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, nonNil(events))
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	event, err := h.store.Update(id, in)
	if err != nil {
		h.writeStoreError(w, err, "failed to update event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.notify(r, view.ActionUpdated, event.ID, event.Date)
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	h.notify(r, view.ActionDeleted, id, existing.Date)
	w.WriteHeader(http.StatusNoContent)
}

type dayResponse struct {
	Date   calendar.Date `json:"date"`
	Today  bool          `json:"today"`
	Events []model.Event `json:"events"`
}

type monthResponse struct {
	Month   string        `json:"month"`
	Leading int           `json:"leading"`
	Days    []dayResponse `json:"days"`
}

// Month returns the grid for /api/months/{month}: the leading blank count and
// every day of the month with its events.
func (h *EventHandler) Month(w http.ResponseWriter, r *http.Request) {
	first, err := calendar.ParseMonth(r.PathValue("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	today := h.today()
	ctrl := view.New(h.store, nil, today)
	ctrl.GoToMonth(first)
	grid, err := ctrl.Grid(today)
	if err != nil {
		h.logger.Error("build month", "month", first.MonthKey(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build month")
		return
	}

	resp := monthResponse{Month: first.MonthKey(), Leading: grid.Month.Leading}
	for _, week := range grid.Weeks {
		for _, d := range week {
			if d.Blank {
				continue
			}
			resp.Days = append(resp.Days, dayResponse{Date: d.Date, Today: d.Today, Events: nonNil(d.Events)})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) Palette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Palette)
}

type summaryResponse struct {
	model.PaletteEntry
	Events []model.Event `json:"events"`
}

// Summaries returns every event grouped by color in palette order.
func (h *EventHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	sums, err := view.New(h.store, nil, h.today()).Summaries()
	if err != nil {
		h.logger.Error("summaries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	resp := make([]summaryResponse, len(sums))
	for i, s := range sums {
		resp[i] = summaryResponse{PaletteEntry: s.Palette, Events: nonNil(s.Events)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ICS exports every event as an iCalendar feed.
func (h *EventHandler) ICS(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.List()
	if err != nil {
		h.logger.Error("list events", "error", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="monthly.ics"`)
	if err := ics.Export(w, events, h.loc, h.now()); err != nil {
		h.logger.Error("export ics", "error", err)
	}
}
