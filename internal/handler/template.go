package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/dukerupert/monthly/internal/view"
	"github.com/dukerupert/monthly/web"
	"github.com/google/uuid"
)

// maxBadges is how many event titles a day cell shows before "+N".
const maxBadges = 2

// noticeMissing is the redirect notice for an event removed by someone else.
const noticeMissing = "missing"

var funcs = template.FuncMap{
	"badges": func(events []model.Event) []model.Event {
		if len(events) > maxBadges {
			return events[:maxBadges]
		}
		return events
	},
	"more": func(events []model.Event) int {
		return max(len(events)-maxBadges, 0)
	},
	// Palette values are fixed hex and rgba strings.
	"css": func(s string) template.CSS { return template.CSS(s) },
}

// TemplateHandler serves the month page and its form posts. Each request
// rebuilds the view from query parameters, so the page holds no server-side
// session.
type TemplateHandler struct {
	store     store.Store
	notifier  view.Notifier
	loc       *time.Location
	logger    *slog.Logger
	templates *template.Template
	now       func() time.Time
}

func NewTemplateHandler(s store.Store, n view.Notifier, loc *time.Location, logger *slog.Logger) *TemplateHandler {
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(web.Templates(), "templates/*.html"))
	if n == nil {
		n = view.Discard
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TemplateHandler{
		store:     s,
		notifier:  n,
		loc:       loc,
		logger:    logger,
		templates: tmpl,
		now:       time.Now,
	}
}

type dialogData struct {
	Creating bool
	EventID  uuid.UUID
	Date     calendar.Date
	Form     view.Form
	Errors   map[string]string
}

type pageData struct {
	Title      string
	MonthLabel string
	PrevMonth  string
	NextMonth  string
	Weekdays   [7]string
	Grid       view.Grid
	Dialog     *dialogData
	Summaries  []view.Summary
	Palette    []model.PaletteEntry
	Notice     *view.Notice
}

func (h *TemplateHandler) today() calendar.Date {
	return calendar.DateOf(h.now().In(h.loc))
}

// controller returns a fresh view whose notices go to the shared notifier
// and to rec.
func (h *TemplateHandler) controller(rec *view.Recorder) *view.Controller {
	return view.New(h.store, view.Multi(h.notifier, rec), h.today())
}

// Page renders the month grid. Query parameters select the month (month=
// YYYY-MM), open the create dialog (day=YYYY-MM-DD) or the edit dialog
// (event=<id>), and show a notice left by a previous redirect.
func (h *TemplateHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	ctrl := h.controller(&view.Recorder{})

	if m, err := calendar.ParseMonth(q.Get("month")); err == nil {
		ctrl.GoToMonth(m)
	}
	if day, err := calendar.ParseDate(q.Get("day")); err == nil {
		if q.Get("month") == "" {
			ctrl.GoToMonth(day)
		}
		ctrl.ClickDay(day)
	}

	var notice *view.Notice
	if id, err := uuid.Parse(q.Get("event")); err == nil {
		ok, err := ctrl.ClickEvent(id)
		if err != nil {
			h.serverError(w, "load event", err)
			return
		}
		if ok {
			ctrl.GoToMonth(ctrl.Selected())
		} else {
			notice = missingNotice()
		}
	}

	if notice == nil {
		notice = redirectNotice(q.Get("notice"))
	}
	h.render(w, http.StatusOK, ctrl, notice)
}

// Create handles the create dialog post.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	day, err := calendar.ParseDate(r.PostForm.Get("date"))
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rec := &view.Recorder{}
	ctrl := h.controller(rec)
	ctrl.GoToMonth(day)
	ctrl.ClickDay(day)
	ctrl.SetForm(formFrom(r))

	h.submit(w, r, ctrl, rec)
}

// Update handles the edit dialog post for /events/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	rec := &view.Recorder{}
	ctrl := h.controller(rec)
	ok, err := ctrl.ClickEvent(id)
	if err != nil {
		h.serverError(w, "load event", err)
		return
	}
	if !ok {
		redirect(w, r, h.today(), noticeMissing)
		return
	}

	if s := r.PostForm.Get("date"); s != "" {
		day, err := calendar.ParseDate(s)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ctrl.SetDate(day)
	}
	ctrl.GoToMonth(ctrl.Selected())
	ctrl.SetForm(formFrom(r))

	h.submit(w, r, ctrl, rec)
}

// Delete handles /events/{id}/delete.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ctrl := h.controller(&view.Recorder{})
	ok, err := ctrl.ClickEvent(id)
	if err != nil {
		h.serverError(w, "load event", err)
		return
	}
	if !ok {
		redirect(w, r, h.today(), noticeMissing)
		return
	}

	day := ctrl.Selected()
	if err := ctrl.Delete(); err != nil {
		h.serverError(w, "delete event", err)
		return
	}
	redirect(w, r, day, string(view.ActionDeleted))
}

// submit saves the dialog. Success redirects to the event's month; a rejected
// form is shown again with its errors.
func (h *TemplateHandler) submit(w http.ResponseWriter, r *http.Request, ctrl *view.Controller, rec *view.Recorder) {
	editing, _ := ctrl.State().(view.Editing)

	e, err := ctrl.Submit()
	if err != nil {
		h.serverError(w, "save event", err)
		return
	}

	switch {
	case e != nil:
		action := view.ActionUpdated
		if editing.Creating() {
			action = view.ActionCreated
		}
		redirect(w, r, e.Date, string(action))
	case ctrl.DialogOpen():
		n, _ := rec.Last()
		h.render(w, http.StatusUnprocessableEntity, ctrl, &n)
	default:
		redirect(w, r, ctrl.Selected(), noticeMissing)
	}
}

func formFrom(r *http.Request) view.Form {
	f := view.Form{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Time:        r.PostForm.Get("time"),
	}
	if s := r.PostForm.Get("color"); s != "" {
		c, err := model.ParseColor(s)
		if err != nil {
			// Rejected by validation with a color field error.
			c = model.Color(-1)
		}
		f.Color = c
	}
	return f
}

func redirect(w http.ResponseWriter, r *http.Request, month calendar.Date, notice string) {
	v := url.Values{}
	v.Set("month", month.MonthKey())
	v.Set("notice", notice)
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

func missingNotice() *view.Notice {
	return &view.Notice{Level: view.LevelError, Action: view.ActionRejected, Message: "That event no longer exists"}
}

func redirectNotice(s string) *view.Notice {
	switch a := view.Action(s); a {
	case view.ActionCreated, view.ActionUpdated, view.ActionDeleted:
		return &view.Notice{Level: view.LevelSuccess, Action: a, Message: a.Message()}
	case noticeMissing:
		return missingNotice()
	}
	return nil
}

func (h *TemplateHandler) render(w http.ResponseWriter, status int, ctrl *view.Controller, notice *view.Notice) {
	grid, err := ctrl.Grid(h.today())
	if err != nil {
		h.serverError(w, "build month", err)
		return
	}
	sums, err := ctrl.Summaries()
	if err != nil {
		h.serverError(w, "summaries", err)
		return
	}

	month := ctrl.Month()
	data := pageData{
		Title:      fmt.Sprintf("%s · Event Calendar", month.Format("January 2006")),
		MonthLabel: month.Format("January 2006"),
		PrevMonth:  calendar.PrevMonth(month).MonthKey(),
		NextMonth:  calendar.NextMonth(month).MonthKey(),
		Weekdays:   calendar.Weekdays,
		Grid:       grid,
		Summaries:  sums,
		Palette:    model.Palette,
		Notice:     notice,
	}
	if ed, ok := ctrl.State().(view.Editing); ok {
		errs := make(map[string]string)
		for _, fe := range ctrl.FieldErrors() {
			errs[fe.Field] = fe.Message
		}
		data.Dialog = &dialogData{
			Creating: ed.Creating(),
			EventID:  ed.EventID,
			Date:     ctrl.Selected(),
			Form:     ctrl.Form(),
			Errors:   errs,
		}
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "page", data); err != nil {
		h.serverError(w, "template error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *TemplateHandler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
