package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/dukerupert/monthly/internal/view"
	"github.com/google/uuid"
)

func setupPages(t *testing.T) (*http.ServeMux, *store.MemoryEventStore, *view.Recorder) {
	t.Helper()
	s := store.NewMemoryEventStore()
	rec := &view.Recorder{}
	h := NewTemplateHandler(s, rec, time.UTC, discardLogger())
	h.now = func() time.Time { return fixedNow }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", h.Page)
	mux.HandleFunc("POST /events", h.Create)
	mux.HandleFunc("POST /events/{id}", h.Update)
	mux.HandleFunc("POST /events/{id}/delete", h.Delete)
	return mux, s, rec
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func TestPageShowsCurrentMonth(t *testing.T) {
	mux, s, _ := setupPages(t)
	seedEvent(t, s, "Standup", may3, model.Blue)

	rr := get(t, mux, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body, "May 2024", "Standup", "?month=2024-04", "?month=2024-06", "Blue events (1)")
	if strings.Contains(body, "<dialog") {
		t.Error("dialog should be closed")
	}
}

func TestPageUnknownPath(t *testing.T) {
	mux, _, _ := setupPages(t)
	if rr := get(t, mux, "/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestPageMonthParam(t *testing.T) {
	mux, _, _ := setupPages(t)
	assertContains(t, get(t, mux, "/?month=2023-12").Body.String(), "December 2023")
}

func TestPageDayOpensCreateDialog(t *testing.T) {
	mux, _, _ := setupPages(t)

	body := get(t, mux, "/?day=2024-05-03").Body.String()
	assertContains(t, body, "Create event", "3 May 2024", `action="/events"`, `value="2024-05-03"`)
}

func TestPageEventOpensEditDialog(t *testing.T) {
	mux, s, _ := setupPages(t)
	e := seedEvent(t, s, "Dentist", may3.AddDays(40), model.Orange)

	body := get(t, mux, "/?event="+e.ID.String()).Body.String()
	assertContains(t, body, "Edit event", "June 2024", `value="Dentist"`, "/events/"+e.ID.String()+"/delete")

	body = get(t, mux, "/?event="+uuid.NewString()).Body.String()
	assertContains(t, body, "That event no longer exists")
}

func TestPageEscapesTitles(t *testing.T) {
	mux, s, _ := setupPages(t)
	seedEvent(t, s, "<script>alert(1)</script>", may3, model.Violet)

	body := get(t, mux, "/").Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("title was not escaped")
	}
}

func TestCreateViaForm(t *testing.T) {
	mux, s, rec := setupPages(t)

	rr := postForm(t, mux, "/events", url.Values{
		"date":  {"2024-05-03"},
		"title": {"Standup"},
		"time":  {"09:00"},
		"color": {"blue"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if loc := rr.Header().Get("Location"); loc != "/?month=2024-05&notice=created" {
		t.Errorf("location = %q", loc)
	}

	day, _ := s.ListByDay(may3)
	if len(day) != 1 || day[0].Color != model.Blue {
		t.Errorf("day events = %+v", day)
	}
	if n, _ := rec.Last(); n.Action != view.ActionCreated {
		t.Errorf("notice = %+v", n)
	}

	assertContains(t, get(t, mux, "/?month=2024-05&notice=created").Body.String(), "Event created")
}

func TestCreateViaFormRejected(t *testing.T) {
	mux, s, _ := setupPages(t)

	rr := postForm(t, mux, "/events", url.Values{
		"date":        {"2024-05-03"},
		"title":       {""},
		"time":        {"09:00"},
		"description": {"kept"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	assertContains(t, rr.Body.String(), "Create event", "title is required", ">kept</textarea>")

	if all, _ := s.List(); len(all) != 0 {
		t.Errorf("store has %d events, want 0", len(all))
	}
}

func TestCreateViaFormBadDate(t *testing.T) {
	mux, _, _ := setupPages(t)

	rr := postForm(t, mux, "/events", url.Values{"date": {"soon"}, "title": {"x"}, "time": {"09:00"}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUpdateViaForm(t *testing.T) {
	mux, s, _ := setupPages(t)
	e := seedEvent(t, s, "Dentist", may3, model.Orange)

	rr := postForm(t, mux, "/events/"+e.ID.String(), url.Values{
		"date":  {"2024-06-01"},
		"title": {"Dentist"},
		"time":  {"11:15"},
		"color": {"orange"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if loc := rr.Header().Get("Location"); loc != "/?month=2024-06&notice=updated" {
		t.Errorf("location = %q", loc)
	}

	got, _ := s.GetByID(e.ID)
	if got.Date.String() != "2024-06-01" || got.Time != "11:15" {
		t.Errorf("event = %+v", got)
	}
}

func TestUpdateViaFormUnknownEvent(t *testing.T) {
	mux, s, _ := setupPages(t)

	rr := postForm(t, mux, "/events/"+uuid.NewString(), url.Values{"title": {"Ghost"}, "time": {"09:00"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "notice=missing") {
		t.Errorf("location = %q", loc)
	}
	if all, _ := s.List(); len(all) != 0 {
		t.Errorf("store has %d events, want 0", len(all))
	}
}

func TestUpdateViaFormBadColor(t *testing.T) {
	mux, s, _ := setupPages(t)
	e := seedEvent(t, s, "Dentist", may3, model.Orange)

	rr := postForm(t, mux, "/events/"+e.ID.String(), url.Values{"title": {"Dentist"}, "time": {"09:00"}, "color": {"teal"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if got, _ := s.GetByID(e.ID); got.Color != model.Orange {
		t.Errorf("color = %s, want unchanged orange", got.Color)
	}
}

func TestDeleteViaForm(t *testing.T) {
	mux, s, rec := setupPages(t)
	e := seedEvent(t, s, "Dentist", may3, model.Orange)

	rr := postForm(t, mux, "/events/"+e.ID.String()+"/delete", nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/?month=2024-05&notice=deleted" {
		t.Errorf("location = %q", loc)
	}
	if all, _ := s.List(); len(all) != 0 {
		t.Errorf("store has %d events, want 0", len(all))
	}
	if n, _ := rec.Last(); n.Action != view.ActionDeleted {
		t.Errorf("notice = %+v", n)
	}
}
