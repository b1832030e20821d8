// Package view holds the state of a month page: which month is shown, which
// day is selected, and whether the event dialog is open.
package view

import (
	"errors"
	"fmt"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/google/uuid"
)

// State is either Browsing or Editing.
type State interface {
	isState()
}

// Browsing means the dialog is closed.
type Browsing struct{}

// Editing means the dialog is open. A nil EventID creates a new event on the
// selected day; otherwise the dialog edits that event.
type Editing struct {
	EventID uuid.UUID
}

func (Browsing) isState() {}
func (Editing) isState()  {}

// Creating reports whether the dialog will create a new event.
func (e Editing) Creating() bool { return e.EventID == uuid.Nil }

// Form is the in-progress dialog content.
type Form struct {
	Title       string
	Description string
	Time        string
	Color       model.Color
}

// Input combines the form with the day it is anchored to.
func (f Form) Input(day calendar.Date) model.EventInput {
	return model.EventInput{
		Title:       f.Title,
		Description: f.Description,
		Date:        day,
		Time:        f.Time,
		Color:       f.Color,
	}
}

// Controller owns the view state for a single viewer. It is not safe for
// concurrent use.
type Controller struct {
	store    store.Store
	notifier Notifier

	month    calendar.Date
	selected calendar.Date
	state    State
	form     Form
	errs     []model.FieldError
}

// New returns a browsing controller showing the month that contains today.
func New(s store.Store, n Notifier, today calendar.Date) *Controller {
	if n == nil {
		n = Discard
	}
	return &Controller{
		store:    s,
		notifier: n,
		month:    today.FirstOfMonth(),
		state:    Browsing{},
	}
}

func (c *Controller) State() State                    { return c.state }
func (c *Controller) Form() Form                      { return c.form }
func (c *Controller) Selected() calendar.Date         { return c.selected }
func (c *Controller) Month() calendar.Date            { return c.month }
func (c *Controller) FieldErrors() []model.FieldError { return c.errs }

// DialogOpen reports whether the controller is in the Editing state.
func (c *Controller) DialogOpen() bool {
	_, ok := c.state.(Editing)
	return ok
}

// PrevMonth shows the previous month.
func (c *Controller) PrevMonth() { c.month = calendar.PrevMonth(c.month) }

// NextMonth shows the next month.
func (c *Controller) NextMonth() { c.month = calendar.NextMonth(c.month) }

// GoToMonth shows the month containing d.
func (c *Controller) GoToMonth(d calendar.Date) { c.month = d.FirstOfMonth() }

// ClickDay opens the dialog to create an event on day.
func (c *Controller) ClickDay(day calendar.Date) {
	c.selected = day
	c.form = Form{Color: model.Palette[0].Color}
	c.errs = nil
	c.state = Editing{}
}

// ClickEvent opens the dialog to edit the event with id. It reports false and
// stays put when no such event exists.
func (c *Controller) ClickEvent(id uuid.UUID) (bool, error) {
	e, err := c.store.GetByID(id)
	if err != nil {
		return false, fmt.Errorf("load event: %w", err)
	}
	if e == nil {
		return false, nil
	}

	c.selected = e.Date
	c.form = Form{
		Title:       e.Title,
		Description: e.Description,
		Time:        e.Time,
		Color:       e.Color,
	}
	c.errs = nil
	c.state = Editing{EventID: e.ID}
	return true, nil
}

// SetForm replaces the dialog content. It has no effect while browsing.
func (c *Controller) SetForm(f Form) {
	if c.DialogOpen() {
		c.form = f
	}
}

// SetDate moves the selected day of an open dialog.
func (c *Controller) SetDate(day calendar.Date) {
	if c.DialogOpen() {
		c.selected = day
	}
}

// Submit saves the dialog. A validation failure keeps the dialog open and
// reports the error through the notifier; it is not returned. The returned
// error is reserved for store failures.
func (c *Controller) Submit() (*model.Event, error) {
	ed, ok := c.state.(Editing)
	if !ok {
		return nil, nil
	}

	in := c.form.Input(c.selected)

	var (
		e      *model.Event
		err    error
		action = ActionCreated
	)
	if ed.Creating() {
		e, err = c.store.Create(in)
	} else {
		action = ActionUpdated
		e, err = c.store.Update(ed.EventID, in)
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		c.errs = ve.Fields
		c.notifier.Notify(Notice{Level: LevelError, Action: ActionRejected, Message: ve.Error(), Date: c.selected})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if e == nil {
		// Edited event was removed underneath the dialog.
		c.close()
		c.notifier.Notify(Notice{Level: LevelError, Action: ActionRejected, Message: "event no longer exists", EventID: ed.EventID})
		return nil, nil
	}

	c.close()
	c.notifier.Notify(Notice{Level: LevelSuccess, Action: action, Message: action.Message(), EventID: e.ID, Date: e.Date})
	return e, nil
}

// Delete removes the event being edited. It is a no-op unless the dialog is
// editing an existing event.
func (c *Controller) Delete() error {
	ed, ok := c.state.(Editing)
	if !ok || ed.Creating() {
		return nil
	}

	if err := c.store.Delete(ed.EventID); err != nil {
		return err
	}

	day := c.selected
	c.close()
	c.notifier.Notify(Notice{Level: LevelSuccess, Action: ActionDeleted, Message: ActionDeleted.Message(), EventID: ed.EventID, Date: day})
	return nil
}

// Cancel closes the dialog without saving.
func (c *Controller) Cancel() { c.close() }

func (c *Controller) close() {
	c.state = Browsing{}
	c.form = Form{Color: model.Palette[0].Color}
	c.errs = nil
}
