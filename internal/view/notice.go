package view

import (
	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/google/uuid"
)

// Level classifies a notice for display.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Action names the outcome a notice reports.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionRejected Action = "rejected"
)

// Message is the user-facing confirmation for an action.
func (a Action) Message() string {
	switch a {
	case ActionCreated:
		return "Event created"
	case ActionUpdated:
		return "Event updated"
	case ActionDeleted:
		return "Event deleted"
	default:
		return "Please fill in the title and time"
	}
}

// Notice is a user-visible confirmation or rejection.
type Notice struct {
	Level   Level
	Action  Action
	Message string
	EventID uuid.UUID
	Date    calendar.Date
}

// Notifier receives notices as they happen.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// Multi fans a notice out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return NotifierFunc(func(n Notice) {
		for _, x := range ns {
			x.Notify(n)
		}
	})
}

// Recorder keeps the notices it receives, newest last.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) { r.Notices = append(r.Notices, n) }

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}
