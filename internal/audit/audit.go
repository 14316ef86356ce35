// Package audit is the append-only event sink of the clinic. Recording
// never fails from the caller's point of view: sinks swallow write errors.
package audit

import (
	"context"
	"time"
)

// Event kinds.
const (
	EventLoginSuccess  = "login_success"
	EventLoginFailure  = "login_failure"
	EventAddPatient    = "add_patient"
	EventAddDoctor     = "add_doctor"
	EventAddUser       = "add_user"
	EventResetPassword = "reset_password"
	EventSchedule      = "schedule"
	EventCancel        = "cancel"
	EventComplete      = "complete"
	EventReschedule    = "reschedule"
	EventDelete        = "delete"
	EventUpdatePhone   = "update_phone"
)

// TimestampLayout is ISO-8601 with microseconds, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Entry is one audit line.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Actor     string `json:"actor"`
	Details   string `json:"details"`
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, event, actor, details string)
}

// clock is replaced in tests.
var clock = time.Now

func newEntry(event, actor, details string) Entry {
	return Entry{
		Timestamp: clock().UTC().Format(TimestampLayout),
		Event:     event,
		Actor:     actor,
		Details:   details,
	}
}

// Nop drops every entry.
type Nop struct{}

func (Nop) Record(context.Context, string, string, string) {}
