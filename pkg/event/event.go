package event

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument marks malformed or out-of-domain caller input: an end
// before a start, an unknown enum literal, a bad recurrence definition.
// Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Occurrence is one concrete event instance. It is an immutable value:
// every With* transform returns a new Occurrence and leaves the receiver
// untouched. Start and end are wall-clock times without a zone attached;
// the owning calendar decides which zone they are read in.
type Occurrence struct {
	subject     string
	start       time.Time
	end         time.Time
	description string
	location    Location
	status      Status
}

// Default span for an occurrence created from a bare date.
const (
	allDayStartHour = 8
	allDayEndHour   = 17
)

// New constructs an Occurrence with the given subject and times.
func New(subject string, start, end time.Time) (Occurrence, error) {
	if end.Before(start) {
		return Occurrence{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidArgument, end.Format(TimeLayout), start.Format(TimeLayout))
	}
	return Occurrence{subject: subject, start: start, end: end}, nil
}

// NewAllDay constructs an Occurrence spanning the working day (08:00-17:00)
// of the given date.
func NewAllDay(subject string, date time.Time) Occurrence {
	y, m, d := date.Date()
	return Occurrence{
		subject: subject,
		start:   time.Date(y, m, d, allDayStartHour, 0, 0, 0, time.UTC),
		end:     time.Date(y, m, d, allDayEndHour, 0, 0, 0, time.UTC),
	}
}

func (o Occurrence) Subject() string     { return o.subject }
func (o Occurrence) Start() time.Time    { return o.start }
func (o Occurrence) End() time.Time      { return o.end }
func (o Occurrence) Description() string { return o.description }
func (o Occurrence) Location() Location  { return o.location }
func (o Occurrence) Status() Status      { return o.status }

// Equal reports identity: subject, start and end match exactly. Description,
// location and status are deliberately excluded; this is also the conflict
// relation used by the calendar store.
func (o Occurrence) Equal(other Occurrence) bool {
	return o.subject == other.subject && o.start.Equal(other.start) && o.end.Equal(other.end)
}

// WithSubject returns a copy with a new subject.
func (o Occurrence) WithSubject(subject string) Occurrence {
	o.subject = subject
	return o
}

// WithStart returns a copy shifted to the new start; the end moves by the
// same delta so the duration is preserved.
func (o Occurrence) WithStart(start time.Time) Occurrence {
	delta := start.Sub(o.start)
	o.start = start
	o.end = o.end.Add(delta)
	return o
}

// WithEnd returns a copy with a new end, keeping the start unchanged.
func (o Occurrence) WithEnd(end time.Time) (Occurrence, error) {
	if end.Before(o.start) {
		return Occurrence{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidArgument, end.Format(TimeLayout), o.start.Format(TimeLayout))
	}
	o.end = end
	return o, nil
}

// WithTimes returns a copy with both times replaced.
func (o Occurrence) WithTimes(start, end time.Time) (Occurrence, error) {
	if end.Before(start) {
		return Occurrence{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidArgument, end.Format(TimeLayout), start.Format(TimeLayout))
	}
	o.start = start
	o.end = end
	return o, nil
}

// WithDescription returns a copy with a new description.
func (o Occurrence) WithDescription(description string) Occurrence {
	o.description = description
	return o
}

// WithLocation returns a copy with a new location.
func (o Occurrence) WithLocation(location Location) Occurrence {
	o.location = location
	return o
}

// WithStatus returns a copy with a new status.
func (o Occurrence) WithStatus(status Status) Occurrence {
	o.status = status
	return o
}

// ConvertZone rewrites the wall-clock times as if the occurrence moved from
// one zone to another while keeping the same absolute instants.
func (o Occurrence) ConvertZone(from, to *time.Location) Occurrence {
	o.start = convertWall(o.start, from, to)
	o.end = convertWall(o.end, from, to)
	return o
}

// ContainsInstant reports whether t falls strictly inside the occurrence's
// open (start, end) interval.
func (o Occurrence) ContainsInstant(t time.Time) bool {
	return o.start.Before(t) && o.end.After(t)
}

// Occurrences implements Event for a single occurrence.
func (o Occurrence) Occurrences() []Occurrence { return []Occurrence{o} }

// ConvertZoneEvent implements Event.
func (o Occurrence) ConvertZoneEvent(from, to *time.Location) Event {
	return o.ConvertZone(from, to)
}

func (o Occurrence) isEvent() {}

func (o Occurrence) String() string {
	return fmt.Sprintf("[Subject: %s, Start: %s, End: %s]", o.subject, o.start.Format(TimeLayout), o.end.Format(TimeLayout))
}

// TimeLayout is the ISO-8601 local date-time layout used at every boundary
// of the core.
const TimeLayout = "2006-01-02T15:04:05"

// DateLayout is the ISO-8601 local date layout.
const DateLayout = "2006-01-02"

// convertWall re-reads a wall-clock time in the from zone and expresses the
// same instant as a wall-clock time in the to zone. The result is carried in
// UTC again, since occurrence times are zone-less by convention.
func convertWall(t time.Time, from, to *time.Location) time.Time {
	zoned := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	converted := zoned.In(to)
	return time.Date(converted.Year(), converted.Month(), converted.Day(),
		converted.Hour(), converted.Minute(), converted.Second(), converted.Nanosecond(), time.UTC)
}

// SameDate reports whether two times fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOf truncates a time to midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Event is a top-level calendar entry: either a single Occurrence or a
// *Series. The interface is sealed so no other implementation can exist.
type Event interface {
	Subject() string
	Start() time.Time
	End() time.Time
	Occurrences() []Occurrence
	ConvertZoneEvent(from, to *time.Location) Event

	isEvent()
}
