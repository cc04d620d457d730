package calendar

import (
	"fmt"
	"time"

	"github.com/multical/multical/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Scope is the breadth of a multi-event edit: "series" touches every member
// uniformly, "events" touches the identified occurrence and everything
// chronologically after it.
type Scope string

const (
	ScopeSeries       Scope = "series"
	ScopeThisAndLater Scope = "events"
)

// ParseScope reads an edit scope literal.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSeries, ScopeThisAndLater:
		return Scope(s), nil
	}
	return "", fmt.Errorf("%w: scope must be 'series' or 'events', got %q", event.ErrInvalidArgument, s)
}

// Editable property names accepted by EditEvent and EditEvents.
const (
	PropSubject     = "subject"
	PropStart       = "start"
	PropEnd         = "end"
	PropDescription = "description"
	PropLocation    = "location"
	PropStatus      = "status"
)

// EditEvent edits the one occurrence identified exactly by (subject, start,
// end). A member of a series stays merged for subject, description, location,
// status, same-date start changes and same-day end changes; a start or end
// moved to a different calendar day detaches the occurrence from its series.
// The edit is atomic: on any conflict the calendar is left unchanged.
func (c *Calendar) EditEvent(property, subject string, start, end time.Time, newValue string) error {
	occ, err := c.FindOccurrence(subject, start, end)
	if err != nil {
		return err
	}
	series, inSeries := c.SeriesContaining(occ)

	var replacements []event.Event
	switch property {
	case PropSubject:
		replacements, err = c.replaceMember(occ, series, occ.WithSubject(newValue))
	case PropDescription:
		replacements, err = c.replaceMember(occ, series, occ.WithDescription(newValue))
	case PropLocation:
		location, perr := event.ParseLocation(newValue)
		if perr != nil {
			return perr
		}
		replacements, err = c.replaceMember(occ, series, occ.WithLocation(location))
	case PropStatus:
		status, perr := event.ParseStatus(newValue)
		if perr != nil {
			return perr
		}
		replacements, err = c.replaceMember(occ, series, occ.WithStatus(status))
	case PropStart:
		newStart, perr := ParseDateTime(newValue)
		if perr != nil {
			return perr
		}
		moved := occ.WithStart(newStart)
		if !inSeries || event.SameDate(newStart, occ.Start()) {
			// A time-of-day change keeps the occurrence in its series.
			replacements, err = c.replaceMember(occ, series, moved)
		} else {
			log.Debugf("detaching %q from its series: start moved to %s", occ.Subject(), newStart.Format(event.DateLayout))
			replacements, err = detach(occ, series, moved)
		}
	case PropEnd:
		newEnd, perr := ParseDateTime(newValue)
		if perr != nil {
			return perr
		}
		moved, werr := occ.WithEnd(newEnd)
		if werr != nil {
			return werr
		}
		if !inSeries || event.SameDate(newEnd, occ.End()) {
			replacements, err = c.replaceMember(occ, series, moved)
		} else {
			log.Debugf("detaching %q from its series: end moved to %s", occ.Subject(), newEnd.Format(event.DateLayout))
			replacements, err = detach(occ, series, moved)
		}
	default:
		return fmt.Errorf("%w: unsupported property %q", event.ErrInvalidArgument, property)
	}
	if err != nil {
		return err
	}

	if inSeries {
		return c.replace(series, replacements)
	}
	return c.replace(occ, replacements)
}

// EditEvents edits a group of occurrences identified by (subject, start):
// the whole series for ScopeSeries, the identified occurrence and all later
// members for ScopeThisAndLater. A lone occurrence is treated as a series of
// one. The edit is atomic.
func (c *Calendar) EditEvents(property, subject string, start time.Time, scope Scope, newValue string) error {
	matched := c.OccurrencesWithStart(subject, start)
	if len(matched) == 0 {
		return fmt.Errorf("%w: no matching events found", event.ErrInvalidArgument)
	}
	if len(matched) > 1 {
		return fmt.Errorf("%w: multiple matching events found, cannot edit", event.ErrInvalidArgument)
	}
	occ := matched[0]
	series, inSeries := c.SeriesContaining(occ)

	if !inSeries {
		replacement, err := editLone(property, occ, newValue)
		if err != nil {
			return err
		}
		return c.replace(occ, []event.Event{replacement})
	}

	var replacements []event.Event
	var err error
	if scope == ScopeSeries {
		replacements, err = editWholeSeries(property, occ, series, newValue)
	} else {
		replacements, err = editThisAndLater(property, occ, series, newValue)
	}
	if err != nil {
		return err
	}
	return c.replace(series, replacements)
}

// replaceMember rebuilds the series with the one member swapped for its
// updated form, or returns the updated occurrence alone when there is no
// series.
func (c *Calendar) replaceMember(original event.Occurrence, series *event.Series, updated event.Occurrence) ([]event.Event, error) {
	if series == nil {
		return []event.Event{updated}, nil
	}
	members := series.Occurrences()
	for i, member := range members {
		if member.Equal(original) {
			members[i] = updated
			break
		}
	}
	rebuilt, err := event.FromOccurrences(members, series.Weekdays())
	if err != nil {
		return nil, err
	}
	return []event.Event{rebuilt}, nil
}

// detach removes the original from its series and re-inserts the moved form
// standalone. The remaining members stay together as a shorter series, if
// any remain.
func detach(original event.Occurrence, series *event.Series, moved event.Occurrence) ([]event.Event, error) {
	remaining := withoutMember(series.Occurrences(), original)
	replacements := []event.Event{moved}
	if len(remaining) > 0 {
		rest, err := event.FromOccurrences(remaining, series.Weekdays())
		if err != nil {
			return nil, err
		}
		replacements = append(replacements, rest)
	}
	return replacements, nil
}

func editLone(property string, occ event.Occurrence, newValue string) (event.Event, error) {
	switch property {
	case PropSubject:
		return occ.WithSubject(newValue), nil
	case PropDescription:
		return occ.WithDescription(newValue), nil
	case PropLocation:
		location, err := event.ParseLocation(newValue)
		if err != nil {
			return nil, err
		}
		return occ.WithLocation(location), nil
	case PropStatus:
		status, err := event.ParseStatus(newValue)
		if err != nil {
			return nil, err
		}
		return occ.WithStatus(status), nil
	case PropStart:
		newStart, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		return occ.WithStart(newStart), nil
	case PropEnd:
		newEnd, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		return occ.WithEnd(newEnd)
	}
	return nil, fmt.Errorf("%w: unsupported property %q", event.ErrInvalidArgument, property)
}

func editWholeSeries(property string, occ event.Occurrence, series *event.Series, newValue string) ([]event.Event, error) {
	members := series.Occurrences()
	switch property {
	case PropSubject, PropDescription, PropLocation, PropStatus:
		transform, err := metadataTransform(property, newValue)
		if err != nil {
			return nil, err
		}
		for i, member := range members {
			members[i] = transform(member)
		}
	case PropStart:
		newStart, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		if !event.SameDate(newStart, occ.Start()) {
			return nil, fmt.Errorf("%w: cannot move a series start to a different day, use the 'events' scope instead", event.ErrInvalidArgument)
		}
		// Every member keeps its own date and takes the new time of day.
		for i, member := range members {
			members[i] = member.WithStart(atClock(member.Start(), newStart))
		}
	case PropEnd:
		newEnd, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		if !event.SameDate(newEnd, occ.Start()) {
			return nil, fmt.Errorf("%w: cannot move a series end to a different day", event.ErrInvalidArgument)
		}
		for i, member := range members {
			updated, werr := member.WithEnd(atClock(member.End(), newEnd))
			if werr != nil {
				return nil, werr
			}
			members[i] = updated
		}
	default:
		return nil, fmt.Errorf("%w: unsupported property %q", event.ErrInvalidArgument, property)
	}
	rebuilt, err := event.FromOccurrences(members, series.Weekdays())
	if err != nil {
		return nil, err
	}
	return []event.Event{rebuilt}, nil
}

func editThisAndLater(property string, occ event.Occurrence, series *event.Series, newValue string) ([]event.Event, error) {
	members := series.Occurrences()
	switch property {
	case PropSubject, PropDescription, PropLocation, PropStatus:
		transform, err := metadataTransform(property, newValue)
		if err != nil {
			return nil, err
		}
		for i, member := range members {
			if !member.Start().Before(occ.Start()) {
				members[i] = transform(member)
			}
		}
		rebuilt, rerr := event.FromOccurrences(members, series.Weekdays())
		if rerr != nil {
			return nil, rerr
		}
		return []event.Event{rebuilt}, nil
	case PropStart:
		newStart, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		if event.SameDate(newStart, occ.Start()) {
			return splitShifted(occ, series, newStart.Sub(occ.Start()))
		}
		return splitRedated(occ, series, newStart)
	case PropEnd:
		newEnd, err := ParseDateTime(newValue)
		if err != nil {
			return nil, err
		}
		if !event.SameDate(newEnd, occ.Start()) {
			return nil, fmt.Errorf("%w: end must stay on the same day as the event's start", event.ErrInvalidArgument)
		}
		for i, member := range members {
			if member.Start().Before(occ.Start()) {
				continue
			}
			updated, werr := member.WithEnd(atClock(member.End(), newEnd))
			if werr != nil {
				return nil, werr
			}
			members[i] = updated
		}
		rebuilt, rerr := event.FromOccurrences(members, series.Weekdays())
		if rerr != nil {
			return nil, rerr
		}
		return []event.Event{rebuilt}, nil
	}
	return nil, fmt.Errorf("%w: unsupported property %q", event.ErrInvalidArgument, property)
}

// splitShifted handles a same-day start change for the "events" scope: the
// series splits into the untouched earlier members and a second series of
// the affected members, each shifted by the same time-of-day delta.
func splitShifted(occ event.Occurrence, series *event.Series, delta time.Duration) ([]event.Event, error) {
	var earlier, affected []event.Occurrence
	for _, member := range series.Occurrences() {
		if member.Start().Before(occ.Start()) {
			earlier = append(earlier, member)
		} else {
			affected = append(affected, member.WithStart(member.Start().Add(delta)))
		}
	}
	return assembleSplit(earlier, affected, series.Weekdays())
}

// splitRedated handles a different-day start change for the "events" scope.
// The requested date is advanced to the series' weekday pattern; the
// identified occurrence moves there and each later member walks forward to
// the next pattern-matching date after its predecessor, keeping the new time
// of day. Earlier members that precede the adjusted date stay behind as
// their own series.
func splitRedated(occ event.Occurrence, series *event.Series, newStart time.Time) ([]event.Event, error) {
	adjusted := series.NextOnPattern(newStart)
	duration := occ.End().Sub(occ.Start())

	var earlier []event.Occurrence
	var later []event.Occurrence
	for _, member := range series.Occurrences() {
		switch {
		case member.Start().Before(occ.Start()):
			if member.Start().Before(adjusted) {
				earlier = append(earlier, member)
			}
		case !member.Equal(occ):
			later = append(later, member)
		}
	}

	head, err := occ.WithTimes(adjusted, adjusted.Add(duration))
	if err != nil {
		return nil, err
	}
	redated := []event.Occurrence{head}
	cursor := event.DateOf(adjusted).AddDate(0, 0, 1)
	for _, member := range later {
		nextDate := series.NextOnPattern(cursor)
		nextStart := atClock(nextDate, newStart)
		moved, werr := member.WithTimes(nextStart, nextStart.Add(duration))
		if werr != nil {
			return nil, werr
		}
		redated = append(redated, moved)
		cursor = nextDate.AddDate(0, 0, 1)
	}

	return assembleSplit(earlier, redated, series.Weekdays())
}

func assembleSplit(earlier, affected []event.Occurrence, weekdays []time.Weekday) ([]event.Event, error) {
	replacements := make([]event.Event, 0, 2)
	if len(earlier) > 0 {
		before, err := event.FromOccurrences(earlier, weekdays)
		if err != nil {
			return nil, err
		}
		replacements = append(replacements, before)
	}
	after, err := event.FromOccurrences(affected, weekdays)
	if err != nil {
		return nil, err
	}
	return append(replacements, after), nil
}

func metadataTransform(property, newValue string) (func(event.Occurrence) event.Occurrence, error) {
	switch property {
	case PropSubject:
		return func(o event.Occurrence) event.Occurrence { return o.WithSubject(newValue) }, nil
	case PropDescription:
		return func(o event.Occurrence) event.Occurrence { return o.WithDescription(newValue) }, nil
	case PropLocation:
		location, err := event.ParseLocation(newValue)
		if err != nil {
			return nil, err
		}
		return func(o event.Occurrence) event.Occurrence { return o.WithLocation(location) }, nil
	case PropStatus:
		status, err := event.ParseStatus(newValue)
		if err != nil {
			return nil, err
		}
		return func(o event.Occurrence) event.Occurrence { return o.WithStatus(status) }, nil
	}
	return nil, fmt.Errorf("%w: unsupported property %q", event.ErrInvalidArgument, property)
}

func withoutMember(members []event.Occurrence, target event.Occurrence) []event.Occurrence {
	out := members[:0]
	for _, member := range members {
		if !member.Equal(target) {
			out = append(out, member)
		}
	}
	return out
}

// atClock combines a date with another time's clock.
func atClock(date, clock time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
}

// ParseDateTime reads an ISO-8601 local date-time, with or without seconds.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range []string{event.TimeLayout, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date-time %q", event.ErrInvalidArgument, value)
}

// ParseDate reads an ISO-8601 local date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(event.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse date %q", event.ErrInvalidArgument, value)
	}
	return t, nil
}
