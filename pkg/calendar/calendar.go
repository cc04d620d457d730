package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/multical/multical/pkg/event"
)

// ErrNotFound marks a lookup for a calendar, occurrence or series that does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict marks an insertion whose occurrence identity (subject, start,
// end) is already present. A conflict is a kind of invalid argument, so
// errors.Is matches both sentinels.
var ErrConflict = fmt.Errorf("%w: event conflict", event.ErrInvalidArgument)

// Calendar owns a set of top-level events (single occurrences or series)
// bound to an IANA timezone. The zero value is not usable; construct with
// New. Calendars are not safe for concurrent use; the registry serializes
// access.
type Calendar struct {
	id     uuid.UUID
	zone   *time.Location
	zoneID string
	events []event.Event
	index  map[identity]struct{}
}

// identity is the value-equality conflict key of one occurrence.
type identity struct {
	subject    string
	start, end int64
}

func identityOf(o event.Occurrence) identity {
	return identity{subject: o.Subject(), start: o.Start().UnixNano(), end: o.End().UnixNano()}
}

// New constructs an empty calendar in the given IANA timezone.
func New(zoneID string) (*Calendar, error) {
	zone, err := time.LoadLocation(zoneID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q", event.ErrInvalidArgument, zoneID)
	}
	return &Calendar{
		id:     uuid.New(),
		zone:   zone,
		zoneID: zoneID,
		index:  make(map[identity]struct{}),
	}, nil
}

// ID identifies the calendar across renames and zone replacements.
func (c *Calendar) ID() uuid.UUID { return c.id }

// Zone is the calendar's location.
func (c *Calendar) Zone() *time.Location { return c.zone }

// ZoneID is the calendar's IANA zone name.
func (c *Calendar) ZoneID() string { return c.zoneID }

// Add inserts a top-level event. Every occurrence the event contains must be
// conflict-free against the calendar; a series is inserted all-or-nothing.
func (c *Calendar) Add(ev event.Event) error {
	for _, o := range ev.Occurrences() {
		if _, taken := c.index[identityOf(o)]; taken {
			return fmt.Errorf("%w: %s", ErrConflict, o)
		}
	}
	c.commit(ev)
	return nil
}

// AddAll inserts a batch of events atomically: if any contained occurrence
// conflicts with the calendar, or the batch itself holds duplicate
// identities, nothing is inserted.
func (c *Calendar) AddAll(events []event.Event) error {
	staged := make(map[identity]struct{}, len(events))
	for _, ev := range events {
		for _, o := range ev.Occurrences() {
			key := identityOf(o)
			if _, taken := c.index[key]; taken {
				return fmt.Errorf("%w: %s", ErrConflict, o)
			}
			if _, dup := staged[key]; dup {
				return fmt.Errorf("%w: duplicate in batch: %s", ErrConflict, o)
			}
			staged[key] = struct{}{}
		}
	}
	for _, ev := range events {
		c.commit(ev)
	}
	return nil
}

func (c *Calendar) commit(ev event.Event) {
	c.events = append(c.events, ev)
	for _, o := range ev.Occurrences() {
		c.index[identityOf(o)] = struct{}{}
	}
}

// TieBreaker orders two occurrences that share both start time and subject.
type TieBreaker func(a, b event.Occurrence) int

// Query expands every event into its occurrences and returns those fully
// contained in [start, end], ordered by start time ascending with ties broken
// lexicographically by subject, then by the optional tie breakers in order.
func (c *Calendar) Query(start, end time.Time, tieBreakers ...TieBreaker) ([]event.Occurrence, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: query end is before its start", event.ErrInvalidArgument)
	}
	matched := make([]event.Occurrence, 0)
	for _, ev := range c.events {
		for _, o := range ev.Occurrences() {
			if !o.Start().Before(start) && !o.End().After(end) {
				matched = append(matched, o)
			}
		}
	}
	slices.SortStableFunc(matched, func(a, b event.Occurrence) int {
		if cmp := a.Start().Compare(b.Start()); cmp != 0 {
			return cmp
		}
		if cmp := strings.Compare(a.Subject(), b.Subject()); cmp != 0 {
			return cmp
		}
		for _, tb := range tieBreakers {
			if cmp := tb(a, b); cmp != 0 {
				return cmp
			}
		}
		return 0
	})
	return matched, nil
}

// FindOccurrence looks up the occurrence with the exact identity (subject,
// start, end), searching series members as well as standalone events.
func (c *Calendar) FindOccurrence(subject string, start, end time.Time) (event.Occurrence, error) {
	for _, ev := range c.events {
		for _, o := range ev.Occurrences() {
			if o.Subject() == subject && o.Start().Equal(start) && o.End().Equal(end) {
				return o, nil
			}
		}
	}
	return event.Occurrence{}, fmt.Errorf("%w: no occurrence %q starting %s", ErrNotFound, subject, start.Format(event.TimeLayout))
}

// OccurrencesWithStart returns every occurrence matching subject and start
// exactly. An empty result is not an error; callers that edit by start alone
// use it to disambiguate first. At most one occurrence per top-level event
// can match, since series members have distinct start dates.
func (c *Calendar) OccurrencesWithStart(subject string, start time.Time) []event.Occurrence {
	matched := make([]event.Occurrence, 0)
	for _, ev := range c.events {
		for _, o := range ev.Occurrences() {
			if o.Subject() == subject && o.Start().Equal(start) {
				matched = append(matched, o)
				break
			}
		}
	}
	return matched
}

// SeriesContaining returns the series owning the given occurrence, or false
// if the occurrence is standalone or absent.
func (c *Calendar) SeriesContaining(o event.Occurrence) (*event.Series, bool) {
	for _, ev := range c.events {
		if s, ok := ev.(*event.Series); ok && s.Contains(o) {
			return s, true
		}
	}
	return nil, false
}

// ContainsInstant reports whether any occurrence's open (start, end) interval
// strictly contains t.
func (c *Calendar) ContainsInstant(t time.Time) bool {
	for _, ev := range c.events {
		for _, o := range ev.Occurrences() {
			if o.ContainsInstant(t) {
				return true
			}
		}
	}
	return false
}

// WithZone returns a new calendar in the given zone with every occurrence's
// wall-clock times converted instant-preservingly. The calendar's identity
// is retained.
func (c *Calendar) WithZone(zoneID string) (*Calendar, error) {
	zone, err := time.LoadLocation(zoneID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q", event.ErrInvalidArgument, zoneID)
	}
	converted := &Calendar{
		id:     c.id,
		zone:   zone,
		zoneID: zoneID,
		events: make([]event.Event, 0, len(c.events)),
		index:  make(map[identity]struct{}, len(c.index)),
	}
	for _, ev := range c.events {
		converted.commit(ev.ConvertZoneEvent(c.zone, zone))
	}
	return converted, nil
}

// remove deletes a top-level event. Removing an event that is not present is
// an invalid argument.
func (c *Calendar) remove(ev event.Event) error {
	idx := c.indexOfEvent(ev)
	if idx < 0 {
		return fmt.Errorf("%w: event does not exist in the calendar", event.ErrInvalidArgument)
	}
	c.events = slices.Delete(c.events, idx, idx+1)
	for _, o := range ev.Occurrences() {
		delete(c.index, identityOf(o))
	}
	return nil
}

// replace substitutes one top-level event with a set of replacements,
// remove-then-validate-then-commit. The replacements must be conflict-free
// against the calendar with the original removed and must not duplicate each
// other; otherwise the removal is rolled back and the calendar is unchanged.
func (c *Calendar) replace(old event.Event, replacements []event.Event) error {
	if err := c.remove(old); err != nil {
		return err
	}
	if err := c.AddAll(replacements); err != nil {
		c.commit(old)
		return err
	}
	return nil
}

func (c *Calendar) indexOfEvent(target event.Event) int {
	for i, ev := range c.events {
		if sameEvent(ev, target) {
			return i
		}
	}
	return -1
}

func sameEvent(a, b event.Event) bool {
	switch av := a.(type) {
	case event.Occurrence:
		bv, ok := b.(event.Occurrence)
		return ok && av.Equal(bv)
	case *event.Series:
		bv, ok := b.(*event.Series)
		return ok && av == bv
	}
	return false
}
