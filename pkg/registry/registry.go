package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/multical/multical/pkg/calendar"
	"github.com/multical/multical/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Registry owns every calendar by unique name plus the "current calendar"
// pointer. Mutations are multi-step (remove, validate, commit), so a single
// lock serializes them; read-only queries run under the shared lock.
type Registry struct {
	mu        sync.RWMutex
	calendars map[string]*calendar.Calendar
	current   string
}

// New constructs an empty registry with no current calendar.
func New() *Registry {
	return &Registry{calendars: make(map[string]*calendar.Calendar)}
}

// CreateCalendar registers a new calendar under a unique name in the given
// IANA timezone.
func (r *Registry) CreateCalendar(name, zoneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.calendars[name]; taken {
		return fmt.Errorf("%w: calendar %q already exists", event.ErrInvalidArgument, name)
	}
	cal, err := calendar.New(zoneID)
	if err != nil {
		return err
	}
	r.calendars[name] = cal
	log.Infof("created calendar %q in zone %s", name, zoneID)
	return nil
}

// RenameCalendar changes a calendar's name, preserving its identity and the
// current-calendar pointer.
func (r *Registry) RenameCalendar(oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, ok := r.calendars[oldName]
	if !ok {
		return fmt.Errorf("%w: could not find calendar %q to rename", event.ErrInvalidArgument, oldName)
	}
	if _, taken := r.calendars[newName]; taken {
		return fmt.Errorf("%w: calendar name %q is already taken", event.ErrInvalidArgument, newName)
	}
	delete(r.calendars, oldName)
	r.calendars[newName] = cal
	if r.current == oldName {
		r.current = newName
	}
	return nil
}

// SetZone replaces a calendar's timezone, converting every contained
// occurrence's wall-clock times instant-preservingly.
func (r *Registry) SetZone(name, zoneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, ok := r.calendars[name]
	if !ok {
		return fmt.Errorf("%w: calendar %q does not exist", event.ErrInvalidArgument, name)
	}
	converted, err := cal.WithZone(zoneID)
	if err != nil {
		return err
	}
	r.calendars[name] = converted
	log.Infof("calendar %q moved to zone %s", name, zoneID)
	return nil
}

// SetCurrent points the registry at the named calendar.
func (r *Registry) SetCurrent(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calendars[name]; !ok {
		return fmt.Errorf("%w: calendar %q does not exist", event.ErrInvalidArgument, name)
	}
	r.current = name
	return nil
}

// CurrentCalendarName returns the name of the current calendar, or the empty
// string when none has been chosen.
func (r *Registry) CurrentCalendarName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentCalendar returns the current calendar.
func (r *Registry) CurrentCalendar() (*calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentLocked()
}

func (r *Registry) currentLocked() (*calendar.Calendar, error) {
	if r.current == "" {
		return nil, fmt.Errorf("%w: no calendar is in use", calendar.ErrNotFound)
	}
	return r.calendars[r.current], nil
}

// Calendar returns the named calendar.
func (r *Registry) Calendar(name string) (*calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calendarLocked(name)
}

func (r *Registry) calendarLocked(name string) (*calendar.Calendar, error) {
	cal, ok := r.calendars[name]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %q does not exist", calendar.ErrNotFound, name)
	}
	return cal, nil
}

// AddEvent inserts an event into the named calendar.
func (r *Registry) AddEvent(name string, ev event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, err := r.calendarLocked(name)
	if err != nil {
		return err
	}
	return cal.Add(ev)
}

// Query runs a range query against the named calendar.
func (r *Registry) Query(name string, start, end time.Time) ([]event.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, err := r.calendarLocked(name)
	if err != nil {
		return nil, err
	}
	return cal.Query(start, end)
}

// EditEvent edits a single occurrence on the current calendar.
func (r *Registry) EditEvent(property, subject string, start, end time.Time, newValue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, err := r.currentLocked()
	if err != nil {
		return err
	}
	return cal.EditEvent(property, subject, start, end, newValue)
}

// EditEvents edits a group of occurrences on the current calendar.
func (r *Registry) EditEvents(property, subject string, start time.Time, scope calendar.Scope, newValue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, err := r.currentLocked()
	if err != nil {
		return err
	}
	return cal.EditEvents(property, subject, start, scope, newValue)
}

// FindOccurrence looks up an exact occurrence on the current calendar.
func (r *Registry) FindOccurrence(subject string, start, end time.Time) (event.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, err := r.currentLocked()
	if err != nil {
		return event.Occurrence{}, err
	}
	return cal.FindOccurrence(subject, start, end)
}

// OccurrencesWithStart returns the current calendar's occurrences matching
// subject and start exactly.
func (r *Registry) OccurrencesWithStart(subject string, start time.Time) ([]event.Occurrence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, err := r.currentLocked()
	if err != nil {
		return nil, err
	}
	return cal.OccurrencesWithStart(subject, start), nil
}

// SeriesContaining returns the current calendar's series owning the given
// occurrence, or false when the occurrence is standalone or absent.
func (r *Registry) SeriesContaining(o event.Occurrence) (*event.Series, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, err := r.currentLocked()
	if err != nil {
		return nil, false, err
	}
	series, ok := cal.SeriesContaining(o)
	return series, ok, nil
}

// ContainsInstant reports whether any occurrence on the current calendar
// strictly spans t.
func (r *Registry) ContainsInstant(t time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, err := r.currentLocked()
	if err != nil {
		return false, err
	}
	return cal.ContainsInstant(t), nil
}
