package event

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Series is an ordered run of single-day occurrences generated from a
// weekday recurrence pattern. Members are strictly chronological; the series
// subject, description, location and status are those of its first member.
type Series struct {
	members  []Occurrence
	weekdays []time.Weekday
	endDate  time.Time
}

// NewSeries generates a series from a seed occurrence, a number of
// occurrences and the weekdays the event occurs on. If the seed's start date
// does not fall on one of the weekdays, the first occurrence is moved forward
// to the first matching day.
func NewSeries(seed Occurrence, occurrences int, weekdays ...time.Weekday) (*Series, error) {
	if err := validateSeed(seed, weekdays); err != nil {
		return nil, err
	}
	if occurrences < 1 {
		return nil, fmt.Errorf("%w: number of occurrences must be at least 1", ErrInvalidArgument)
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   seed.start,
		Count:     occurrences,
		Byweekday: toRRuleWeekdays(weekdays),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return fromRule(seed, rule, weekdays)
}

// NewSeriesUntil generates a series from a seed occurrence, an inclusive end
// date and the weekdays the event occurs on.
func NewSeriesUntil(seed Occurrence, endDate time.Time, weekdays ...time.Weekday) (*Series, error) {
	if err := validateSeed(seed, weekdays); err != nil {
		return nil, err
	}
	if DateOf(endDate).Before(DateOf(seed.end)) {
		return nil, fmt.Errorf("%w: series cannot end before the seed event ends", ErrInvalidArgument)
	}
	// An occurrence lands on the end date itself when the weekday matches,
	// so the rule's cutoff carries the seed's start clock on that date.
	y, m, d := endDate.Date()
	until := time.Date(y, m, d,
		seed.start.Hour(), seed.start.Minute(), seed.start.Second(), seed.start.Nanosecond(), time.UTC)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   seed.start,
		Until:     until,
		Byweekday: toRRuleWeekdays(weekdays),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return fromRule(seed, rule, weekdays)
}

// FromOccurrences rebuilds a series from an explicit member list. The list
// must be non-empty; ordering and weekday-pattern conformance are trusted,
// since the edit and copy engines assemble lists that already honour them.
func FromOccurrences(members []Occurrence, weekdays []time.Weekday) (*Series, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: a series needs at least one occurrence", ErrInvalidArgument)
	}
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("%w: a series needs at least one occurring weekday", ErrInvalidArgument)
	}
	s := &Series{
		members:  append([]Occurrence(nil), members...),
		weekdays: append([]time.Weekday(nil), weekdays...),
	}
	s.endDate = DateOf(s.members[len(s.members)-1].end)
	return s, nil
}

func validateSeed(seed Occurrence, weekdays []time.Weekday) error {
	if !SameDate(seed.start, seed.end) {
		return fmt.Errorf("%w: series seed must start and end on the same day", ErrInvalidArgument)
	}
	if len(weekdays) == 0 {
		return fmt.Errorf("%w: a series needs at least one occurring weekday", ErrInvalidArgument)
	}
	return nil
}

func fromRule(seed Occurrence, rule *rrule.RRule, weekdays []time.Weekday) (*Series, error) {
	starts := rule.All()
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: recurrence pattern produces no occurrences", ErrInvalidArgument)
	}
	duration := seed.end.Sub(seed.start)
	members := make([]Occurrence, 0, len(starts))
	for _, start := range starts {
		member := seed
		member.start = start
		member.end = start.Add(duration)
		members = append(members, member)
	}
	return FromOccurrences(members, weekdays)
}

// Subject is the subject of the series' first member.
func (s *Series) Subject() string { return s.members[0].subject }

// Start is the first member's start time.
func (s *Series) Start() time.Time { return s.members[0].start }

// End is the last member's end time.
func (s *Series) End() time.Time { return s.members[len(s.members)-1].end }

func (s *Series) Description() string { return s.members[0].description }
func (s *Series) Location() Location  { return s.members[0].location }
func (s *Series) Status() Status      { return s.members[0].status }

// EndDate is the calendar date of the series' final occurrence.
func (s *Series) EndDate() time.Time { return s.endDate }

// Occurrences returns a defensive copy of the ordered member list.
func (s *Series) Occurrences() []Occurrence {
	return append([]Occurrence(nil), s.members...)
}

// Weekdays returns a defensive copy of the occurring-weekday set.
func (s *Series) Weekdays() []time.Weekday {
	return append([]time.Weekday(nil), s.weekdays...)
}

// Contains reports whether the given occurrence is a member of this series.
func (s *Series) Contains(o Occurrence) bool {
	for _, member := range s.members {
		if member.Equal(o) {
			return true
		}
	}
	return false
}

// ConvertZoneEvent maps every member through the occurrence zone conversion
// and rebuilds the series with the same weekday set. A conversion crossing
// midnight can leave members off their declared weekdays; the pattern is
// best-effort after conversion and is not re-validated.
func (s *Series) ConvertZoneEvent(from, to *time.Location) Event {
	converted := make([]Occurrence, 0, len(s.members))
	for _, member := range s.members {
		converted = append(converted, member.ConvertZone(from, to))
	}
	rebuilt, _ := FromOccurrences(converted, s.weekdays)
	return rebuilt
}

func (s *Series) isEvent() {}

// OnPattern reports whether a time's weekday belongs to the series' weekday
// set.
func (s *Series) OnPattern(t time.Time) bool {
	return weekdayIn(t.Weekday(), s.weekdays)
}

// NextOnPattern walks forward from t, one day at a time, to the first date
// matching the weekday set. t itself is returned when it already matches.
func (s *Series) NextOnPattern(t time.Time) time.Time {
	for !weekdayIn(t.Weekday(), s.weekdays) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func weekdayIn(day time.Weekday, set []time.Weekday) bool {
	for _, w := range set {
		if w == day {
			return true
		}
	}
	return false
}

func toRRuleWeekdays(weekdays []time.Weekday) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(weekdays))
	for _, w := range weekdays {
		switch w {
		case time.Monday:
			out = append(out, rrule.MO)
		case time.Tuesday:
			out = append(out, rrule.TU)
		case time.Wednesday:
			out = append(out, rrule.WE)
		case time.Thursday:
			out = append(out, rrule.TH)
		case time.Friday:
			out = append(out, rrule.FR)
		case time.Saturday:
			out = append(out, rrule.SA)
		case time.Sunday:
			out = append(out, rrule.SU)
		}
	}
	return out
}
