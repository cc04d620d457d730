package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multical/multical/pkg/event"
)

// mondaySeries builds a calendar holding one Monday series: members on
// 2025-06-02, 06-09 and 06-16, each 09:00-09:30.
func mondaySeries(t *testing.T) (*Calendar, *event.Series) {
	t.Helper()
	c := testCalendar(t)
	seed := mustOccurrence(t, "Sync", at(2025, time.June, 2, 9, 0), at(2025, time.June, 2, 9, 30))
	s := mustSeries(t, seed, 3, time.Monday)
	require.NoError(t, c.Add(s))
	return c, s
}

func seriesIn(t *testing.T, c *Calendar) []*event.Series {
	t.Helper()
	var out []*event.Series
	for _, ev := range c.events {
		if s, ok := ev.(*event.Series); ok {
			out = append(out, s)
		}
	}
	return out
}

func standalonesIn(t *testing.T, c *Calendar) []event.Occurrence {
	t.Helper()
	var out []event.Occurrence
	for _, ev := range c.events {
		if o, ok := ev.(event.Occurrence); ok {
			out = append(out, o)
		}
	}
	return out
}

func TestEditEvent(t *testing.T) {
	t.Run("metadata edit keeps the member in its series", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropDescription, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "moved room")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		members := all[0].Occurrences()
		require.Len(t, members, 3)
		assert.Equal(t, "", members[0].Description())
		assert.Equal(t, "moved room", members[1].Description())
		assert.Equal(t, "", members[2].Description())
	})

	t.Run("same-day start change keeps the member in its series", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropStart, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "2025-06-09T14:00:00")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		members := all[0].Occurrences()
		require.Len(t, members, 3)
		assert.Equal(t, at(2025, time.June, 9, 14, 0), members[1].Start())
		assert.Equal(t, at(2025, time.June, 9, 14, 30), members[1].End())
		assert.Equal(t, at(2025, time.June, 2, 9, 0), members[0].Start())
	})

	t.Run("different-day start change detaches the member", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropStart, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "2025-06-11T09:00:00")
		require.NoError(t, err)

		detached := standalonesIn(t, c)
		require.Len(t, detached, 1)
		assert.Equal(t, at(2025, time.June, 11, 9, 0), detached[0].Start())

		remaining := seriesIn(t, c)
		require.Len(t, remaining, 1)
		members := remaining[0].Occurrences()
		require.Len(t, members, 2)
		assert.Equal(t, at(2025, time.June, 2, 9, 0), members[0].Start())
		assert.Equal(t, at(2025, time.June, 16, 9, 0), members[1].Start())
		assert.Equal(t, at(2025, time.June, 16, 0, 0), remaining[0].EndDate())
	})

	t.Run("different-day end change detaches the member", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropEnd, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "2025-06-10T09:30:00")
		require.NoError(t, err)

		detached := standalonesIn(t, c)
		require.Len(t, detached, 1)
		assert.Equal(t, at(2025, time.June, 10, 9, 30), detached[0].End())
		require.Len(t, seriesIn(t, c), 1)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropEnd, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "2025-06-09T08:00:00")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("conflicting move rolls back", func(t *testing.T) {
		c, _ := mondaySeries(t)
		blocker := mustOccurrence(t, "Sync", at(2025, time.June, 9, 14, 0), at(2025, time.June, 9, 14, 30))
		require.NoError(t, c.Add(blocker))

		err := c.EditEvent(PropStart, "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "2025-06-09T14:00:00")
		assert.ErrorIs(t, err, ErrConflict)

		// the member still sits at its original time
		_, err = c.FindOccurrence("Sync", at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30))
		assert.NoError(t, err)
	})

	t.Run("unknown property is rejected", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent("colour", "Sync",
			at(2025, time.June, 9, 9, 0), at(2025, time.June, 9, 9, 30), "red")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("missing occurrence is not found", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvent(PropSubject, "Sync",
			at(2025, time.June, 3, 9, 0), at(2025, time.June, 3, 9, 30), "Renamed")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEditEventsLookup(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropSubject, "Nope", at(2025, time.June, 2, 9, 0), ScopeSeries, "x")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("ambiguous match", func(t *testing.T) {
		c, _ := mondaySeries(t)
		// same subject and start, longer duration
		rival := mustOccurrence(t, "Sync", at(2025, time.June, 2, 9, 0), at(2025, time.June, 2, 10, 0))
		require.NoError(t, c.Add(rival))

		err := c.EditEvents(PropSubject, "Sync", at(2025, time.June, 2, 9, 0), ScopeSeries, "x")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("lone occurrence is edited directly", func(t *testing.T) {
		c := testCalendar(t)
		o := mustOccurrence(t, "Lunch", at(2025, time.June, 2, 13, 0), at(2025, time.June, 2, 14, 0))
		require.NoError(t, c.Add(o))

		err := c.EditEvents(PropSubject, "Lunch", at(2025, time.June, 2, 13, 0), ScopeThisAndLater, "Team lunch")
		require.NoError(t, err)
		_, err = c.FindOccurrence("Team lunch", o.Start(), o.End())
		assert.NoError(t, err)
	})
}

func TestEditEventsSeriesScope(t *testing.T) {
	t.Run("metadata applies to every member", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropLocation, "Sync", at(2025, time.June, 9, 9, 0), ScopeSeries, "online")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		for _, m := range all[0].Occurrences() {
			assert.Equal(t, event.LocationOnline, m.Location())
		}
	})

	t.Run("same-day start retimes every member on its own date", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropStart, "Sync", at(2025, time.June, 9, 9, 0), ScopeSeries, "2025-06-09T11:00:00")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		members := all[0].Occurrences()
		require.Len(t, members, 3)
		assert.Equal(t, at(2025, time.June, 2, 11, 0), members[0].Start())
		assert.Equal(t, at(2025, time.June, 9, 11, 0), members[1].Start())
		assert.Equal(t, at(2025, time.June, 16, 11, 0), members[2].Start())
		assert.Equal(t, at(2025, time.June, 2, 11, 30), members[0].End())
	})

	t.Run("different-day start is refused", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropStart, "Sync", at(2025, time.June, 9, 9, 0), ScopeSeries, "2025-06-10T11:00:00")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("end takes the new clock on every member", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropEnd, "Sync", at(2025, time.June, 9, 9, 0), ScopeSeries, "2025-06-09T10:15:00")
		require.NoError(t, err)

		members := seriesIn(t, c)[0].Occurrences()
		assert.Equal(t, at(2025, time.June, 2, 10, 15), members[0].End())
		assert.Equal(t, at(2025, time.June, 16, 10, 15), members[2].End())
		assert.Equal(t, at(2025, time.June, 2, 9, 0), members[0].Start())
	})
}

func TestEditEventsThisAndLater(t *testing.T) {
	t.Run("metadata touches the identified member and later ones only", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropDescription, "Sync", at(2025, time.June, 9, 9, 0), ScopeThisAndLater, "new agenda")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		members := all[0].Occurrences()
		require.Len(t, members, 3)
		assert.Equal(t, "", members[0].Description())
		assert.Equal(t, "new agenda", members[1].Description())
		assert.Equal(t, "new agenda", members[2].Description())
	})

	t.Run("same-day start splits into earlier and shifted series", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropStart, "Sync", at(2025, time.June, 9, 9, 0), ScopeThisAndLater, "2025-06-09T14:00:00")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 2)

		earlier := all[0].Occurrences()
		require.Len(t, earlier, 1)
		assert.Equal(t, at(2025, time.June, 2, 9, 0), earlier[0].Start())

		shifted := all[1].Occurrences()
		require.Len(t, shifted, 2)
		assert.Equal(t, at(2025, time.June, 9, 14, 0), shifted[0].Start())
		assert.Equal(t, at(2025, time.June, 16, 14, 0), shifted[1].Start())
		assert.Equal(t, at(2025, time.June, 16, 14, 30), shifted[1].End())
	})

	t.Run("same-day start on the first member keeps one series", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropStart, "Sync", at(2025, time.June, 2, 9, 0), ScopeThisAndLater, "2025-06-02T14:00:00")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 1)
		members := all[0].Occurrences()
		require.Len(t, members, 3)
		assert.Equal(t, at(2025, time.June, 2, 14, 0), members[0].Start())
		assert.Equal(t, at(2025, time.June, 16, 14, 0), members[2].Start())
	})

	t.Run("different-day start re-dates onto the weekday pattern", func(t *testing.T) {
		c, _ := mondaySeries(t)
		// Wednesday 2025-06-11 is off the Monday pattern; the edit snaps
		// forward to Monday 2025-06-16 and pushes the final member out a week.
		err := c.EditEvents(PropStart, "Sync", at(2025, time.June, 9, 9, 0), ScopeThisAndLater, "2025-06-11T10:00:00")
		require.NoError(t, err)

		all := seriesIn(t, c)
		require.Len(t, all, 2)

		earlier := all[0].Occurrences()
		require.Len(t, earlier, 1)
		assert.Equal(t, at(2025, time.June, 2, 9, 0), earlier[0].Start())

		redated := all[1].Occurrences()
		require.Len(t, redated, 2)
		assert.Equal(t, at(2025, time.June, 16, 10, 0), redated[0].Start())
		assert.Equal(t, at(2025, time.June, 16, 10, 30), redated[0].End())
		assert.Equal(t, at(2025, time.June, 23, 10, 0), redated[1].Start())
		assert.Equal(t, at(2025, time.June, 23, 0, 0), all[1].EndDate())
	})

	t.Run("end off the event's day is refused", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropEnd, "Sync", at(2025, time.June, 9, 9, 0), ScopeThisAndLater, "2025-06-10T10:00:00")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})

	t.Run("end retimes the identified member and later ones", func(t *testing.T) {
		c, _ := mondaySeries(t)
		err := c.EditEvents(PropEnd, "Sync", at(2025, time.June, 9, 9, 0), ScopeThisAndLater, "2025-06-09T10:30:00")
		require.NoError(t, err)

		members := seriesIn(t, c)[0].Occurrences()
		assert.Equal(t, at(2025, time.June, 2, 9, 30), members[0].End())
		assert.Equal(t, at(2025, time.June, 9, 10, 30), members[1].End())
		assert.Equal(t, at(2025, time.June, 16, 10, 30), members[2].End())
	})
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("series")
	require.NoError(t, err)
	assert.Equal(t, ScopeSeries, s)

	s, err = ParseScope("events")
	require.NoError(t, err)
	assert.Equal(t, ScopeThisAndLater, s)

	_, err = ParseScope("all")
	assert.ErrorIs(t, err, event.ErrInvalidArgument)
}

func TestParseDateTime(t *testing.T) {
	t.Run("with seconds", func(t *testing.T) {
		got, err := ParseDateTime("2025-06-02T09:00:00")
		require.NoError(t, err)
		assert.Equal(t, at(2025, time.June, 2, 9, 0), got)
	})

	t.Run("without seconds", func(t *testing.T) {
		got, err := ParseDateTime("2025-06-02T09:00")
		require.NoError(t, err)
		assert.Equal(t, at(2025, time.June, 2, 9, 0), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDateTime("yesterday")
		assert.ErrorIs(t, err, event.ErrInvalidArgument)
	})
}
