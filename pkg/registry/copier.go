package registry

import (
	"fmt"
	"time"

	"github.com/multical/multical/pkg/calendar"
	"github.com/multical/multical/pkg/event"
	log "github.com/sirupsen/logrus"
)

// CopyOne copies the occurrence identified by (subject, sourceStart) on the
// current calendar into the target calendar at newStart, preserving its
// duration and metadata. The copy is always inserted standalone.
func (r *Registry) CopyOne(subject string, sourceStart time.Time, targetName string, newStart time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, err := r.currentLocked()
	if err != nil {
		return err
	}
	matched := source.OccurrencesWithStart(subject, sourceStart)
	if len(matched) == 0 {
		return fmt.Errorf("%w: no occurrence %q starting %s", calendar.ErrNotFound, subject, sourceStart.Format(event.TimeLayout))
	}
	occ := matched[0]

	target, ok := r.calendars[targetName]
	if !ok {
		return fmt.Errorf("%w: could not find target calendar %q", event.ErrInvalidArgument, targetName)
	}

	copied, err := occ.WithTimes(newStart, newStart.Add(occ.End().Sub(occ.Start())))
	if err != nil {
		return err
	}
	return target.Add(copied)
}

// CopyRange copies every occurrence of the current calendar fully contained
// in [start, end] into the target calendar. Each occurrence's wall-clock
// times are converted from the source zone to the target zone, then shifted
// by the whole-day offset between the earliest matched date and
// newStartDate. Occurrences originating from one series are regrouped into a
// new series when the first of them still lands on its original weekday;
// otherwise they are inserted standalone. The whole copy commits atomically:
// a single conflict inserts nothing.
func (r *Registry) CopyRange(start, end time.Time, targetName string, newStartDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, err := r.currentLocked()
	if err != nil {
		return err
	}
	target, ok := r.calendars[targetName]
	if !ok {
		return fmt.Errorf("%w: could not find target calendar %q", event.ErrInvalidArgument, targetName)
	}

	matched, err := source.Query(start, end)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return nil
	}

	// Anchor: the earliest matched date maps onto newStartDate; every other
	// occurrence keeps its day distance from that anchor.
	anchor := event.DateOf(matched[0].Start())
	dayDelta := daysBetween(anchor, event.DateOf(newStartDate))

	var batch []event.Event
	var seriesOrder []*event.Series
	coherent := make(map[*event.Series]bool)
	grouped := make(map[*event.Series][]event.Occurrence)

	for _, occ := range matched {
		converted := occ.ConvertZone(source.Zone(), target.Zone())
		newStart := converted.Start().AddDate(0, 0, dayDelta)
		copied, werr := occ.WithTimes(newStart, newStart.Add(occ.End().Sub(occ.Start())))
		if werr != nil {
			return werr
		}

		series, inSeries := source.SeriesContaining(occ)
		if !inSeries {
			batch = append(batch, copied)
			continue
		}
		if _, seen := coherent[series]; !seen {
			// Decided once per series, on its earliest copied occurrence:
			// the re-anchored, zone-converted copy must land on the same
			// weekday as the original for the series to stay a series.
			coherent[series] = occ.Start().Weekday() == copied.Start().Weekday()
			seriesOrder = append(seriesOrder, series)
			if !coherent[series] {
				log.Debugf("series %q loses its weekday pattern on copy, inserting members standalone", series.Subject())
			}
		}
		if coherent[series] {
			grouped[series] = append(grouped[series], copied)
		} else {
			batch = append(batch, copied)
		}
	}

	for _, series := range seriesOrder {
		if !coherent[series] {
			continue
		}
		rebuilt, serr := event.FromOccurrences(grouped[series], series.Weekdays())
		if serr != nil {
			return serr
		}
		batch = append(batch, rebuilt)
	}

	return target.AddAll(batch)
}

// daysBetween counts whole days from a to b; both are midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
