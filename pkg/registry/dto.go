package registry

import (
	"fmt"
	"time"

	"github.com/multical/multical/pkg/calendar"
	"github.com/multical/multical/pkg/event"
)

type CalendarDTO struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// EventDTO carries a single occurrence or a series definition across the
// HTTP boundary. All date-times are ISO-8601 local strings. A request with
// weekdays set creates a series from the seed occurrence; otherwise exactly
// one of occurrences/until must be absent and a single event is created.
type EventDTO struct {
	Subject     string `json:"subject"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status,omitempty"`

	Weekdays    []string `json:"weekdays,omitempty"`
	Occurrences int      `json:"occurrences,omitempty"`
	Until       string   `json:"until,omitempty"`
}

type EditEventRequest struct {
	Property string `json:"property"`
	Subject  string `json:"subject"`
	Start    string `json:"start"`
	End      string `json:"end"`
	NewValue string `json:"newValue"`
}

type EditEventsRequest struct {
	Property string `json:"property"`
	Subject  string `json:"subject"`
	Start    string `json:"start"`
	NewValue string `json:"newValue"`
}

type CopyEventRequest struct {
	Subject        string `json:"subject"`
	SourceStart    string `json:"sourceStart"`
	TargetCalendar string `json:"targetCalendar"`
	NewStart       string `json:"newStart"`
}

type CopyRangeRequest struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	TargetCalendar string `json:"targetCalendar"`
	NewStartDate   string `json:"newStartDate"`
}

func occurrenceToDTO(o event.Occurrence) EventDTO {
	dto := EventDTO{
		Subject:     o.Subject(),
		Start:       o.Start().Format(event.TimeLayout),
		End:         o.End().Format(event.TimeLayout),
		Description: o.Description(),
	}
	if o.Location() != event.LocationUnset {
		dto.Location = o.Location().String()
	}
	if o.Status() != event.StatusUnset {
		dto.Status = o.Status().String()
	}
	return dto
}

// eventFromDTO builds the core event a creation request describes.
func eventFromDTO(dto EventDTO) (event.Event, error) {
	seed, err := seedFromDTO(dto)
	if err != nil {
		return nil, err
	}
	if len(dto.Weekdays) == 0 {
		return seed, nil
	}

	weekdays, err := parseWeekdays(dto.Weekdays)
	if err != nil {
		return nil, err
	}
	if dto.Occurrences > 0 {
		return event.NewSeries(seed, dto.Occurrences, weekdays...)
	}
	if dto.Until == "" {
		return nil, fmt.Errorf("%w: a series needs either occurrences or until", event.ErrInvalidArgument)
	}
	until, err := calendar.ParseDate(dto.Until)
	if err != nil {
		return nil, err
	}
	return event.NewSeriesUntil(seed, until, weekdays...)
}

func seedFromDTO(dto EventDTO) (event.Occurrence, error) {
	var seed event.Occurrence
	if dto.Date != "" {
		date, err := calendar.ParseDate(dto.Date)
		if err != nil {
			return event.Occurrence{}, err
		}
		seed = event.NewAllDay(dto.Subject, date)
	} else {
		start, err := calendar.ParseDateTime(dto.Start)
		if err != nil {
			return event.Occurrence{}, err
		}
		end, err := calendar.ParseDateTime(dto.End)
		if err != nil {
			return event.Occurrence{}, err
		}
		seed, err = event.New(dto.Subject, start, end)
		if err != nil {
			return event.Occurrence{}, err
		}
	}
	if dto.Description != "" {
		seed = seed.WithDescription(dto.Description)
	}
	if dto.Location != "" {
		location, err := event.ParseLocation(dto.Location)
		if err != nil {
			return event.Occurrence{}, err
		}
		seed = seed.WithLocation(location)
	}
	if dto.Status != "" {
		status, err := event.ParseStatus(dto.Status)
		if err != nil {
			return event.Occurrence{}, err
		}
		seed = seed.WithStatus(status)
	}
	return seed, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		weekdays = append(weekdays, day)
	}
	return weekdays, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if day.String() == name {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", event.ErrInvalidArgument, name)
}
