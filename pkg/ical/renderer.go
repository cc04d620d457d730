package ical

import (
	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/multical/multical/internal/utils"
	"github.com/multical/multical/pkg/event"
)

// Renderer turns a list of occurrences into an iCalendar document.
type Renderer interface {
	Render(occurrences []event.Occurrence) (string, error)
}

type RendererImpl struct {
	clock utils.Clock
}

func NewRenderer(clock utils.Clock) *RendererImpl {
	return &RendererImpl{clock: clock}
}

// Render serializes the occurrences as VEVENTs. Occurrence times are
// wall-clock values without a zone, so they are written as floating times.
func (r *RendererImpl) Render(occurrences []event.Occurrence) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//multical//calendar export//EN")

	now := r.clock.Now()
	for _, occ := range occurrences {
		e := cal.AddEvent(uuid.NewString() + "@multical")
		e.SetDtStampTime(now)
		e.SetStartAt(occ.Start())
		e.SetEndAt(occ.End())
		e.SetSummary(occ.Subject())
		if occ.Description() != "" {
			e.SetDescription(occ.Description())
		}
		if occ.Location() != event.LocationUnset {
			e.SetLocation(occ.Location().String())
		}
		switch occ.Status() {
		case event.StatusPublic:
			e.SetProperty(ics.ComponentProperty("CLASS"), "PUBLIC")
		case event.StatusPrivate:
			e.SetProperty(ics.ComponentProperty("CLASS"), "PRIVATE")
		}
	}
	return cal.Serialize(), nil
}
