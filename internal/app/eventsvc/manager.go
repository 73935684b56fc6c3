package eventsvc

import (
	"context"

	"github.com/dalemusser/eventhub/internal/app/policy/eventpolicy"
	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/inputval"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventInput is the payload for Create. Date is "YYYY-MM-DD" or RFC 3339.
type EventInput struct {
	Title           string
	Description     string
	Date            string
	Time            string
	Location        string
	MaxParticipants *int
}

// EventChanges is the payload for Update. Nil fields are left unchanged.
type EventChanges struct {
	Title           *string
	Description     *string
	Date            *string
	Time            *string
	Location        *string
	MaxParticipants *int
	IsActive        *bool
}

// Create validates in and stores a new active event owned by p.
func (s *Service) Create(ctx context.Context, p models.Principal, in EventInput) (models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.CreateEvent, nil) {
		return models.Event{}, errRoleDenied(string(p.Role))
	}

	ev, err := s.validateInput(in)
	if err != nil {
		return models.Event{}, err
	}
	ev.OrganizerID = p.ID
	ev.IsActive = true

	created, err := s.repo.Create(ctx, ev)
	if err != nil {
		return models.Event{}, err
	}
	s.log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("organizer_id", p.ID.Hex()))
	return created, nil
}

func (s *Service) validateInput(in EventInput) (models.Event, error) {
	var ev models.Event
	var err error

	if ev.Title, err = inputval.Title(in.Title); err != nil {
		return ev, err
	}
	if ev.Description, err = inputval.Description(in.Description); err != nil {
		return ev, err
	}
	if ev.Date, err = inputval.ParseDate(in.Date); err != nil {
		return ev, err
	}
	if err = inputval.DateNotPast(ev.Date, s.now()); err != nil {
		return ev, err
	}
	if ev.Time, err = inputval.Time(in.Time); err != nil {
		return ev, err
	}
	if ev.Location, err = inputval.Location(in.Location); err != nil {
		return ev, err
	}
	if err = inputval.MaxParticipants(in.MaxParticipants); err != nil {
		return ev, err
	}
	ev.MaxParticipants = in.MaxParticipants
	return ev, nil
}

// Get returns one event.
func (s *Service) Get(ctx context.Context, p models.Principal, id primitive.ObjectID) (models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.ViewEvent, nil) {
		return models.Event{}, errNoPrincipal()
	}
	ev, err := s.repo.GetByID(ctx, id)
	return ev, classify(err)
}

// Update applies ch to the event if p owns it. Existence is checked before
// ownership, and ownership before field validation.
func (s *Service) Update(ctx context.Context, p models.Principal, id primitive.ObjectID, ch EventChanges) (models.Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, classify(err)
	}
	if !eventpolicy.CanPerform(p, eventpolicy.UpdateEvent, &ev) {
		return models.Event{}, apperr.Authorization(MsgNotOwnerUpdate)
	}

	patch, err := s.validateChanges(ch)
	if err != nil {
		return models.Event{}, err
	}
	if patch.IsEmpty() {
		return ev, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return models.Event{}, classify(err)
	}
	s.log.Info("event updated",
		zap.String("event_id", id.Hex()),
		zap.String("organizer_id", p.ID.Hex()))
	return updated, nil
}

func (s *Service) validateChanges(ch EventChanges) (eventstore.Patch, error) {
	var p eventstore.Patch

	if ch.Title != nil {
		v, err := inputval.TitleUpdate(*ch.Title)
		if err != nil {
			return p, err
		}
		p.Title = &v
	}
	if ch.Description != nil {
		v, err := inputval.DescriptionUpdate(*ch.Description)
		if err != nil {
			return p, err
		}
		p.Description = &v
	}
	if ch.Date != nil {
		d, err := inputval.ParseDate(*ch.Date)
		if err != nil {
			return p, apperr.Validation("Please provide a valid date")
		}
		if err := inputval.DateNotPast(d, s.now()); err != nil {
			return p, err
		}
		p.Date = &d
	}
	if ch.Time != nil {
		v, err := inputval.Time(*ch.Time)
		if err != nil {
			return p, apperr.Validation("Please provide a valid time in HH:MM format")
		}
		p.Time = &v
	}
	if ch.Location != nil {
		v, err := inputval.LocationUpdate(*ch.Location)
		if err != nil {
			return p, err
		}
		p.Location = &v
	}
	if err := inputval.MaxParticipants(ch.MaxParticipants); err != nil {
		return p, err
	}
	p.MaxParticipants = ch.MaxParticipants
	p.IsActive = ch.IsActive
	return p, nil
}

// Delete permanently removes the event if p owns it.
func (s *Service) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return classify(err)
	}
	if !eventpolicy.CanPerform(p, eventpolicy.DeleteEvent, &ev) {
		return apperr.Authorization(MsgNotOwnerDelete)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return classify(err)
	}
	s.log.Info("event deleted",
		zap.String("event_id", id.Hex()),
		zap.String("organizer_id", p.ID.Hex()),
		zap.Int("participants", len(ev.Participants)))
	return nil
}
