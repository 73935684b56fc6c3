package eventsvc

import (
	"context"
	"time"

	"github.com/dalemusser/eventhub/internal/app/policy/eventpolicy"
	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/domain/models"
)

// ListFilter narrows List. Zero fields are ignored.
type ListFilter struct {
	Search   string     // literal, case-insensitive, over title and description
	Date     *time.Time // calendar day
	IsActive *bool
}

// List returns the events matching f, earliest first.
func (s *Service) List(ctx context.Context, p models.Principal, f ListFilter) ([]models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.ListEvents, nil) {
		return nil, errNoPrincipal()
	}
	return s.repo.Find(ctx, eventstore.Filter{
		Search:   f.Search,
		Date:     f.Date,
		IsActive: f.IsActive,
	})
}

// MyRegistrations returns the events whose roster contains p.
func (s *Service) MyRegistrations(ctx context.Context, p models.Principal) ([]models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.ListMyRegistrations, nil) {
		return nil, errNoPrincipal()
	}
	id := p.ID
	return s.repo.Find(ctx, eventstore.Filter{ParticipantID: &id})
}

// MyEvents returns the events p organizes. Organizers only.
func (s *Service) MyEvents(ctx context.Context, p models.Principal) ([]models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.ListOwnedEvents, nil) {
		return nil, errRoleDenied(string(p.Role))
	}
	id := p.ID
	return s.repo.Find(ctx, eventstore.Filter{OrganizerID: &id})
}
