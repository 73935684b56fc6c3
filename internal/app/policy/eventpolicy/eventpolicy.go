// internal/app/policy/eventpolicy/eventpolicy.go
package eventpolicy

import (
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names an operation gated by CanPerform.
type Action string

const (
	CreateEvent         Action = "createEvent"
	UpdateEvent         Action = "updateEvent"
	DeleteEvent         Action = "deleteEvent"
	ListOwnedEvents     Action = "listOwnedEvents"
	Register            Action = "register"
	Unregister          Action = "unregister"
	ViewEvent           Action = "viewEvent"
	ListEvents          Action = "listEvents"
	ListMyRegistrations Action = "listMyRegistrations"
)

// CanPerform reports whether p may perform action on ev.
//
//   - createEvent, listOwnedEvents: organizers only
//   - updateEvent, deleteEvent: the organizer who owns ev
//   - register, unregister, viewEvent, listEvents, listMyRegistrations:
//     any authenticated principal
//
// ev is only consulted for ownership actions; pass nil otherwise. Callers
// must confirm the event exists before asking about ownership so that a
// missing event is reported as not found rather than forbidden.
func CanPerform(p models.Principal, action Action, ev *models.Event) bool {
	if p.ID == primitive.NilObjectID || !p.Role.Valid() {
		return false
	}

	switch action {
	case CreateEvent, ListOwnedEvents:
		return p.Role == models.RoleOrganizer
	case UpdateEvent, DeleteEvent:
		return ev != nil && p.Role == models.RoleOrganizer && p.ID == ev.OrganizerID
	case Register, Unregister, ViewEvent, ListEvents, ListMyRegistrations:
		return true
	}
	return false
}
