package eventsvc

import (
	"errors"

	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
)

// Caller-facing messages.
const (
	MsgEventNotFound      = "Event not found"
	MsgNotActive          = "This event is not active"
	MsgPastEvent          = "Cannot register for past events"
	MsgAlreadyRegistered  = "You are already registered for this event"
	MsgEventFull          = "Event is full"
	MsgNotRegistered      = "You are not registered for this event"
	MsgNotOwnerUpdate     = "You are not authorized to update this event"
	MsgNotOwnerDelete     = "You are not authorized to delete this event"
	MsgCapacityBelowCount = "Maximum participants cannot be lower than the number of registered participants"
)

// errNoPrincipal reports a caller without a resolved identity.
func errNoPrincipal() error {
	return apperr.Authentication(apperr.MsgNoToken)
}

func errRoleDenied(role string) error {
	return apperr.Authorization("User role '" + role + "' is not authorized to access this route")
}

// classify maps repository sentinels onto the error taxonomy and leaves
// anything else untouched so it surfaces as an internal failure.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, eventstore.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, MsgEventNotFound, err)
	case errors.Is(err, eventstore.ErrCapacityBelowRoster):
		return apperr.Wrap(apperr.KindValidation, MsgCapacityBelowCount, err)
	}
	return err
}
