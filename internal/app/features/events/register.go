// internal/app/features/events/register.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

// HandleRegister handles POST /api/events/{id}/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	id, err := eventID(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	// Medium: a contended roster may need several swap attempts.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Svc.Register(ctx, p, id)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.OK(w, http.StatusOK, "Successfully registered for event",
		map[string]any{"event": h.buildView(r.Context(), ev)})
}

// HandleUnregister handles DELETE /api/events/{id}/register.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	id, err := eventID(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Svc.Unregister(ctx, p, id); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.Write(w, http.StatusOK, jsonresp.Envelope{
		Success: true,
		Message: "Successfully unregistered from event",
	})
}
