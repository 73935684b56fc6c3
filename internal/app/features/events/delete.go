// internal/app/features/events/delete.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /api/events/{id}. Deletion is permanent.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Svc.Delete(ctx, p, id); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.Write(w, http.StatusOK, jsonresp.Envelope{
		Success: true,
		Message: "Event deleted successfully",
	})
}
