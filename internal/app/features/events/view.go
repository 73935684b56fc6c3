// internal/app/features/events/view.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

// ServeView handles GET /api/events/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
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

	ev, err := h.Svc.Get(ctx, p, id)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.OK(w, http.StatusOK, "", map[string]any{"event": h.buildView(r.Context(), ev)})
}
