// internal/app/features/events/update.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

// updateRequest carries a partial update; absent fields stay unchanged.
type updateRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Location        *string `json:"location"`
	MaxParticipants *int    `json:"maxParticipants"`
	IsActive        *bool   `json:"isActive"`
}

// HandleUpdate handles PUT /api/events/{id}. Only the owning organizer may
// update; the event must exist first.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Svc.Update(ctx, p, id, eventsvc.EventChanges{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		IsActive:        req.IsActive,
	})
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.OK(w, http.StatusOK, "Event updated successfully",
		map[string]any{"event": h.buildView(r.Context(), ev)})
}
