// internal/app/features/events/create.go
package events

import (
	"context"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

type createRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	MaxParticipants *int   `json:"maxParticipants"`
}

// HandleCreate handles POST /api/events. Organizers only; 201 on success.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Svc.Create(ctx, p, eventsvc.EventInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.OK(w, http.StatusCreated, "Event created successfully",
		map[string]any{"event": h.buildView(r.Context(), ev)})
}
