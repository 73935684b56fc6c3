// internal/app/features/events/list.go
package events

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/inputval"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
	"github.com/dalemusser/eventhub/internal/domain/models"
)

// ServeList handles GET /api/events.
//
// Query parameters:
//
//	search    literal, case-insensitive match on title or description
//	date      calendar day, "YYYY-MM-DD" or RFC 3339
//	isActive  "true" selects active events, any other value inactive ones
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	f, err := parseListFilter(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Svc.List(ctx, p, f)
	h.writeList(w, r, evs, err)
}

// ServeMyRegistrations handles GET /api/events/my-registrations.
func (h *Handler) ServeMyRegistrations(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Svc.MyRegistrations(ctx, p)
	h.writeList(w, r, evs, err)
}

// ServeMyEvents handles GET /api/events/my-events. Organizers only.
func (h *Handler) ServeMyEvents(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Svc.MyEvents(ctx, p)
	h.writeList(w, r, evs, err)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, evs []models.Event, err error) {
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	views := h.buildViews(r.Context(), evs)
	jsonresp.List(w, map[string]any{"events": views}, len(views))
}

func parseListFilter(r *http.Request) (eventsvc.ListFilter, error) {
	q := r.URL.Query()
	f := eventsvc.ListFilter{Search: strings.TrimSpace(q.Get("search"))}

	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		d, err := inputval.ParseDate(raw)
		if err != nil {
			return eventsvc.ListFilter{}, err
		}
		f.Date = &d
	}

	if q.Has("isActive") {
		active := q.Get("isActive") == "true"
		f.IsActive = &active
	}
	return f, nil
}
