// internal/app/features/events/views.go
package events

import (
	"context"
	"time"

	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// userSummary is the public projection of a user embedded in event views.
type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type participantView struct {
	User         userSummary `json:"user"`
	RegisteredAt time.Time   `json:"registeredAt"`
}

type eventView struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Date             time.Time         `json:"date"`
	Time             string            `json:"time"`
	Location         string            `json:"location"`
	Organizer        userSummary       `json:"organizer"`
	MaxParticipants  *int              `json:"maxParticipants,omitempty"`
	IsActive         bool              `json:"isActive"`
	Participants     []participantView `json:"participants"`
	ParticipantCount int               `json:"participantCount"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// buildViews projects events for the response, resolving every referenced
// user in one lookup. A failed lookup degrades to ID-only summaries.
func (h *Handler) buildViews(ctx context.Context, evs []models.Event) []eventView {
	users := h.lookupUsers(ctx, evs)

	out := make([]eventView, 0, len(evs))
	for _, ev := range evs {
		v := eventView{
			ID:               ev.ID.Hex(),
			Title:            ev.Title,
			Description:      ev.Description,
			Date:             ev.Date,
			Time:             ev.Time,
			Location:         ev.Location,
			Organizer:        summarize(users, ev.OrganizerID),
			MaxParticipants:  ev.MaxParticipants,
			IsActive:         ev.IsActive,
			Participants:     make([]participantView, 0, len(ev.Participants)),
			ParticipantCount: len(ev.Participants),
			CreatedAt:        ev.CreatedAt,
			UpdatedAt:        ev.UpdatedAt,
		}
		for _, p := range ev.Participants {
			v.Participants = append(v.Participants, participantView{
				User:         summarize(users, p.UserID),
				RegisteredAt: p.RegisteredAt,
			})
		}
		out = append(out, v)
	}
	return out
}

func (h *Handler) buildView(ctx context.Context, ev models.Event) eventView {
	return h.buildViews(ctx, []models.Event{ev})[0]
}

func (h *Handler) lookupUsers(ctx context.Context, evs []models.Event) map[primitive.ObjectID]models.User {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, ev := range evs {
		add(ev.OrganizerID)
		for _, p := range ev.Participants {
			add(p.UserID)
		}
	}
	if len(ids) == 0 || h.Users == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	users, err := h.Users.GetMany(ctx, ids)
	if err != nil {
		h.Log.Warn("events: user lookup failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil
	}
	return users
}

func summarize(users map[primitive.ObjectID]models.User, id primitive.ObjectID) userSummary {
	s := userSummary{ID: id.Hex()}
	if u, ok := users[id]; ok {
		s.Name = u.Name
		s.Email = u.Email
	}
	return s
}
