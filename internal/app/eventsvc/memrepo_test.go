package eventsvc_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo mirrors eventstore.Store's contract in memory.
type memRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]models.Event

	writes  int // applied roster writes
	refused int // roster writes whose conditions failed
}

func newMemRepo() *memRepo {
	return &memRepo{events: map[primitive.ObjectID]models.Event{}}
}

func clone(ev models.Event) models.Event {
	ev.Participants = append([]models.Participant{}, ev.Participants...)
	if ev.MaxParticipants != nil {
		n := *ev.MaxParticipants
		ev.MaxParticipants = &n
	}
	return ev
}

func (r *memRepo) put(ev models.Event) models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	if ev.Participants == nil {
		ev.Participants = []models.Participant{}
	}
	r.events[ev.ID] = clone(ev)
	return clone(ev)
}

func (r *memRepo) GetByID(_ context.Context, id primitive.ObjectID) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return models.Event{}, eventstore.ErrNotFound
	}
	return clone(ev), nil
}

func (r *memRepo) Find(_ context.Context, f eventstore.Filter) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Event, 0)
	for _, ev := range r.events {
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(ev.Title), q) && !strings.Contains(strings.ToLower(ev.Description), q) {
				continue
			}
		}
		if f.Date != nil {
			y1, m1, d1 := f.Date.UTC().Date()
			y2, m2, d2 := ev.Date.UTC().Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		if f.IsActive != nil && ev.IsActive != *f.IsActive {
			continue
		}
		if f.OrganizerID != nil && ev.OrganizerID != *f.OrganizerID {
			continue
		}
		if f.ParticipantID != nil && !ev.HasParticipant(*f.ParticipantID) {
			continue
		}
		out = append(out, clone(ev))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (r *memRepo) Create(_ context.Context, ev models.Event) (models.Event, error) {
	now := time.Now().UTC()
	ev.ID = primitive.NewObjectID()
	ev.Participants = []models.Participant{}
	ev.RosterVersion = 0
	ev.CreatedAt = now
	ev.UpdatedAt = now
	return r.put(ev), nil
}

func (r *memRepo) Update(_ context.Context, id primitive.ObjectID, p eventstore.Patch) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return models.Event{}, eventstore.ErrNotFound
	}
	if p.MaxParticipants != nil && len(ev.Participants) > *p.MaxParticipants {
		return models.Event{}, eventstore.ErrCapacityBelowRoster
	}
	if p.Title != nil {
		ev.Title = *p.Title
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.Date != nil {
		ev.Date = *p.Date
	}
	if p.Time != nil {
		ev.Time = *p.Time
	}
	if p.Location != nil {
		ev.Location = *p.Location
	}
	if p.MaxParticipants != nil {
		n := *p.MaxParticipants
		ev.MaxParticipants = &n
	}
	if p.IsActive != nil {
		ev.IsActive = *p.IsActive
	}
	ev.UpdatedAt = time.Now().UTC()
	r.events[id] = ev
	return clone(ev), nil
}

func (r *memRepo) AddParticipant(_ context.Context, id primitive.ObjectID, p models.Participant, notBefore time.Time) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return models.Event{}, eventstore.ErrNotFound
	}
	if !ev.IsActive || ev.Date.Before(notBefore) || ev.HasParticipant(p.UserID) || ev.IsFull() {
		r.refused++
		return models.Event{}, eventstore.ErrRosterUnchanged
	}
	ev.Participants = append(append([]models.Participant{}, ev.Participants...), p)
	ev.RosterVersion++
	ev.UpdatedAt = time.Now().UTC()
	r.events[id] = ev
	r.writes++
	return clone(ev), nil
}

func (r *memRepo) RemoveParticipant(_ context.Context, id primitive.ObjectID, userID primitive.ObjectID) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return models.Event{}, eventstore.ErrNotFound
	}
	if !ev.HasParticipant(userID) {
		r.refused++
		return models.Event{}, eventstore.ErrRosterUnchanged
	}
	kept := make([]models.Participant, 0, len(ev.Participants))
	for _, p := range ev.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	ev.Participants = kept
	ev.RosterVersion++
	ev.UpdatedAt = time.Now().UTC()
	r.events[id] = ev
	r.writes++
	return clone(ev), nil
}

func (r *memRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return eventstore.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// alwaysRefused wraps a repo so every roster write is refused even though
// the stored event would accept it.
type alwaysRefused struct {
	*memRepo
	attempts int32
}

func (r *alwaysRefused) AddParticipant(context.Context, primitive.ObjectID, models.Participant, time.Time) (models.Event, error) {
	atomic.AddInt32(&r.attempts, 1)
	return models.Event{}, eventstore.ErrRosterUnchanged
}

// slowRepo adds latency to every call so concurrent callers overlap.
type slowRepo struct {
	*memRepo
	delay time.Duration
}

func (r *slowRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	time.Sleep(r.delay)
	return r.memRepo.GetByID(ctx, id)
}

func (r *slowRepo) AddParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant, notBefore time.Time) (models.Event, error) {
	time.Sleep(r.delay)
	return r.memRepo.AddParticipant(ctx, id, p, notBefore)
}
