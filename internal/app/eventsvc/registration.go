package eventsvc

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dalemusser/eventhub/internal/app/policy/eventpolicy"
	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/notify"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MsgRegistrationBusy is returned when a roster write keeps being refused
// while every re-read shows it should have applied.
const MsgRegistrationBusy = "Event registration is busy, please try again"

// rosterWrite performs one conditional roster write. On
// eventstore.ErrRosterUnchanged, explain inspects the re-read event and
// returns the reason, or nil when the refusal is no longer explained.
type rosterWrite struct {
	apply   func(now time.Time) (models.Event, error)
	explain func(ev models.Event, now time.Time) error
}

// Register adds p to the event's roster.
//
// The store applies the append only while the event is active, not past,
// free of p and below capacity, so concurrent callers never over-admit. A
// refused write is explained from the stored state in a fixed order:
// existence, active flag, date, duplicate registration, capacity.
func (s *Service) Register(ctx context.Context, p models.Principal, id primitive.ObjectID) (models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.Register, nil) {
		return models.Event{}, errNoPrincipal()
	}

	ev, err := s.writeRoster(ctx, id, rosterWrite{
		apply: func(now time.Time) (models.Event, error) {
			return s.repo.AddParticipant(ctx, id, models.Participant{UserID: p.ID, RegisteredAt: now.UTC()}, now)
		},
		explain: func(ev models.Event, now time.Time) error {
			return registerCheck(ev, p.ID, now)
		},
	})
	if err != nil {
		return models.Event{}, err
	}

	s.log.Info("registered for event",
		zap.String("event_id", id.Hex()),
		zap.String("user_id", p.ID.Hex()),
		zap.Int("participants", len(ev.Participants)))
	if s.notifier != nil {
		s.notifier.Enqueue(notify.NoticeFor(ev, p.ID))
	}
	return ev, nil
}

// Unregister removes p from the event's roster. There is no date check.
func (s *Service) Unregister(ctx context.Context, p models.Principal, id primitive.ObjectID) (models.Event, error) {
	if !eventpolicy.CanPerform(p, eventpolicy.Unregister, nil) {
		return models.Event{}, errNoPrincipal()
	}

	ev, err := s.writeRoster(ctx, id, rosterWrite{
		apply: func(time.Time) (models.Event, error) {
			return s.repo.RemoveParticipant(ctx, id, p.ID)
		},
		explain: func(ev models.Event, _ time.Time) error {
			if !ev.HasParticipant(p.ID) {
				return apperr.Validation(MsgNotRegistered)
			}
			return nil
		},
	})
	if err != nil {
		return models.Event{}, err
	}

	s.log.Info("unregistered from event",
		zap.String("event_id", id.Hex()),
		zap.String("user_id", p.ID.Hex()))
	return ev, nil
}

// registerCheck returns the first reason, in caller-visible order, why
// userID cannot join ev at now.
func registerCheck(ev models.Event, userID primitive.ObjectID, now time.Time) error {
	switch {
	case !ev.IsActive:
		return apperr.Validation(MsgNotActive)
	case ev.Date.Before(now):
		return apperr.Validation(MsgPastEvent)
	case ev.HasParticipant(userID):
		return apperr.Conflict(MsgAlreadyRegistered)
	case ev.IsFull():
		return apperr.Validation(MsgEventFull)
	}
	return nil
}

// writeRoster runs w.apply and, when the store refuses it, re-reads the
// event to report why. Writers from other callers never cause a refusal on
// their own; a repeat is only needed when the state changed back between
// the write and the re-read.
func (s *Service) writeRoster(ctx context.Context, id primitive.ObjectID, w rosterWrite) (models.Event, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialBackoff
	b.MaxInterval = s.maxBackoff

	attempts := 0
	op := func() (models.Event, error) {
		attempts++
		now := s.now()
		ev, err := w.apply(now)
		if err == nil {
			return ev, nil
		}
		if !errors.Is(err, eventstore.ErrRosterUnchanged) {
			return models.Event{}, backoff.Permanent(classify(err))
		}

		cur, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return models.Event{}, backoff.Permanent(classify(err))
		}
		if reason := w.explain(cur, now); reason != nil {
			return models.Event{}, backoff.Permanent(reason)
		}
		return models.Event{}, eventstore.ErrRosterUnchanged
	}

	ev, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxAttempts))
	// Retry returns the wrapper as-is when the last allowed try was permanent.
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	if errors.Is(err, eventstore.ErrRosterUnchanged) {
		s.log.Warn("roster write retries exhausted",
			zap.String("event_id", id.Hex()),
			zap.Int("attempts", attempts))
		return models.Event{}, apperr.Wrap(apperr.KindConflict, MsgRegistrationBusy, err)
	}
	if err != nil {
		return models.Event{}, err
	}
	if attempts > 1 {
		s.log.Debug("roster write applied after retry",
			zap.String("event_id", id.Hex()),
			zap.Int("attempts", attempts))
	}
	return ev, nil
}
