// Package eventsvc is the event lifecycle and registration engine.
//
// Every operation takes the caller's Principal, checks it with
// eventpolicy.CanPerform, and talks to the event repository. Roster changes
// are single conditional writes evaluated by the store, so concurrent
// registrations for the same event never over-admit and never collide with
// each other while a slot is free.
package eventsvc

import (
	"context"
	"time"

	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/app/system/notify"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Repository is the persistence the engine needs. *eventstore.Store
// satisfies it; its sentinel errors are part of the contract.
type Repository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
	Find(ctx context.Context, f eventstore.Filter) ([]models.Event, error)
	Create(ctx context.Context, ev models.Event) (models.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, p eventstore.Patch) (models.Event, error)
	AddParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant, notBefore time.Time) (models.Event, error)
	RemoveParticipant(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Notifier accepts registration notices without blocking.
type Notifier interface {
	Enqueue(n notify.RegistrationNotice) bool
}

// Options tunes the engine. Zero values pick defaults.
type Options struct {
	// MaxAttempts bounds roster writes per Register/Unregister call. A write
	// is only repeated when it was refused but a re-read shows no reason.
	MaxAttempts int
	// InitialBackoff and MaxBackoff shape the wait between repeated writes.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Now is the clock; tests pin it.
	Now func() time.Time
}

// Defaults applied by New for zero Options fields.
const (
	DefaultMaxAttempts    = 10
	DefaultInitialBackoff = 5 * time.Millisecond
	DefaultMaxBackoff     = 200 * time.Millisecond
)

// Service runs event lifecycle, registration and query operations.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *zap.Logger

	now            func() time.Time
	maxAttempts    uint
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New builds the engine. notifier may be nil, in which case no
// confirmations are sent.
func New(repo Repository, notifier Notifier, logger *zap.Logger, opts Options) *Service {
	s := &Service{
		repo:           repo,
		notifier:       notifier,
		log:            logger,
		now:            opts.Now,
		maxAttempts:    DefaultMaxAttempts,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MaxAttempts > 0 {
		s.maxAttempts = uint(opts.MaxAttempts)
	}
	if s.initialBackoff <= 0 {
		s.initialBackoff = DefaultInitialBackoff
	}
	if s.maxBackoff < s.initialBackoff {
		s.maxBackoff = DefaultMaxBackoff
		if s.maxBackoff < s.initialBackoff {
			s.maxBackoff = s.initialBackoff
		}
	}
	return s
}
