// Package notify delivers best-effort registration confirmations.
//
// Enqueue never blocks the caller: notices go onto a bounded queue drained by
// a small worker pool. A full queue drops the notice with a warning, and
// send failures are only logged.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/eventhub/internal/app/system/mailer"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RegistrationNotice describes one confirmed registration.
type RegistrationNotice struct {
	UserID     primitive.ObjectID
	EventID    primitive.ObjectID
	EventTitle string
	EventDate  time.Time
	EventTime  string
	Location   string
}

// NoticeFor builds the notice for userID joining ev.
func NoticeFor(ev models.Event, userID primitive.ObjectID) RegistrationNotice {
	return RegistrationNotice{
		UserID:     userID,
		EventID:    ev.ID,
		EventTitle: ev.Title,
		EventDate:  ev.Date,
		EventTime:  ev.Time,
		Location:   ev.Location,
	}
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Recipients resolves a user ID to the account to mail.
type Recipients interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Config sizes the dispatcher.
type Config struct {
	QueueSize   int
	Workers     int
	SiteName    string
	SendTimeout time.Duration
}

// Dispatcher is a background worker pool that turns notices into emails.
type Dispatcher struct {
	cfg    Config
	users  Recipients
	sender Sender
	log    *zap.Logger

	queue    chan RegistrationNotice
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Call Start before enqueueing.
func NewDispatcher(cfg Config, users Recipients, sender Sender, logger *zap.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	return &Dispatcher{
		cfg:    cfg,
		users:  users,
		sender: sender,
		log:    logger,
		queue:  make(chan RegistrationNotice, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	d.log.Info("notification dispatcher started",
		zap.Int("workers", d.cfg.Workers),
		zap.Int("queue_size", d.cfg.QueueSize))
}

// Stop signals the workers to finish and waits for them. Notices still
// queued are dropped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
	if n := len(d.queue); n > 0 {
		d.log.Warn("notification dispatcher stopped with pending notices", zap.Int("dropped", n))
	} else {
		d.log.Info("notification dispatcher stopped")
	}
}

// Enqueue hands n to the workers without blocking. It reports whether the
// notice was accepted.
func (d *Dispatcher) Enqueue(n RegistrationNotice) bool {
	select {
	case <-d.stopCh:
		d.log.Warn("notification dropped: dispatcher stopped",
			zap.String("event_id", n.EventID.Hex()),
			zap.String("user_id", n.UserID.Hex()))
		return false
	default:
	}

	select {
	case d.queue <- n:
		return true
	default:
		d.log.Warn("notification dropped: queue full",
			zap.String("event_id", n.EventID.Hex()),
			zap.String("user_id", n.UserID.Hex()),
			zap.Int("queue_size", d.cfg.QueueSize))
		return false
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			return
		case n := <-d.queue:
			d.deliver(n)
		}
	}
}

func (d *Dispatcher) deliver(n RegistrationNotice) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	u, err := d.users.GetByID(ctx, n.UserID)
	if err != nil {
		d.log.Warn("notification skipped: recipient lookup failed",
			zap.String("user_id", n.UserID.Hex()), zap.Error(err))
		return
	}

	msg := mailer.BuildRegistrationEmail(mailer.RegistrationEmailData{
		SiteName:     d.cfg.SiteName,
		AttendeeName: u.Name,
		EventTitle:   n.EventTitle,
		EventDate:    n.EventDate.UTC().Format("Monday, January 2, 2006"),
		EventTime:    n.EventTime,
		Location:     n.Location,
	})
	msg.To = u.Email

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Warn("registration email failed",
			zap.String("event_id", n.EventID.Hex()),
			zap.String("to", u.Email),
			zap.Error(err))
		return
	}
	d.log.Debug("registration email sent",
		zap.String("event_id", n.EventID.Hex()),
		zap.String("to", u.Email))
}
