package eventsvc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/notify"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func today() time.Time {
	y, m, d := testNow.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.RegistrationNotice
}

func (n *recordingNotifier) Enqueue(rn notify.RegistrationNotice) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, rn)
	return true
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func newService(repo eventsvc.Repository, n eventsvc.Notifier) *eventsvc.Service {
	return eventsvc.New(repo, n, zap.NewNop(), eventsvc.Options{
		Now:            func() time.Time { return testNow },
		MaxAttempts:    100,
		InitialBackoff: time.Microsecond,
		MaxBackoff:     time.Millisecond,
	})
}

func organizer() models.Principal {
	return models.Principal{ID: primitive.NewObjectID(), Role: models.RoleOrganizer, Name: "Olive"}
}

func attendee() models.Principal {
	return models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAttendee, Name: "Arthur"}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// seed stores an active event owned by owner, dated daysAhead days after today.
func seed(repo *memRepo, owner primitive.ObjectID, daysAhead int, max *int) models.Event {
	return repo.put(models.Event{
		Title:           "Gopher Meetup",
		Description:     "Talks and snacks for gophers",
		Date:            today().AddDate(0, 0, daysAhead),
		Time:            "18:30",
		Location:        "Main Hall",
		OrganizerID:     owner,
		MaxParticipants: max,
		IsActive:        true,
	})
}

func assertErr(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error %q, got nil", kind, msg)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Errorf("kind = %s, want %s (err: %v)", got, kind, err)
	}
	if msg != "" {
		if got := apperr.Message(err); got != msg {
			t.Errorf("message = %q, want %q", got, msg)
		}
	}
}
