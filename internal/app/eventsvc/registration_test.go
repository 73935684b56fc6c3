package eventsvc_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRegister_Success(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	svc := newService(repo, notifier)
	ev := seed(repo, primitive.NewObjectID(), 2, intPtr(10))
	a := attendee()

	got, err := svc.Register(context.Background(), a, ev.ID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !got.HasParticipant(a.ID) || len(got.Participants) != 1 {
		t.Errorf("roster = %+v", got.Participants)
	}
	if !got.Participants[0].RegisteredAt.Equal(testNow) {
		t.Errorf("RegisteredAt = %v, want %v", got.Participants[0].RegisteredAt, testNow)
	}
	if got.RosterVersion != 1 {
		t.Errorf("RosterVersion = %d, want 1", got.RosterVersion)
	}
	if notifier.count() != 1 {
		t.Errorf("notices = %d, want 1", notifier.count())
	}
	if notifier.notices[0].UserID != a.ID || notifier.notices[0].EventTitle != ev.Title {
		t.Errorf("unexpected notice: %+v", notifier.notices[0])
	}
}

func TestRegister_OrganizerMayRegister(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	org := organizer()
	ev := seed(repo, org.ID, 2, nil)

	if _, err := svc.Register(context.Background(), org, ev.ID); err != nil {
		t.Errorf("organizer registering: %v", err)
	}
}

func TestRegister_CheckOrder(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ctx := context.Background()
	a := attendee()

	// Not found beats everything.
	_, err := svc.Register(ctx, a, primitive.NewObjectID())
	assertErr(t, err, apperr.KindNotFound, "Event not found")

	// Inactive beats past, duplicate and full.
	inactive := seed(repo, primitive.NewObjectID(), -3, intPtr(1))
	full := inactive
	full.IsActive = false
	full.Participants = []models.Participant{{UserID: a.ID, RegisteredAt: testNow}}
	repo.put(full)
	_, err = svc.Register(ctx, a, inactive.ID)
	assertErr(t, err, apperr.KindValidation, "This event is not active")

	// Past beats duplicate and full.
	past := seed(repo, primitive.NewObjectID(), -1, intPtr(1))
	past.Participants = []models.Participant{{UserID: a.ID, RegisteredAt: testNow}}
	repo.put(past)
	_, err = svc.Register(ctx, a, past.ID)
	assertErr(t, err, apperr.KindValidation, "Cannot register for past events")

	// Duplicate beats full.
	dup := seed(repo, primitive.NewObjectID(), 1, intPtr(1))
	dup.Participants = []models.Participant{{UserID: a.ID, RegisteredAt: testNow}}
	repo.put(dup)
	_, err = svc.Register(ctx, a, dup.ID)
	assertErr(t, err, apperr.KindConflict, "You are already registered for this event")

	// Full.
	_, err = svc.Register(ctx, attendee(), dup.ID)
	assertErr(t, err, apperr.KindValidation, "Event is full")
}

func TestRegister_SameDayIsPast(t *testing.T) {
	// The stored date is midnight UTC, which is already behind the clock.
	repo := newMemRepo()
	svc := newService(repo, nil)
	ev := seed(repo, primitive.NewObjectID(), 0, nil)

	_, err := svc.Register(context.Background(), attendee(), ev.ID)
	assertErr(t, err, apperr.KindValidation, "Cannot register for past events")
}

func TestRegister_UnboundedCapacity(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ev := seed(repo, primitive.NewObjectID(), 1, nil)

	for i := 0; i < 50; i++ {
		if _, err := svc.Register(context.Background(), attendee(), ev.ID); err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
	}
	got, _ := repo.GetByID(context.Background(), ev.ID)
	if len(got.Participants) != 50 {
		t.Errorf("participants = %d, want 50", len(got.Participants))
	}
}

func TestUnregister(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ctx := context.Background()
	ev := seed(repo, primitive.NewObjectID(), 1, intPtr(1))
	a := attendee()

	_, err := svc.Unregister(ctx, a, ev.ID)
	assertErr(t, err, apperr.KindValidation, "You are not registered for this event")

	_, err = svc.Unregister(ctx, a, primitive.NewObjectID())
	assertErr(t, err, apperr.KindNotFound, "Event not found")

	if _, err := svc.Register(ctx, a, ev.ID); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := svc.Unregister(ctx, a, ev.ID)
	if err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if got.HasParticipant(a.ID) {
		t.Error("participant still on roster")
	}

	// The freed slot is available again.
	if _, err := svc.Register(ctx, attendee(), ev.ID); err != nil {
		t.Errorf("Register after unregister: %v", err)
	}
}

func TestUnregister_PastEventAllowed(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	a := attendee()
	ev := seed(repo, primitive.NewObjectID(), -2, nil)
	ev.Participants = []models.Participant{{UserID: a.ID, RegisteredAt: testNow}}
	repo.put(ev)

	if _, err := svc.Unregister(context.Background(), a, ev.ID); err != nil {
		t.Errorf("Unregister from past event: %v", err)
	}
}

func TestRegisterUnregister_RoundTrip(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ctx := context.Background()
	ev := seed(repo, primitive.NewObjectID(), 1, intPtr(3))
	a := attendee()
	b := attendee()

	if _, err := svc.Register(ctx, b, ev.ID); err != nil {
		t.Fatalf("Register b: %v", err)
	}
	before, _ := repo.GetByID(ctx, ev.ID)

	if _, err := svc.Register(ctx, a, ev.ID); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if _, err := svc.Unregister(ctx, a, ev.ID); err != nil {
		t.Fatalf("Unregister a: %v", err)
	}
	after, _ := repo.GetByID(ctx, ev.ID)

	if len(after.Participants) != len(before.Participants) {
		t.Fatalf("roster size %d, want %d", len(after.Participants), len(before.Participants))
	}
	for i := range before.Participants {
		if after.Participants[i] != before.Participants[i] {
			t.Errorf("participant %d changed: %+v -> %+v", i, before.Participants[i], after.Participants[i])
		}
	}
}

func TestRegister_LastSlotRace(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ev := seed(repo, primitive.NewObjectID(), 1, intPtr(2))

	var wins, full, other int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), attendee(), ev.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case apperr.Message(err) == eventsvc.MsgEventFull:
				atomic.AddInt32(&full, 1)
			default:
				atomic.AddInt32(&other, 1)
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 2 || full != 1 || other != 0 {
		t.Errorf("wins=%d full=%d other=%d, want 2/1/0", wins, full, other)
	}
}

func TestRegister_ConcurrentNeverOverAdmits(t *testing.T) {
	const (
		capacity  = 10
		attendees = 100
	)
	repo := newMemRepo()
	svc := newService(repo, nil)
	ev := seed(repo, primitive.NewObjectID(), 1, intPtr(capacity))

	var wins, full int32
	var wg sync.WaitGroup
	for i := 0; i < attendees; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), attendee(), ev.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case apperr.Message(err) == eventsvc.MsgEventFull:
				atomic.AddInt32(&full, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != capacity {
		t.Errorf("wins = %d, want %d", wins, capacity)
	}
	if full != attendees-capacity {
		t.Errorf("full = %d, want %d", full, attendees-capacity)
	}

	got, _ := repo.GetByID(context.Background(), ev.ID)
	if len(got.Participants) != capacity {
		t.Errorf("roster = %d, want %d", len(got.Participants), capacity)
	}
	seen := map[primitive.ObjectID]bool{}
	for _, p := range got.Participants {
		if seen[p.UserID] {
			t.Errorf("duplicate participant %s", p.UserID.Hex())
		}
		seen[p.UserID] = true
	}
}

func TestRegister_SameUserConcurrent(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	ev := seed(repo, primitive.NewObjectID(), 1, nil)
	a := attendee()

	var wins, dup int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), a, ev.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case apperr.KindOf(err) == apperr.KindConflict:
				atomic.AddInt32(&dup, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || dup != 19 {
		t.Errorf("wins=%d duplicates=%d, want 1/19", wins, dup)
	}
}

func TestRegister_RetriesExhausted(t *testing.T) {
	repo := &alwaysRefused{memRepo: newMemRepo()}
	ev := seed(repo.memRepo, primitive.NewObjectID(), 1, nil)
	svc := eventsvc.New(repo, nil, zap.NewNop(), eventsvc.Options{
		Now:            func() time.Time { return testNow },
		MaxAttempts:    4,
		InitialBackoff: time.Microsecond,
		MaxBackoff:     time.Microsecond,
	})

	_, err := svc.Register(context.Background(), attendee(), ev.ID)
	assertErr(t, err, apperr.KindConflict, eventsvc.MsgRegistrationBusy)
	if repo.attempts != 4 {
		t.Errorf("attempts = %d, want 4", repo.attempts)
	}
}

func TestRegister_ContextCanceled(t *testing.T) {
	repo := &alwaysRefused{memRepo: newMemRepo()}
	ev := seed(repo.memRepo, primitive.NewObjectID(), 1, nil)
	svc := eventsvc.New(repo, nil, zap.NewNop(), eventsvc.Options{
		Now:            func() time.Time { return testNow },
		MaxAttempts:    1000,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.Register(ctx, attendee(), ev.ID); err == nil {
		t.Fatal("expected error after context deadline")
	}
	if repo.attempts >= 1000 {
		t.Error("retry loop ignored context")
	}
}

// A burst of distinct attendees equal to capacity must all get in with the
// production retry settings, even when every repository call is slow enough
// for the callers to overlap.
func TestRegister_BurstWithDefaultOptions(t *testing.T) {
	const capacity = 300
	repo := &slowRepo{memRepo: newMemRepo(), delay: 2 * time.Millisecond}
	ev := seed(repo.memRepo, primitive.NewObjectID(), 1, intPtr(capacity))
	svc := eventsvc.New(repo, nil, zap.NewNop(), eventsvc.Options{
		Now: func() time.Time { return testNow },
	})

	var wins, other int32
	var wg sync.WaitGroup
	for i := 0; i < capacity; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Register(context.Background(), attendee(), ev.ID); err != nil {
				atomic.AddInt32(&other, 1)
				t.Errorf("unexpected error: %v", err)
				return
			}
			atomic.AddInt32(&wins, 1)
		}()
	}
	wg.Wait()

	if wins != capacity || other != 0 {
		t.Errorf("wins=%d errors=%d, want %d/0", wins, other, capacity)
	}
	if repo.writes != capacity || repo.refused != 0 {
		t.Errorf("writes=%d refused=%d, want %d/0 while slots were free", repo.writes, repo.refused, capacity)
	}
	got, _ := repo.GetByID(context.Background(), ev.ID)
	if len(got.Participants) != capacity {
		t.Errorf("roster = %d, want %d", len(got.Participants), capacity)
	}
}

func TestRegister_OverflowWithDefaultOptions(t *testing.T) {
	const (
		capacity  = 50
		attendees = 200
	)
	repo := &slowRepo{memRepo: newMemRepo(), delay: time.Millisecond}
	ev := seed(repo.memRepo, primitive.NewObjectID(), 1, intPtr(capacity))
	svc := eventsvc.New(repo, nil, zap.NewNop(), eventsvc.Options{
		Now: func() time.Time { return testNow },
	})

	var wins, full int32
	var wg sync.WaitGroup
	for i := 0; i < attendees; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), attendee(), ev.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case apperr.Message(err) == eventsvc.MsgEventFull:
				atomic.AddInt32(&full, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != capacity || full != attendees-capacity {
		t.Errorf("wins=%d full=%d, want %d/%d", wins, full, capacity, attendees-capacity)
	}
}

func TestUnregister_NotRegisteredAfterConcurrentRemoval(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, nil)
	a := attendee()
	ev := seed(repo, primitive.NewObjectID(), 1, nil)
	if _, err := svc.Register(context.Background(), a, ev.ID); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var ok, notReg int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Unregister(context.Background(), a, ev.ID)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case apperr.Message(err) == eventsvc.MsgNotRegistered:
				atomic.AddInt32(&notReg, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || notReg != 9 {
		t.Errorf("removed=%d not-registered=%d, want 1/9", ok, notReg)
	}
}

func TestRegister_SingleAttemptReturnsPlainError(t *testing.T) {
	repo := newMemRepo()
	svc := eventsvc.New(repo, nil, zap.NewNop(), eventsvc.Options{
		Now:         func() time.Time { return testNow },
		MaxAttempts: 1,
	})
	ev := seed(repo, primitive.NewObjectID(), 1, intPtr(1))
	if _, err := svc.Register(context.Background(), attendee(), ev.ID); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Register(context.Background(), attendee(), ev.ID)
	if _, ok := err.(*apperr.Error); !ok {
		t.Fatalf("err = %T (%v), want *apperr.Error", err, err)
	}
	assertErr(t, err, apperr.KindValidation, eventsvc.MsgEventFull)
}
