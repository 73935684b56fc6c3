package eventsvc_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Runs the last-slot race against MongoDB so the conditional roster write is
// exercised for real.
func TestRegister_MongoLastSlotRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	svc := eventsvc.New(eventstore.New(db), nil, zap.NewNop(), eventsvc.Options{})
	ev := fixtures.CreateEvent(ctx, "Race Night", primitive.NewObjectID(), 2, testutil.IntPtr(3))

	const contenders = 12
	var wins, full int32
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, attendee(), ev.ID)
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

	if wins != 3 || full != contenders-3 {
		t.Errorf("wins=%d full=%d, want 3/%d", wins, full, contenders-3)
	}

	got, err := eventstore.New(db).GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Participants) != 3 {
		t.Errorf("roster = %d, want 3", len(got.Participants))
	}
}

func TestRegister_MongoBurstAtCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const capacity = 40
	svc := eventsvc.New(eventstore.New(db), nil, zap.NewNop(), eventsvc.Options{})
	ev := fixtures.CreateEvent(ctx, "Full House", primitive.NewObjectID(), 2, testutil.IntPtr(capacity))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < capacity; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Register(ctx, attendee(), ev.ID); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			atomic.AddInt32(&wins, 1)
		}()
	}
	wg.Wait()

	if wins != capacity {
		t.Errorf("wins = %d, want %d", wins, capacity)
	}
	got, err := eventstore.New(db).GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Participants) != capacity || got.RosterVersion != capacity {
		t.Errorf("roster=%d version=%d, want %d", len(got.Participants), got.RosterVersion, capacity)
	}
}
