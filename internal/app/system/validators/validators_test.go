package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/eventhub/internal/app/system/validators"
	"github.com/dalemusser/eventhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"users", "events"} {
		if !found[want] {
			t.Errorf("expected collection %q", want)
		}
	}
}

func validEvent() bson.M {
	return bson.M{
		"_id":            primitive.NewObjectID(),
		"title":          "Go Meetup",
		"description":    "Monthly gathering of gophers",
		"date":           time.Now().UTC(),
		"time":           "18:30",
		"location":       "Main Hall",
		"organizer_id":   primitive.NewObjectID(),
		"is_active":      true,
		"participants":   bson.A{},
		"roster_version": int64(0),
	}
}

func TestEventsValidator(t *testing.T) {
	db := setup(t)
	coll := db.Collection("events")

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{"valid", func(bson.M) {}, false},
		{"valid with capacity", func(d bson.M) { d["max_participants"] = 5 }, false},
		{"missing title", func(d bson.M) { delete(d, "title") }, true},
		{"short title", func(d bson.M) { d["title"] = "Go" }, true},
		{"short description", func(d bson.M) { d["description"] = "too short" }, true},
		{"bad time", func(d bson.M) { d["time"] = "25:00" }, true},
		{"zero capacity", func(d bson.M) { d["max_participants"] = 0 }, true},
		{"participant without user", func(d bson.M) {
			d["participants"] = bson.A{bson.M{"registered_at": time.Now()}}
		}, true},
		{"organizer not an id", func(d bson.M) { d["organizer_id"] = "someone" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testutil.TestContext()
			defer cancel()

			doc := validEvent()
			tt.mutate(doc)
			_, err := coll.InsertOne(ctx, doc)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUsersValidator(t *testing.T) {
	db := setup(t)
	coll := db.Collection("users")

	valid := func() bson.M {
		return bson.M{
			"_id":           primitive.NewObjectID(),
			"name":          "Ada",
			"email":         primitive.NewObjectID().Hex() + "@example.com",
			"password_hash": "hash",
			"role":          "attendee",
		}
	}

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{"valid attendee", func(bson.M) {}, false},
		{"valid organizer", func(d bson.M) { d["role"] = "organizer" }, false},
		{"unknown role", func(d bson.M) { d["role"] = "admin" }, true},
		{"blank name", func(d bson.M) { d["name"] = "   " }, true},
		{"missing password", func(d bson.M) { delete(d, "password_hash") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testutil.TestContext()
			defer cancel()

			doc := valid()
			tt.mutate(doc)
			_, err := coll.InsertOne(ctx, doc)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
