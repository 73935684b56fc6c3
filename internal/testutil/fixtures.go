package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/eventhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role. The password hash is a
// placeholder; use the account feature when a real login is needed.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, role models.Role) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateOrganizer creates a test organizer.
func (f *Fixtures) CreateOrganizer(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleOrganizer)
}

// CreateAttendee creates a test attendee.
func (f *Fixtures) CreateAttendee(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAttendee)
}

// CreateEvent inserts an active event dated daysAhead days from today with
// the given capacity (nil for unbounded) and an empty roster.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, organizerID primitive.ObjectID, daysAhead int, maxParticipants *int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	y, m, d := now.Date()
	ev := models.Event{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		Description:     "Fixture event description",
		Date:            time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysAhead),
		Time:            "18:30",
		Location:        "Main Hall",
		OrganizerID:     organizerID,
		MaxParticipants: maxParticipants,
		IsActive:        true,
		Participants:    []models.Participant{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
