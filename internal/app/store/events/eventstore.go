// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/eventhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the events collection.
const Collection = "events"

var (
	// ErrNotFound is returned when no event has the requested ID.
	ErrNotFound = errors.New("event not found")
	// ErrRosterUnchanged is returned by AddParticipant and RemoveParticipant
	// when the event exists but the conditional write matched nothing.
	// Callers re-read the event to learn which condition failed.
	ErrRosterUnchanged = errors.New("event roster preconditions not met")
	// ErrCapacityBelowRoster is returned by Update when a new max_participants
	// is lower than the number of registered participants.
	ErrCapacityBelowRoster = errors.New("max participants below current roster size")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Filter narrows Find. Zero fields are ignored.
type Filter struct {
	Search        string              // case-insensitive literal match on title or description
	Date          *time.Time          // calendar day (UTC)
	IsActive      *bool               // exact match
	OrganizerID   *primitive.ObjectID // events owned by this user
	ParticipantID *primitive.ObjectID // events whose roster contains this user
}

// Patch lists the fields Update may change. Nil fields are left alone.
// organizer_id and the roster are deliberately absent.
type Patch struct {
	Title           *string
	Description     *string
	Date            *time.Time
	Time            *string
	Location        *string
	MaxParticipants *int
	IsActive        *bool
}

// IsEmpty reports whether the patch touches no field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Time == nil &&
		p.Location == nil && p.MaxParticipants == nil && p.IsActive == nil
}

// GetByID loads one event. Returns ErrNotFound if it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound
		}
		return models.Event{}, err
	}
	return ev, nil
}

// Find returns the events matching f, sorted by date ascending.
func (s *Store) Find(ctx context.Context, f Filter) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := make([]models.Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func filterDoc(f Filter) bson.M {
	q := bson.M{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q["$or"] = bson.A{
			bson.M{"title_ci": primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(s))}},
			bson.M{"description": primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}},
		}
	}
	if f.Date != nil {
		y, m, d := f.Date.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		q["date"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}
	if f.IsActive != nil {
		q["is_active"] = *f.IsActive
	}
	if f.OrganizerID != nil {
		q["organizer_id"] = *f.OrganizerID
	}
	if f.ParticipantID != nil {
		q["participants.user_id"] = *f.ParticipantID
	}
	return q
}

// Create inserts ev with a fresh ID, an empty roster and timestamps set.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	now := time.Now().UTC()
	ev.ID = primitive.NewObjectID()
	ev.TitleCI = text.Fold(ev.Title)
	ev.Participants = []models.Participant{}
	ev.RosterVersion = 0
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Update applies p and returns the stored result.
//
// When p lowers max_participants the write is conditioned on the current
// roster fitting under the new limit; otherwise ErrCapacityBelowRoster.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Event, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
		set["title_ci"] = text.Fold(*p.Title)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Time != nil {
		set["time"] = *p.Time
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}

	filter := bson.M{"_id": id}
	if p.MaxParticipants != nil {
		set["max_participants"] = *p.MaxParticipants
		filter["$expr"] = bson.M{"$lte": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}},
			*p.MaxParticipants,
		}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&ev)
	if err == nil {
		return ev, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, err
	}
	if exists, xerr := s.exists(ctx, id); xerr != nil {
		return models.Event{}, xerr
	} else if exists {
		return models.Event{}, ErrCapacityBelowRoster
	}
	return models.Event{}, ErrNotFound
}

// AddParticipant appends p to the roster in one conditional write. The
// write only applies while the event is active, dated no earlier than
// notBefore, does not already list p.UserID, and has a free slot. On
// success roster_version is incremented and the updated event is returned.
//
// Returns ErrNotFound if the event is gone and ErrRosterUnchanged if any
// condition failed.
func (s *Store) AddParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant, notBefore time.Time) (models.Event, error) {
	filter := bson.M{
		"_id":                  id,
		"is_active":            true,
		"date":                 bson.M{"$gte": notBefore},
		"participants.user_id": bson.M{"$ne": p.UserID},
		"$or": bson.A{
			bson.M{"max_participants": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}},
				"$max_participants",
			}}},
		},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
		"$inc":  bson.M{"roster_version": 1},
	}
	return s.updateRoster(ctx, id, filter, update)
}

// RemoveParticipant pulls userID from the roster in one conditional write.
// Returns ErrNotFound if the event is gone and ErrRosterUnchanged if userID
// is not on the roster.
func (s *Store) RemoveParticipant(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (models.Event, error) {
	filter := bson.M{
		"_id":                  id,
		"participants.user_id": userID,
	}
	update := bson.M{
		"$pull": bson.M{"participants": bson.M{"user_id": userID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
		"$inc":  bson.M{"roster_version": 1},
	}
	return s.updateRoster(ctx, id, filter, update)
}

func (s *Store) updateRoster(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (models.Event, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ev)
	if err == nil {
		return ev, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, err
	}
	if exists, xerr := s.exists(ctx, id); xerr != nil {
		return models.Event{}, xerr
	} else if exists {
		return models.Event{}, ErrRosterUnchanged
	}
	return models.Event{}, ErrNotFound
}

// Delete permanently removes an event. Returns ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
