// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant is one entry in an event's roster.
type Participant struct {
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registeredAt"`
}

// Event is the aggregate: event details plus the embedded participant roster.
//
// NOTE:
//   - Date holds the calendar day at UTC midnight; Time is the "HH:MM" string.
//   - RosterVersion increments on every roster write.
//   - MaxParticipants nil means unbounded.
type Event struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Title           string             `bson:"title" json:"title"`
	TitleCI         string             `bson:"title_ci" json:"-"`
	Description     string             `bson:"description" json:"description"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Location        string             `bson:"location" json:"location"`
	OrganizerID     primitive.ObjectID `bson:"organizer_id" json:"organizerId"`
	MaxParticipants *int               `bson:"max_participants,omitempty" json:"maxParticipants,omitempty"`
	IsActive        bool               `bson:"is_active" json:"isActive"`

	Participants  []Participant `bson:"participants" json:"participants"`
	RosterVersion int64         `bson:"roster_version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasParticipant reports whether userID is already on the roster.
func (e Event) HasParticipant(userID primitive.ObjectID) bool {
	return e.participantIndex(userID) >= 0
}

// IsFull reports whether a bounded event has no open slot left.
func (e Event) IsFull() bool {
	return e.MaxParticipants != nil && len(e.Participants) >= *e.MaxParticipants
}

func (e Event) participantIndex(userID primitive.ObjectID) int {
	for i, p := range e.Participants {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
