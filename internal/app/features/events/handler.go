// internal/app/features/events/handler.go
package events

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserDirectory resolves the organizer and participant summaries embedded
// in event responses.
type UserDirectory interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// Handler is the dependency container for the events API.
type Handler struct {
	Svc   *eventsvc.Service
	Users UserDirectory
	Log   *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(svc *eventsvc.Service, users UserDirectory, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Users: users, Log: logger}
}

// maxBodyBytes caps event JSON payloads.
const maxBodyBytes = 64 << 10

var (
	errInvalidID   = apperr.Validation("Invalid ID format")
	errInvalidBody = apperr.Validation("Invalid request body")
	errNoPrincipal = apperr.Authentication(apperr.MsgNoToken)
)

// principal returns the caller placed on the context by auth.RequireUser.
func principal(r *http.Request) (models.Principal, error) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		return models.Principal{}, errNoPrincipal
	}
	return p, nil
}

// eventID parses the {id} path parameter.
func eventID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
