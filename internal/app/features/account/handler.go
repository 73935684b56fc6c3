// internal/app/features/account/handler.go
package account

import (
	"encoding/json"
	"net/http"
	"time"

	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/ratelimit"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves signup, login and the current-user profile.
type Handler struct {
	Users      *userstore.Store
	Tokens     *auth.Tokens
	BcryptCost int
	Log        *zap.Logger

	// Guard throttles credential attempts; nil disables throttling.
	Guard *ratelimit.CredentialGuard
}

// NewHandler constructs an account Handler.
func NewHandler(users *userstore.Store, tokens *auth.Tokens, bcryptCost int, guard *ratelimit.CredentialGuard, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, BcryptCost: bcryptCost, Guard: guard, Log: logger}
}

// throttled reports and writes a 429 when the guard refuses the attempt.
func (h *Handler) throttled(w http.ResponseWriter, r *http.Request, email string) bool {
	if h.Guard == nil {
		return false
	}
	msg := h.Guard.Check(r, email)
	if msg == "" {
		return false
	}
	h.Log.Warn("credential attempt throttled",
		zap.String("ip", ratelimit.ClientIP(r)),
		zap.String("path", r.URL.Path))
	jsonresp.Error(w, r, h.Log, apperr.TooManyRequests(msg))
	return true
}

const maxBodyBytes = 16 << 10

var errInvalidBody = apperr.Validation("Invalid request body")

// userView is the public projection of an account.
type userView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

func viewOf(u models.User) userView {
	return userView{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
