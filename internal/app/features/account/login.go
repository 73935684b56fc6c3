// internal/app/features/account/login.go
package account

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/app/system/inputval"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var errBadCredentials = apperr.Authentication("Invalid email or password")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login. Unknown email and wrong
// password are indistinguishable to the caller.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	if h.throttled(w, r, req.Email) {
		return
	}
	email, err := inputval.Email(req.Email)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	if req.Password == "" {
		jsonresp.Error(w, r, h.Log, apperr.Validation("Password is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		jsonresp.Error(w, r, h.Log, errBadCredentials)
		return
	}
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		h.Log.Info("login failed", zap.String("user_id", u.ID.Hex()))
		jsonresp.Error(w, r, h.Log, errBadCredentials)
		return
	}

	if h.Guard != nil {
		h.Guard.Succeeded(email)
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	jsonresp.OK(w, http.StatusOK, "Login successful",
		map[string]any{"user": viewOf(u), "token": token})
}
