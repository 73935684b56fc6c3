// internal/app/features/account/register.go
package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/app/system/inputval"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.uber.org/zap"
)

const msgEmailTaken = "User with this email already exists"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signupInput struct {
	name, email, password string
	role                  models.Role
}

func (req registerRequest) validate() (signupInput, error) {
	var in signupInput
	var err error
	if in.name, err = inputval.Name(req.Name); err != nil {
		return in, err
	}
	if in.email, err = inputval.Email(req.Email); err != nil {
		return in, err
	}
	if err = inputval.Password(req.Password); err != nil {
		return in, err
	}
	in.password = req.Password

	in.role = models.RoleAttendee
	if r := strings.TrimSpace(req.Role); r != "" {
		role, ok := models.ParseRole(r)
		if !ok {
			return in, apperr.Validation("Role must be either organizer or attendee")
		}
		in.role = role
	}
	return in, nil
}

// HandleRegister handles POST /api/auth/register.
//
// Role is optional and defaults to attendee. On success: 201 with
// { "user": {...}, "token": "<jwt>" }.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if h.throttled(w, r, "") {
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}
	in, err := req.validate()
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, in.email); err == nil {
		jsonresp.Error(w, r, h.Log, apperr.Validation(msgEmailTaken))
		return
	} else if !errors.Is(err, userstore.ErrNotFound) {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	hash, err := auth.HashPassword(in.password, h.BcryptCost)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:         in.name,
		Email:        in.email,
		PasswordHash: hash,
		Role:         in.role,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Lost a race with a concurrent signup for the same address.
		jsonresp.Error(w, r, h.Log, apperr.Validation(msgEmailTaken))
		return
	}
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", string(u.Role)))
	jsonresp.OK(w, http.StatusCreated, "User registered successfully",
		map[string]any{"user": viewOf(u), "token": token})
}
