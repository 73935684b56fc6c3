// internal/app/features/account/me.go
package account

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
)

// ServeMe handles GET /api/auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		jsonresp.Error(w, r, h.Log, apperr.Authentication(apperr.MsgNoToken))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.ID)
	if errors.Is(err, userstore.ErrNotFound) {
		jsonresp.Error(w, r, h.Log, apperr.Authentication(apperr.MsgUserNotFound))
		return
	}
	if err != nil {
		jsonresp.Error(w, r, h.Log, err)
		return
	}

	v := viewOf(u)
	v.CreatedAt = &u.CreatedAt
	jsonresp.OK(w, http.StatusOK, "", map[string]any{"user": v})
}
