// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/timeouts"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserLookup resolves a token subject to the stored user.
// It returns userstore.ErrNotFound when the account no longer exists.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type ctxKey string

const principalKey ctxKey = "principal"

// Middleware turns a bearer credential into a Principal on the request context.
type Middleware struct {
	tokens *Tokens
	users  UserLookup
	log    *zap.Logger
}

// NewMiddleware wires the identity check.
func NewMiddleware(tokens *Tokens, users UserLookup, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, log: logger}
}

// RequireUser rejects requests without a valid bearer token for an existing
// user with 401. On success the Principal is available via CurrentPrincipal.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.identify(r)
		if err != nil {
			jsonresp.Error(w, r, m.log, err)
			return
		}
		next.ServeHTTP(w, WithPrincipal(r, p))
	})
}

func (m *Middleware) identify(r *http.Request) (models.Principal, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return models.Principal{}, apperr.Authentication(apperr.MsgNoToken)
	}
	id, err := m.tokens.Verify(raw)
	if err != nil {
		return models.Principal{}, apperr.Wrap(apperr.KindAuthentication, apperr.MsgInvalidToken, err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := m.users.GetByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		return models.Principal{}, apperr.Authentication(apperr.MsgUserNotFound)
	}
	if err != nil {
		return models.Principal{}, err
	}
	return PrincipalOf(u), nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// PrincipalOf projects a stored user onto the identity the core sees.
func PrincipalOf(u models.User) models.Principal {
	return models.Principal{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

// CurrentPrincipal returns the authenticated caller, if any.
func CurrentPrincipal(r *http.Request) (models.Principal, bool) {
	p, ok := r.Context().Value(principalKey).(models.Principal)
	return p, ok
}

// WithPrincipal returns r carrying p.
func WithPrincipal(r *http.Request, p models.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

// WithTestPrincipal injects p into the request context, bypassing token
// verification. For handler tests only.
func WithTestPrincipal(r *http.Request, p models.Principal) *http.Request {
	return WithPrincipal(r, p)
}
