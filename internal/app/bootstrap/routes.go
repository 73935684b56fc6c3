// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/eventsvc"
	accountfeature "github.com/dalemusser/eventhub/internal/app/features/account"
	eventsfeature "github.com/dalemusser/eventhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/eventhub/internal/app/features/health"
	eventstore "github.com/dalemusser/eventhub/internal/app/store/events"
	userstore "github.com/dalemusser/eventhub/internal/app/store/users"
	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/app/system/jsonresp"
	"github.com/dalemusser/eventhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It wires the stores, the event service and the
// bearer-token middleware, then mounts:
//
//	/health       liveness plus MongoDB ping
//	/api/auth     signup, login, current user
//	/api/events   event lifecycle, registration, query views
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokens(appCfg.JWTSecret, appCfg.JWTExpiry)
	if err != nil {
		logger.Error("token signer init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	mw := auth.NewMiddleware(tokens, users, logger)

	var notifier eventsvc.Notifier
	if deps.Notifier != nil {
		notifier = deps.Notifier
	}
	svc := eventsvc.New(eventstore.New(deps.MongoDatabase), notifier, logger, eventsvc.Options{
		MaxAttempts: appCfg.RegisterMaxAttempts,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonresp.Write(w, http.StatusNotFound, jsonresp.Envelope{Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonresp.Write(w, http.StatusMethodNotAllowed, jsonresp.Envelope{Error: "Method not allowed"})
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		guard := ratelimit.NewCredentialGuard(ratelimit.GuardConfig{
			IPLimit:    appCfg.AuthRateIP,
			EmailLimit: appCfg.AuthRateEmail,
		})
		accountHandler := accountfeature.NewHandler(users, tokens, appCfg.BcryptCost, guard, logger)
		api.Mount("/auth", accountfeature.Routes(accountHandler, mw.RequireUser))

		eventsHandler := eventsfeature.NewHandler(svc, users, logger)
		api.Mount("/events", eventsfeature.Routes(eventsHandler, mw.RequireUser))
	})

	return r, nil
}
