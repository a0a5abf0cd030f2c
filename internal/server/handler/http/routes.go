// Package http provides HTTP routing and middleware configuration
// for the report API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/ReportKeeper/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the report
// API and, when metrics is not nil, the Prometheus endpoint.
//
// Routes:
//
//	POST   /api/login           → authHandler.Login
//	POST   /api/logout          → authHandler.Logout
//	GET    /api/session         → authHandler.Session
//	GET    /api/reports         → reportHandler.List     (signed in)
//	POST   /api/reports         → reportHandler.Create   (signed in)
//	PUT    /api/reports/order   → reportHandler.Reorder  (signed in)
//	POST   /api/reports/move    → reportHandler.Move     (signed in)
//	GET    /api/reports/{id}    → reportHandler.Get      (signed in)
//	PUT    /api/reports/{id}    → reportHandler.Update   (signed in)
//	DELETE /api/reports/{id}    → reportHandler.Delete   (signed in)
//	POST   /api/generate        → reportHandler.Generate (signed in)
//	GET    /metrics             → metrics
//
// Role checks happen in the service layer; the router only requires a
// signed-in session for the report routes.
func NewRouter(
	authHandler *AuthHandler,
	reportHandler *ReportHandler,
	sessions middleware.SessionReader,
	logger *zap.Logger,
	metrics http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Only allow bodies with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.List)
				r.Post("/", reportHandler.Create)
				r.Put("/order", reportHandler.Reorder)
				r.Post("/move", reportHandler.Move)
				r.Get("/{id}", reportHandler.Get)
				r.Put("/{id}", reportHandler.Update)
				r.Delete("/{id}", reportHandler.Delete)
			})
			r.Post("/generate", reportHandler.Generate)
		})
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return r
}
