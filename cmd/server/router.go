package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskmaster/taskmaster-api/internal/api/middleware"
	"github.com/taskmaster/taskmaster-api/internal/api/shared"
)

// routes builds the HTTP router. Auth endpoints for obtaining credentials
// are public; everything else under /api requires a valid token.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", app.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.authHandler.Register)
			r.Post("/login", app.authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(app.authMiddleware.Authenticate)
				r.Post("/logout", app.authHandler.Logout)
				r.Get("/me", app.authHandler.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", app.taskHandler.List)
				r.Post("/", app.taskHandler.Create)
				r.Get("/{id}", app.taskHandler.Get)
				r.Put("/{id}", app.taskHandler.Update)
				r.Patch("/{id}", app.taskHandler.PartialUpdate)
				r.Delete("/{id}", app.taskHandler.Delete)
				r.Post("/{id}/change_status", app.taskHandler.ChangeStatus)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", app.categoryHandler.List)
				r.Post("/", app.categoryHandler.Create)
				r.Get("/{id}", app.categoryHandler.Get)
				r.Put("/{id}", app.categoryHandler.Update)
				r.Patch("/{id}", app.categoryHandler.PartialUpdate)
				r.Delete("/{id}", app.categoryHandler.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", app.tagHandler.List)
				r.Post("/", app.tagHandler.Create)
				r.Get("/{id}", app.tagHandler.Get)
				r.Put("/{id}", app.tagHandler.Update)
				r.Patch("/{id}", app.tagHandler.PartialUpdate)
				r.Delete("/{id}", app.tagHandler.Delete)
			})
		})
	})

	return r
}

// handleHealth reports service liveness and database reachability.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
			map[string]string{"status": "unavailable"})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
