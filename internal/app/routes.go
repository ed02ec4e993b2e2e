package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/internreg/internal/handler"
	"github.com/internreg/internal/middleware"
	"github.com/internreg/internal/store"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(app.config.SecureCookies))

	// Health check
	r.Get("/api/health", handler.Health(app.db, app.mailQueue))

	authHandler := handler.NewAuthHandler(app.logger, app.userStore, app.sessionStore, store.SessionTTL(), app.config.SecureCookies)
	r.With(middleware.RateLimit(middleware.PerMinute(app.config.RateLimitPerMinute), 5)).
		Post("/api/admin/login", authHandler.Login)

	// Staff routes
	sessionMW := middleware.Session(app.sessionStore, app.userStore)
	r.Group(func(r chi.Router) {
		r.Use(sessionMW)

		r.Post("/api/admin/logout", authHandler.Logout)

		regHandler := handler.NewRegistrationHandler(app.logger, app.workflow, app.registrations, app.attachmentStore, app.config.MaxUploadBytes())
		r.With(middleware.RateLimit(middleware.PerMinute(app.config.RateLimitPerMinute), 10)).
			Post("/api/registrations", regHandler.Create)
		r.Get("/api/registrations", regHandler.List)
		r.Get("/api/registrations/notification", regHandler.Notification)
		r.Get("/api/registrations/{id}", regHandler.Get)
		r.Post("/api/registrations/confirm", regHandler.Confirm)
		r.Post("/api/registrations/cancel", regHandler.Cancel)
		r.Post("/api/reminders/run", regHandler.RunReminders)

		hrHandler := handler.NewHRContactHandler(app.logger, app.hrDirectory)
		r.Get("/api/hr-contacts", hrHandler.List)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/api/hr-contacts", hrHandler.Create)

			settingsHandler := handler.NewSettingsHandler(app.logger, app.settingsStore, app.mailQueue)
			r.Get("/api/admin/settings", settingsHandler.Get)
			r.Put("/api/admin/settings", settingsHandler.Update)
			r.Post("/api/admin/settings/test-email", settingsHandler.TestEmail)

			templateHandler := handler.NewTemplateHandler(app.logger, app.templateStore)
			r.Get("/api/admin/templates", templateHandler.List)
			r.Get("/api/admin/templates/{name}", templateHandler.Get)
			r.Put("/api/admin/templates/{name}", templateHandler.Put)
			r.Delete("/api/admin/templates/{name}", templateHandler.Delete)

			usersHandler := handler.NewUsersHandler(app.logger, app.userStore, app.sessionStore)
			r.Post("/api/admin/users", usersHandler.Create)
			r.Put("/api/admin/users/{id}/status", usersHandler.UpdateStatus)
		})
	})
	return r
}
