package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"apigen-backend/config"
	"apigen-backend/controllers"
	"apigen-backend/middlewares"
)

// Register wires all HTTP routes. db may be nil, which disables the
// idempotency guard and the history endpoints.
func Register(app *fiber.App, h *controllers.Handler, cfg *config.Config, db *gorm.DB, log zerolog.Logger) {
	api := app.Group("/api")

	// Schema lookup stays public
	api.Get("/schema", h.GetSchema)
	api.Get("/schema/:dbName/tables/:tableName", h.GetTableFields)

	// Everything that generates code requires a bearer token when JWT_SECRET_KEY is set
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader(cfg.JWTSecret))

	// Idempotency guard runs after auth so the subject is part of the hash
	protected.Post("/generate", middlewares.Idempotency(db, log), h.Generate)
	protected.Post("/preview", h.Preview)

	// History
	protected.Get("/generations", h.ListGenerations)
	protected.Get("/generations/:id", h.GetGeneration)
	protected.Get("/generations/:id/archive", h.DownloadGeneration)
}
