package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"apigen-backend/config"
	"apigen-backend/controllers"
	"apigen-backend/database"
	"apigen-backend/generator"
	"apigen-backend/logger"
	"apigen-backend/middlewares"
	"apigen-backend/routes"
	"apigen-backend/schema"
)

var rootCmd = &cobra.Command{
	Use:           "apigen",
	Short:         "Generates Progress ABL REST API sources from table definitions",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	// ---- History database (optional)
	var db *gorm.DB
	if cfg.HistoryEnabled() {
		db, err = database.Connect(cfg)
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("generation history enabled")
	}

	app := newApp(cfg, db, log)

	log.Info().Str("addr", cfg.Addr()).Bool("auth", cfg.AuthEnabled()).Msg("API server starting")
	return app.Listen(cfg.Addr())
}

func newApp(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *fiber.App {
	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		ErrorHandler: middlewares.ErrorHandler(log),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(middlewares.RequestLogger(log))

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		ExposeHeaders:    "Content-Disposition, X-Generation-Id, Idempotent-Replay",
	}))

	// ---- Global rate limiter
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	h := controllers.NewHandler(
		cfg,
		generator.New(cfg.StagingDir, log),
		schema.NewProvider(cfg.DefinitionsDir),
		db,
		log,
	)
	routes.Register(app, h, cfg, db, log)
	return app
}
