package bootstrap

import (
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/chadBookW/email-final/adapter/in/http"
	"github.com/chadBookW/email-final/config"
	"github.com/chadBookW/email-final/infra/middleware"
	"github.com/chadBookW/email-final/pkg/logger"
)

// NewAPI builds the Fiber app with all routes and middleware mounted.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	if cfg.LogLevel != "" {
		logLevel = logger.ParseLevel(cfg.LogLevel)
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "mail-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json is a drop-in replacement, noticeably faster than encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 10 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())

	accessLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	app.Use(middleware.AccessLogger(accessLog))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	// Health checks
	healthHandler := http.NewHealthHandler(deps.DB, deps.Redis)
	healthHandler.Register(app)

	// OAuth bootstrap flow
	oauthHandler := http.NewOAuthHandler(deps.Credentials)
	oauthHandler.Register(app)

	// Mail routes
	mailHandler := http.NewMailHandler(deps.MailService)
	mailHandler.Register(app)

	// Optional static frontend
	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}
