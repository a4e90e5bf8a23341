package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/joho/godotenv"

	"eventapp/internal/backend"
	"eventapp/internal/config"
	"eventapp/internal/middleware"
	"eventapp/internal/session"
	"eventapp/internal/web"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := config.New()
	logger := newLogger(cfg.Server.Environment)
	slog.SetDefault(logger)

	sessions := session.NewManager(cfg.Session, logger)
	api := backend.NewClient(cfg.Backend, logger)

	handler := web.NewHandler(api, sessions, logger)
	admin := web.NewAdminHandler(api, sessions, logger)

	app := fiber.New(fiber.Config{
		AppName:               "EventApp",
		DisableStartupMessage: cfg.Server.Environment == "production",
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.SecurityHeaders())

	// CSRF protection for every form post. The token lands in
	// c.Locals("token") and is embedded as a hidden field.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Session.Secure,
		Expiration:     1 * time.Hour,
		KeyGenerator:   utils.UUIDv4,
		ContextKey:     "token",
	}))

	loginLimiter := newLoginLimiter(cfg.Limits)
	web.RegisterRoutes(app, handler, admin, sessions, loginLimiter)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Info("starting server", "addr", addr, "api", cfg.Backend.BaseURL, "environment", cfg.Server.Environment)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(environment string) *slog.Logger {
	switch environment {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// newLoginLimiter rate limits credential endpoints by client IP.
func newLoginLimiter(cfg config.LimitsConfig) fiber.Handler {
	if !cfg.RateLimitEnabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.MaxLoginAttempts,
		Expiration: cfg.LoginWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("Too many attempts. Please try again later.")
		},
	})
}
