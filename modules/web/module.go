package web

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/activity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/forum"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/identity"
	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/modules/session"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	CookieSecure   bool
	// RateLimitRedisAddr enables login throttling when non-empty.
	RateLimitRedisAddr string
	LoginLimit         int
	LoginWindow        time.Duration
}

// LoadConfig reads HTTP_ADDR, CORS_ALLOWED_ORIGINS, SESSION_COOKIE_SECURE
// and the login throttling settings.
func LoadConfig() Config {
	return Config{
		Addr:               config.GetEnvAsString("HTTP_ADDR", ":3000"),
		AllowedOrigins:     config.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		CookieSecure:       config.GetEnvAsBool("SESSION_COOKIE_SECURE", false),
		RateLimitRedisAddr: config.GetEnvAsString("RATE_LIMIT_REDIS_ADDR", ""),
		LoginLimit:         config.GetEnvAsInt("LOGIN_RATE_LIMIT", 10),
		LoginWindow:        config.GetEnvAsDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

// WebModule is the HTTP front end.
type WebModule struct {
	config       Config
	app          *fiber.App
	throttle     *LoginThrottle
	identityPort identity.IdentityPort
	sessionPort  session.SessionPort
	forumPort    forum.ForumPort
	activityPort activity.ActivityPort
}

// Compile-time interface checks.
var _ mono.Module = (*WebModule)(nil)
var _ mono.DependentModule = (*WebModule)(nil)
var _ mono.HealthCheckableModule = (*WebModule)(nil)

// NewModule creates a WebModule configured from the environment.
func NewModule() *WebModule {
	return NewModuleWithConfig(LoadConfig())
}

// NewModuleWithConfig creates a WebModule with explicit settings.
func NewModuleWithConfig(cfg Config) *WebModule {
	return &WebModule{config: cfg}
}

// Name returns the module name.
func (m *WebModule) Name() string {
	return "web"
}

// Dependencies returns the list of module dependencies.
func (m *WebModule) Dependencies() []string {
	return []string{"identity", "session", "forum", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *WebModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "identity":
		m.identityPort = identity.NewIdentityAdapter(container)
	case "session":
		m.sessionPort = session.NewSessionAdapter(container)
	case "forum":
		m.forumPort = forum.NewForumAdapter(container)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *WebModule) Start(_ context.Context) error {
	if m.identityPort == nil {
		return fmt.Errorf("identity dependency not set")
	}
	if m.sessionPort == nil {
		return fmt.Errorf("session dependency not set")
	}
	if m.forumPort == nil {
		return fmt.Errorf("forum dependency not set")
	}

	if m.config.RateLimitRedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: m.config.RateLimitRedisAddr})
		m.throttle = NewLoginThrottle(client, m.config.LoginLimit, m.config.LoginWindow, "studyhub:login:")
		log.Printf("[web] Login throttling enabled (%d per %s via %s)",
			m.config.LoginLimit, m.config.LoginWindow, m.config.RateLimitRedisAddr)
	}

	views := NewViews(m.identityPort, m.sessionPort, m.forumPort, m.activityPort)
	handlers := NewHandlers(m.sessionPort, m.config.CookieSecure)
	m.app = newApp(m.config, views, handlers, m.throttle)

	go func() {
		if err := m.app.Listen(m.config.Addr); err != nil {
			log.Printf("[web] HTTP server error: %v", err)
		}
	}()

	log.Printf("[web] HTTP server started on %s", m.config.Addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *WebModule) Stop(_ context.Context) error {
	if m.throttle != nil {
		if err := m.throttle.Close(); err != nil {
			log.Printf("[web] Warning: failed to close login throttle client: %v", err)
		}
	}
	if m.app == nil {
		return nil
	}
	log.Println("[web] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *WebModule) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{
		"addr":          m.config.Addr,
		"rate_limiting": m.throttle != nil,
	}
	if m.throttle != nil {
		if err := m.throttle.Ping(ctx); err != nil {
			// Throttling fails open, so a Redis outage only degrades it.
			details["rate_limit_error"] = err.Error()
		}
	}
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: details,
	}
}

// newApp builds the Fiber app with middleware and routes.
func newApp(cfg Config, views *Views, handlers *Handlers, throttle *LoginThrottle) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	if len(cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
			AllowCredentials: true,
		}))
	} else {
		app.Use(cors.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "web",
		})
	})

	app.Get("/login", handlers.Wrap(views.LoginPage))
	if throttle != nil {
		app.Post("/login", throttle.Middleware(), handlers.Wrap(views.LoginPage))
	} else {
		app.Post("/login", handlers.Wrap(views.LoginPage))
	}
	app.Get("/logout", handlers.Wrap(views.LogOut))
	app.Get("/register", handlers.Wrap(views.RegisterPage))
	app.Post("/register", handlers.Wrap(views.RegisterPage))

	app.Get("/", handlers.Wrap(views.Home))
	app.Get("/profile/:pk", handlers.Wrap(views.UserProfile))
	app.Get("/room/:pk", handlers.Wrap(views.Room))
	app.Post("/room/:pk", handlers.Wrap(views.Room))
	app.Get("/create-room", handlers.Wrap(views.CreateRoom))
	app.Post("/create-room", handlers.Wrap(views.CreateRoom))
	app.Get("/topics", handlers.Wrap(views.Topics))
	app.Get("/activity", handlers.Wrap(views.Activity))

	return app
}
