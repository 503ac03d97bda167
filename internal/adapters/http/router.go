package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/flaira/flaira/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Auth (public)
	v1.Post("/auth/signup", timeout.NewWithContext(SignupHandler(deps), 15*time.Second))
	v1.Post("/auth/login", timeout.NewWithContext(LoginHandler(deps), 15*time.Second))

	// Everything below requires a bearer token
	authed := v1.Group("", AuthMiddleware(deps))

	authed.Post("/auth/logout", timeout.NewWithContext(LogoutHandler(deps), 15*time.Second))
	authed.Get("/me", timeout.NewWithContext(MeHandler(deps), 15*time.Second))

	// Trips
	authed.Post("/trips", timeout.NewWithContext(CreateTripHandler(deps), 15*time.Second))
	authed.Get("/trips", timeout.NewWithContext(ListTripsHandler(deps), 15*time.Second))
	authed.Get("/trips/:id", timeout.NewWithContext(GetTripHandler(deps), 15*time.Second))
	authed.Delete("/trips/:id/invites/:inviteId", timeout.NewWithContext(RevokeInviteHandler(deps), 15*time.Second))

	// Invites addressed to the caller
	authed.Get("/invites", timeout.NewWithContext(ListInvitesHandler(deps), 15*time.Second))
	authed.Post("/invites/:id/accept", timeout.NewWithContext(AcceptInviteHandler(deps), 15*time.Second))
	authed.Post("/invites/:id/decline", timeout.NewWithContext(DeclineInviteHandler(deps), 15*time.Second))

	// Media
	authed.Post("/media/presign", timeout.NewWithContext(PresignUploadHandler(deps), 15*time.Second))
	authed.Get("/trips/:id/media", timeout.NewWithContext(ListTripMediaHandler(deps), 15*time.Second))
	authed.Delete("/trips/:id/media/:mediaId", timeout.NewWithContext(DeleteTripMediaHandler(deps), 15*time.Second))

	// Route planning
	authed.Get("/routes/preview", timeout.NewWithContext(RoutePreviewHandler(deps), 15*time.Second))
	authed.Get("/geocode", timeout.NewWithContext(GeocodeHandler(deps), 15*time.Second))

	// GraphQL (read-only queries, authenticated)
	app.Post("/graphql", AuthMiddleware(deps), GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
