package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/rienbien8/Bloomix-backend/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacyAPI is the route prefix of the first API generation.
var legacyAPI = Deprecation{
	Prefix:    "/api/v1",
	Successor: "/v1",
	Sunset:    time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
	Renamed:   map[string]string{"oshis": "artists"},
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(etag.New(etag.Config{
		Weak: true,
		Next: func(c *fiber.Ctx) bool { return c.Method() != fiber.MethodGet },
	}))
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	registerAPI(app.Group("/v1"), deps, "artists")

	// First-generation paths keep answering until the sunset date.
	legacy := app.Group(legacyAPI.Prefix, DeprecationMiddleware(legacyAPI))
	registerAPI(legacy, deps, "oshis")
	bff := app.Group("/bff/maps", DeprecationMiddleware(Deprecation{
		Prefix:    "/bff/maps",
		Successor: "/v1/maps",
		Sunset:    legacyAPI.Sunset,
	}))
	registerMaps(bff, deps)

	// GraphQL
	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

// registerAPI mounts the REST API on r. artists names the artist collection,
// which the first API generation called "oshis".
func registerAPI(r fiber.Router, deps *Dependencies, artists string) {
	get := func(path string, h fiber.Handler) {
		r.Get(path, timeout.NewWithContext(h, requestTimeout))
	}
	post := func(path string, h fiber.Handler) {
		r.Post(path, timeout.NewWithContext(h, requestTimeout))
	}

	get("/"+artists, ListArtistsHandler(deps))
	get("/"+artists+"/:id", GetArtistHandler(deps))

	get("/spots", ListSpotsHandler(deps))
	get("/spots/along-route", SpotsAlongRouteHandler(deps))
	get("/spots/:id", GetSpotHandler(deps))
	get("/spots/:id/contents", SpotContentsHandler(deps))

	get("/contents", SearchContentsHandler(deps))

	get("/users/:id/"+artists, UserArtistsHandler(deps))
	post("/users/:id/"+artists+"/:artistId", FollowArtistHandler(deps))
	r.Delete("/users/:id/"+artists+"/:artistId", timeout.NewWithContext(UnfollowArtistHandler(deps), requestTimeout))
	get("/users/:id/contents", UserContentsHandler(deps))

	post("/planner/playlist", ComposePlaylistHandler(deps))
	get("/planner/contents", PlannerContentsHandler(deps))
	get("/planner/health", PlannerHealthHandler())
	post("/planner/trips", PlanTripHandler(deps))
	post("/planner/trips/async", StartTripPlanHandler(deps))
	get("/planner/trips/:id", TripPlanResultHandler(deps))

	registerMaps(r.Group("/maps"), deps)
}

func registerMaps(r fiber.Router, deps *Dependencies) {
	r.Get("/autocomplete", timeout.NewWithContext(AutocompleteHandler(deps), requestTimeout))
	r.Get("/place-details", timeout.NewWithContext(PlaceDetailsHandler(deps), requestTimeout))
	r.Get("/search-text", timeout.NewWithContext(SearchTextHandler(deps), requestTimeout))
}
