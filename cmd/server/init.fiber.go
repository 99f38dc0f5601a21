package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	basehdl "videotube/internal/api/base/handler"
	commentrouter "videotube/internal/api/comment/router"
	dashboardrouter "videotube/internal/api/dashboard/router"
	likerouter "videotube/internal/api/like/router"
	"videotube/internal/api/middleware"
	playlistrouter "videotube/internal/api/playlist/router"
	apirouter "videotube/internal/api/router"
	subscriptionrouter "videotube/internal/api/subscription/router"
	tweetrouter "videotube/internal/api/tweet/router"
	userrouter "videotube/internal/api/user/router"
	videorouter "videotube/internal/api/video/router"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
)

// healthPath is skipped by the limiter and the recover middleware.
const healthPath = "/api/v1/healthcheck"

// corsOrigins splits CORS_ORIGINS; "*" allows every origin.
func corsOrigins(raw string) []string {
	if raw == "*" {
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

// InitFiberApp builds the Fiber app with the middleware stack and every route.
func InitFiberApp() *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:       "VideoTube API",
		ServerHeader:  "VideoTube API",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		// video uploads travel in the body
		BodyLimit:       cfg.BodyLimitMB * 1024 * 1024,
		Concurrency:     256 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: middleware.ErrorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS before anything that may reject a preflight
	origins := corsOrigins(cfg.CORS_Origins)
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: cfg.CORS_AllowCredentials && origins[0] != "*",
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limiting
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.HandleErrorResponse(c, common.NewError(
					common.ErrCodeRateLimit,
					"Too many requests, please try again later",
					common.StatusTooManyRequests,
					nil,
				))
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	system := basehdl.NewSystemHandler(global.MongoDB_Session)
	app.Get(healthPath, system.HandleHealth)

	if err := apirouter.SetupRoutes(app,
		userrouter.Register,
		videorouter.Register,
		commentrouter.Register,
		likerouter.Register,
		subscriptionrouter.Register,
		playlistrouter.Register,
		tweetrouter.Register,
		dashboardrouter.Register,
	); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	return app
}
