// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"time"

	"athlos/internal/cache"
	"athlos/internal/config"
	"athlos/internal/database"
	"athlos/internal/middleware"
	"athlos/internal/models"
	"athlos/internal/repository"
	"athlos/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	profileRepo       repository.ProfileRepository
	postRepo          repository.PostRepository
	commentRepo       repository.CommentRepository
	followRepo        repository.FollowRepository
	sportSettingsRepo repository.SportSettingsRepository

	profileService       *service.ProfileService
	postService          *service.PostService
	commentService       *service.CommentService
	followService        *service.FollowService
	counterService       *service.CounterService
	mentionService       *service.MentionService
	mediaService         *service.MediaService
	sportSettingsService *service.SportSettingsService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap layers that establish DB/Redis themselves use this.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		promMiddleware:    fiberprometheus.New("athlos-api"),
		profileRepo:       repository.NewProfileRepository(db),
		postRepo:          repository.NewPostRepository(db),
		commentRepo:       repository.NewCommentRepository(db),
		followRepo:        repository.NewFollowRepository(db),
		sportSettingsRepo: repository.NewSportSettingsRepository(db),
	}

	s.mentionService = service.NewMentionService(s.profileRepo)
	s.profileService = service.NewProfileService(s.profileRepo, cfg)
	s.postService = service.NewPostService(s.postRepo, s.mentionService)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.profileRepo)
	s.counterService = service.NewCounterService(s.postRepo)
	s.mediaService = service.NewMediaService(cfg)
	s.sportSettingsService = service.NewSportSettingsService(s.sportSettingsRepo)

	return s
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Public reads pick up the requester identity when a token is present so
	// visibility predicates can widen accordingly. Owner-only routes attach
	// AuthRequired per route; their static paths (/me, /saved) register ahead
	// of the :id captures so the wildcard cannot swallow them.
	profiles := api.Group("/profiles", middleware.OptionalAuth)
	profiles.Get("/search", middleware.RateLimit(s.redis, 10, time.Minute, "search"), s.SearchProfiles)
	profiles.Get("/handle/:handle", s.GetProfileByHandle)
	profiles.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	profiles.Put("/me", middleware.AuthRequired, s.UpdateMyProfile)
	profiles.Delete("/me", middleware.AuthRequired, s.DeleteMyProfile)
	profiles.Get("/:id/posts", s.GetProfilePosts)
	profiles.Get("/:id/followers", s.GetFollowers)
	profiles.Get("/:id/following", s.GetFollowing)
	profiles.Get("/:id", s.GetProfile)

	posts := api.Group("/posts", middleware.OptionalAuth)
	posts.Get("/search", middleware.RateLimit(s.redis, 10, time.Minute, "search"), s.SearchPosts)
	posts.Get("/saved", middleware.AuthRequired, s.GetSavedPosts)
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", middleware.AuthRequired, s.LikePost)
	posts.Delete("/:id/like", middleware.AuthRequired, s.UnlikePost)
	posts.Post("/:id/save", middleware.AuthRequired, s.SavePost)
	posts.Delete("/:id/save", middleware.AuthRequired, s.UnsavePost)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id/mentions", s.GetPostMentions)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Everything below is authenticated-only. The group's Use middleware
	// applies to every route registered after this point, so all anonymous
	// reads have to be registered above it.
	protected := api.Group("", middleware.AuthRequired)

	protected.Delete("/comments/:id", s.DeleteComment)

	follows := protected.Group("/follows")
	follows.Get("/requests", s.GetPendingFollowRequests)
	follows.Post("/requests/:id/accept", s.AcceptFollowRequest)
	follows.Post("/requests/:id/reject", s.RejectFollowRequest)
	follows.Post("/:profileId", middleware.RateLimit(s.redis, 30, 5*time.Minute, "follow"), s.Follow)
	follows.Delete("/:profileId", s.Unfollow)

	sports := protected.Group("/settings/sports")
	sports.Get("/", s.ListSportSettings)
	sports.Get("/:sportKey", s.GetSportSettings)
	sports.Put("/:sportKey", s.PutSportSettings)
	sports.Delete("/:sportKey", s.DeleteSportSettings)

	media := protected.Group("/media")
	media.Post("/", middleware.RateLimit(s.redis, 20, time.Minute, "media_upload"), s.UploadMedia)
	media.Delete("/+", s.DeleteMedia)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/repair-counters", s.RepairCounters)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache is optional; readiness only requires the database.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects requesters not on the
// operational admin allow-list. Must be placed after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester := middleware.RequesterFromCtx(c)
		if !requester.Authenticated || !s.config.IsAdminProfile(requester.ProfileID.String()) {
			return models.RespondWithError(c, models.NewPolicyDeniedError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Athlos API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
