// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"howudoin/internal/config"
	"howudoin/internal/database"
	"howudoin/internal/middleware"
	"howudoin/internal/repository"
	"howudoin/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	friendRepo     repository.FriendRepository
	groupRepo      repository.GroupRepository
	messageRepo    repository.MessageRepository
	userService    *service.UserService
	friendService  *service.FriendService
	groupService   *service.GroupService
	messageService *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// AutoMigrate in non-production for developer ergonomics; production
	// schemas are applied explicitly via cmd/migrate.
	if cfg.Env != "production" {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	return NewServerWithDeps(cfg, db)
}

// NewServerWithDeps creates a Server using an already-initialized database.
// Use this in tests or when a bootstrap layer establishes the DB and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	prom := middleware.InitMetrics("howudoin-api")

	server := &Server{
		config:         cfg,
		db:             db,
		promMiddleware: prom,
		userRepo:       userRepo,
		friendRepo:     friendRepo,
		groupRepo:      groupRepo,
		messageRepo:    messageRepo,
	}
	server.userService = service.NewUserService(userRepo)
	server.friendService = service.NewFriendService(friendRepo, userRepo)
	server.groupService = service.NewGroupService(groupRepo, userRepo)
	server.messageService = service.NewMessageService(messageRepo, server.friendService, server.groupService)

	return server, nil
}

// Shutdown releases server resources, closing the database connection pool.
func (s *Server) Shutdown(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "HowUDoin Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/verify-email", s.VerifyEmail)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/search", s.SearchUsers)
	users.Get("/verified", s.GetVerifiedUsers)
	users.Get("/:id", s.GetUserProfile)

	// Friend routes
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	// Specific /requests routes before generic /:userId
	friends.Post("/requests/:userId", s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	friends.Delete("/requests/:requestId", s.CancelFriendRequest)
	// Specific /status and /block routes before generic /:userId
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	friends.Post("/block/:userId", s.BlockUser)
	friends.Get("/blocked", s.GetBlockedUsers)
	// Generic /:userId route must be last
	friends.Delete("/:userId", s.RemoveFriend)

	// Group routes
	groups := protected.Group("/groups")
	groups.Post("/create", s.CreateGroup)
	groups.Get("/mine", s.GetMyGroups)
	groups.Post("/:groupId/add-member", s.AddGroupMember)
	groups.Delete("/:groupId/members/:userId", s.RemoveGroupMember)
	groups.Get("/:groupId/members", s.GetGroupMembers)
	groups.Post("/:groupId/send", s.SendGroupMessage)
	groups.Get("/:groupId/messages/count", s.GetGroupMessageCount)
	groups.Get("/:groupId/messages", s.GetGroupMessages)
	groups.Delete("/:groupId", s.DeleteGroup)
	groups.Get("/:groupId", s.GetGroup)

	// Direct message routes
	messages := protected.Group("/messages")
	messages.Post("/send", s.SendMessage)
	messages.Get("/unread", s.GetUnreadMessages)
	messages.Get("/sent", s.GetSentMessages)
	messages.Get("/received", s.GetReceivedMessages)
	messages.Post("/:messageId/delivered", s.MarkMessageDelivered)
	messages.Post("/:messageId/read", s.MarkMessageRead)
	messages.Get("/conversation/:userId", s.GetConversation)
	messages.Delete("/conversation/:userId", s.DeleteConversation)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}
