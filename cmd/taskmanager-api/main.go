package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/config"
	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/handlers"
	"github.com/dimitrije/taskmanager-api/internal/logging"
	authmw "github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/go-redis/redis/v8"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if enabled, err := logging.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
		log.WithError(err).Warn("Failed to initialize sentry")
	} else if enabled {
		defer logging.FlushSentry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db, log, cfg.BcryptCost)
	tokenService := services.NewTokenService(db, log)
	teamService := services.NewTeamService(db, log)
	projectService := services.NewProjectService(db, log)
	taskService := services.NewTaskService(db, log)
	assignmentService := services.NewAssignmentService(db, log)
	invitationService := services.NewInvitationService(db, log)
	emailService := services.NewEmailService(cfg.SMTP, log)
	limiter := services.NewLoginLimiter(newAttemptCounter(ctx, cfg.Redis, log), cfg.Login.MaxAttempts, cfg.Login.Window, log)

	hub := sse.NewHub(log)
	go hub.Run(ctx)

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService, limiter, log)
	userHandler := handlers.NewUserHandler(userService, log)
	teamHandler := handlers.NewTeamHandler(teamService, hub, log)
	invitationHandler := handlers.NewInvitationHandler(invitationService, teamService, userService, emailService, hub, cfg.BaseURL, log)
	projectHandler := handlers.NewProjectHandler(projectService, teamService, log)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, assignmentService, teamService, hub, log)
	sseHandler := handlers.NewSSEHandler(hub, teamService, log)
	invitePage := handlers.NewInvitePage(invitationService, teamService, userService, log)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(log))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Post("/users/me/password", userHandler.ChangePassword)
	protected.Get("/users/:id", userHandler.Get)
	protected.Patch("/users/:id/role", userHandler.SetRole)
	protected.Get("/users/:id/tasks", taskHandler.ListForUser)
	protected.Get("/users/:id/assignments", taskHandler.ListUserAssignments)

	directory := protected.Group("")
	directory.Use(authmw.RequireCapability(models.CapViewAll))
	directory.Get("/users", userHandler.List)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Get("/teams/:id/admins", teamHandler.GetAdmins)
	protected.Delete("/teams/:id/members/:memberId", teamHandler.RemoveMember)
	protected.Post("/teams/:id/invitations", invitationHandler.Create)
	protected.Get("/teams/:id/invitations", invitationHandler.ListForTeam)
	protected.Post("/teams/:id/projects", projectHandler.Create)
	protected.Get("/teams/:id/projects", projectHandler.ListByTeam)
	protected.Get("/teams/:id/events", sseHandler.Connect)

	protected.Post("/sse/:clientId/subscribe/:teamId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:teamId", sseHandler.Unsubscribe)

	protected.Get("/invitations", invitationHandler.ListMine)
	protected.Post("/invitations/:id/accept", invitationHandler.Accept)
	protected.Post("/invitations/:id/reject", invitationHandler.Reject)
	protected.Delete("/invitations/:id", invitationHandler.Cancel)

	protected.Get("/projects/search", projectHandler.Search)
	protected.Get("/projects/:id", projectHandler.Get)
	protected.Patch("/projects/:id", projectHandler.Update)
	protected.Post("/projects/:id/tasks", taskHandler.Create)
	protected.Get("/projects/:id/tasks", taskHandler.ListByProject)

	protected.Get("/tasks/search", taskHandler.Search)
	protected.Post("/tasks/assign", taskHandler.Assign)
	protected.Post("/tasks/complete", taskHandler.Complete)
	protected.Post("/tasks/approve", taskHandler.Approve)
	protected.Get("/tasks/:id", taskHandler.Get)
	protected.Get("/tasks/:id/assignments", taskHandler.ListAssignments)

	api.Get("/health", func(c *drift.Context) {
		if err := db.Pool.Ping(c.Request.Context()); err != nil {
			_ = c.JSON(503, map[string]string{"status": "unavailable"})
			return
		}
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public invite page (no auth required)
	app.Get("/invite/:id", invitePage.View)

	go tokenService.RunCleanup(ctx, time.Hour)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

// newAttemptCounter prefers Redis so limits hold across instances, and falls
// back to process memory when Redis is not configured or unreachable.
func newAttemptCounter(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) services.AttemptCounter {
	if !cfg.Enabled() {
		log.Info("REDIS_ADDR not set, login limits are per process")
		return newMemoryAttemptCounter(ctx)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, login limits are per process")
		_ = client.Close()
		return newMemoryAttemptCounter(ctx)
	}

	return services.NewRedisAttemptCounter(client, "login_attempts:")
}

func newMemoryAttemptCounter(ctx context.Context) *services.MemoryAttemptCounter {
	counter := services.NewMemoryAttemptCounter()
	go counter.RunSweeper(ctx, time.Minute)
	return counter
}
