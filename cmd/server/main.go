package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/handlers"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	detailRepo := repository.NewTaskDetailRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	detailService := services.NewTaskDetailService(detailRepo, taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	detailHandler := handlers.NewTaskDetailHandler(detailService)

	requireAuth := middleware.RequireAuth(userRepo)
	requireTaskAccess := middleware.RequireTaskAccess(taskRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.POST("/verify-email", requireAuth, authHandler.VerifyEmail)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats", taskHandler.GetStatistics)
			tasks.GET("/overdue", taskHandler.ListOverdue)
			tasks.POST("/:id/restore", taskHandler.RestoreTask)

			tasks.GET("/:id", requireTaskAccess, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTaskAccess, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTaskAccess, taskHandler.DeleteTask)
			tasks.POST("/:id/transition", requireTaskAccess, taskHandler.TransitionTask)
			tasks.POST("/:id/complete", requireTaskAccess, taskHandler.CompleteTask)
			tasks.POST("/:id/assign", requireTaskAccess, taskHandler.AssignTask)
			tasks.POST("/:id/unassign", requireTaskAccess, taskHandler.UnassignTask)

			tasks.GET("/:id/details", requireTaskAccess, detailHandler.ListDetails)
			tasks.POST("/:id/details", requireTaskAccess, detailHandler.AddDetail)
			tasks.POST("/:id/details/reorder", requireTaskAccess, detailHandler.ReorderChecklist)
			tasks.PATCH("/:id/details/:detail_id", requireTaskAccess, detailHandler.UpdateDetail)
			tasks.DELETE("/:id/details/:detail_id", requireTaskAccess, detailHandler.DeleteDetail)
			tasks.POST("/:id/details/:detail_id/toggle", requireTaskAccess, detailHandler.ToggleChecklistItem)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
