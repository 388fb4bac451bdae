package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/wordageddon/wordageddon/internal/database"
	"github.com/wordageddon/wordageddon/internal/handler"
	"github.com/wordageddon/wordageddon/internal/repository/postgres"
	"github.com/wordageddon/wordageddon/internal/service"
	"github.com/wordageddon/wordageddon/internal/session"
	"github.com/wordageddon/wordageddon/internal/storage"
	"github.com/wordageddon/wordageddon/internal/websocket"
)

func main() {
	// Initialize database connection
	pool, err := database.ConnectPostgres(database.NewPostgresConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize Redis client
	redisClient, err := database.ConnectRedis(database.NewRedisConfig())
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize document storage
	documentStorage, err := storage.NewDocumentStorage(filepath.Join("uploads", "corpus"))
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	// Initialize play store
	playStore := session.NewManager(redisClient)

	// Initialize websocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	userService := service.NewUserService(userRepo)
	corpusService := service.NewCorpusService(documentStorage, documentRepo)
	playService := service.NewPlayService(corpusService, playStore, sessionRepo, userService, hub)

	// Build the index from the stored documents before serving traffic
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := corpusService.Reload(startupCtx); err != nil {
		log.Fatalf("Failed to index corpus: %v", err)
	}
	cancelStartup()

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	playHandler := handler.NewPlayHandler(playService)
	adminHandler := handler.NewAdminHandler(corpusService)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Initialize Echo
	e := echo.New()
	e.Validator = handler.NewCustomValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes
	api := e.Group("/api")

	// User routes
	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/:user_id", userHandler.GetProfile)
	users.GET("/:user_id/sessions", playHandler.GetHistory)
	users.GET("/:user_id/play", playHandler.GetCurrentPlay)

	// Play routes
	plays := api.Group("/plays")
	plays.GET("/difficulties", playHandler.GetDifficulties)
	plays.POST("", playHandler.StartPlay)
	plays.GET("/:play_id", playHandler.GetPlay)
	plays.POST("/:play_id/answers", playHandler.SubmitAnswer)
	plays.GET("/:play_id/spectators", wsHandler.GetSpectators)

	// Session and leaderboard routes
	api.GET("/sessions/:session_id", playHandler.GetSummary)
	api.GET("/leaderboard", playHandler.GetLeaderboard)

	// Admin routes
	admin := api.Group("/admin")
	admin.POST("/documents", adminHandler.UploadDocument)
	admin.GET("/documents", adminHandler.ListDocuments)
	admin.DELETE("/documents/:name", adminHandler.DeleteDocument)
	admin.POST("/stopwords", adminHandler.UploadStopwords)
	admin.POST("/reindex", adminHandler.Reindex)
	admin.POST("/snapshot", adminHandler.SaveSnapshot)
	admin.POST("/snapshot/load", adminHandler.LoadSnapshot)

	// WebSocket route
	e.GET("/ws", wsHandler.HandleWebSocket)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		active, err := playStore.CountActivePlays(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":       "ok",
			"active_plays": active,
		})
	})

	// Start server
	go func() {
		if err := e.Start(":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
