package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MinKhant07/Thumbnail/adapters/event"
	httpAdapter "github.com/MinKhant07/Thumbnail/adapters/http"
	"github.com/MinKhant07/Thumbnail/adapters/llm"
	"github.com/MinKhant07/Thumbnail/adapters/media_storage"
	"github.com/MinKhant07/Thumbnail/adapters/persistence"
	authUC "github.com/MinKhant07/Thumbnail/internal/application/usecase/auth"
	backupUC "github.com/MinKhant07/Thumbnail/internal/application/usecase/backup"
	critiqueUC "github.com/MinKhant07/Thumbnail/internal/application/usecase/critique"
	"github.com/MinKhant07/Thumbnail/internal/application/usecase/gallery"
	"github.com/MinKhant07/Thumbnail/internal/config"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/auth"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
	"github.com/MinKhant07/Thumbnail/pkg/tracing"
)

func main() {
	fmt.Println("Start Thumbnail Gallery API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "thumbnail-api")
		if err != nil {
			appLogger.Warn("Tracing disabled, cannot init tracer provider")
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	thumbRepo := persistence.NewPostgresThumbnailRepo(dbPool, appLogger)
	critiqueCache := persistence.NewRedisCritiqueCache(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	critic, err := llm.NewOpenAICritic(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize critic: %v", err)
	}
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize uploader: %v", err)
	}

	// Sessions and use cases
	sessions := gallery.NewRegistry(thumbRepo, kafkaClient, appLogger, cfg.Auth.TokenLifespan)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, sessions, appLogger)
	critiqueUseCase := critiqueUC.NewCritiqueUseCase(critic, critiqueCache, cfg.Critique.CacheTTL, appLogger)
	backupUseCase := backupUC.NewBackupUseCase(thumbRepo, uploader, appLogger)

	maxUploadBytes := thumbnail.RawUploadLimit(cfg.Upload.MaxUploadMiB)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	galleryHandler := httpAdapter.NewGalleryHandler(maxUploadBytes, backupUseCase, appLogger)
	critiqueHandler := httpAdapter.NewCritiqueHandler(critiqueUseCase, maxUploadBytes, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc, sessions, appLogger)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(errorMiddleware)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	{
		admin := api.Group("/admin")
		{
			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", authHandler.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(authMiddleware)
			{
				adminGallery := adminPrivate.Group("/gallery")
				{
					adminGallery.GET("/thumbnails", galleryHandler.List)
					adminGallery.POST("/thumbnails", galleryHandler.Upload)
					adminGallery.PATCH("/thumbnails/:id", galleryHandler.Update)
					adminGallery.DELETE("/thumbnails/:id", galleryHandler.Delete)
					adminGallery.GET("/thumbnails/:id/download", galleryHandler.Download)
					adminGallery.POST("/backup", galleryHandler.Backup)
				}

				adminPrivate.POST("/critique", critiqueHandler.Critique)
			}
		}
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	appLogger.Info("Server listening on port " + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: server stopped: %v", err)
	}
}
