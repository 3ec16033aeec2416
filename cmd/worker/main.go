package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/MinKhant07/Thumbnail/adapters/event"
	"github.com/MinKhant07/Thumbnail/adapters/llm"
	"github.com/MinKhant07/Thumbnail/adapters/persistence"
	critiqueUC "github.com/MinKhant07/Thumbnail/internal/application/usecase/critique"
	"github.com/MinKhant07/Thumbnail/internal/config"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

// The worker pre-warms the critique cache: when a thumbnail upload
// event arrives, it fetches the record and runs the critique so the
// on-demand endpoint hits the cache.
func main() {
	fmt.Println("Starting Thumbnail Gallery Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// Redis
	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	// Critic
	critic, err := llm.NewOpenAICritic(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize critic: %v", err)
	}

	// Repositories and use case
	thumbRepo := persistence.NewPostgresThumbnailRepo(dbPool, appLogger)
	critiqueCache := persistence.NewRedisCritiqueCache(redisClient)
	critiqueUseCase := critiqueUC.NewCritiqueUseCase(critic, critiqueCache, cfg.Critique.CacheTTL, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicThumbnailEvents,
		GroupID:  "critique-prewarm-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicThumbnailEvents)

	ctx := context.Background()
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		log.Printf("Received message from [Topic: %s], [Key: %s]", msg.Topic, string(msg.Key))

		var payload event.ThumbnailEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			continue
		}

		if payload.EventType != event.ThumbnailEventTypeUploaded {
			continue
		}

		rec, err := thumbRepo.FindByID(ctx, payload.ThumbnailID, payload.OwnerID)
		if err != nil {
			log.Printf("ERROR: Failed to fetch thumbnail %s: %v. Skipping.", payload.ThumbnailID, err)
			continue
		}

		if _, err := critiqueUseCase.Execute(ctx, critiqueUC.CritiqueInput{ImageData: rec.ImageURL}); err != nil {
			log.Printf("ERROR: Failed to pre-warm critique for %s: %v", payload.ThumbnailID, err)
			continue
		}

		log.Printf("Critique cached for thumbnail %s", payload.ThumbnailID)
	}
}
