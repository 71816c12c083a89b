package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"photo-portfolio-platform/internal/config"
	"photo-portfolio-platform/internal/logger"
	"photo-portfolio-platform/internal/queue"
	"photo-portfolio-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	uploader, err := services.NewAssetUploader(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
	)
	if err != nil {
		log.Fatal("Failed to init uploader:", err)
	}

	// Periodic sweep for remote deletions that exhausted their retries
	cleanup := services.NewCleanupService(db, uploader)
	if err := cleanup.Start(time.Duration(cfg.CleanupInterval) * time.Minute); err != nil {
		log.Fatal("Failed to start cleanup sweep:", err)
	}
	defer cleanup.Stop()

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("Task failed: %s, error: %v", task.Type(), err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(uploader, db)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskDestroyAsset, processor.HandleDestroyAsset)

	log.Println("Starting background worker...")
	log.Printf("   Redis: %s", redisOpt.Addr)

	if err := server.Run(mux); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
