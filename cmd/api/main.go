package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/jadequin/To-Do-Handler/core"
)

func main() {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	cfg, err := core.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := core.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Metrics are optional: without Redis the service runs with a nil recorder.
	var metrics *core.MetricsService
	if cfg.RedisURL != "" {
		redisClient, err := core.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, operation metrics disabled: %v", err)
		} else {
			defer redisClient.Close()
			metrics = core.NewMetricsService(redisClient)
		}
	}

	// Gorilla cookie store carries the session token; the registry is the
	// authority on who is signed in.
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	registry := core.NewMemorySessionRegistry()

	userRepo := core.NewPgUserRepository(db)
	taskRepo := core.NewPgTaskRepository(db)
	identity := core.NewIdentityService(userRepo, registry)
	tasks := core.NewTaskService(taskRepo)

	router := core.NewRouter(cfg, store, registry, identity, tasks, metrics)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
