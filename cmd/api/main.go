package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CodeMaverick-143/Project-Manager/config"
	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	"github.com/CodeMaverick-143/Project-Manager/internal/bootstrap"
	"github.com/CodeMaverick-143/Project-Manager/internal/maintenance"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/repository"
	"github.com/CodeMaverick-143/Project-Manager/internal/storage/object"
	"github.com/CodeMaverick-143/Project-Manager/internal/storage/postgres"
)

const serviceName = "portfolio-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		if err := bootstrap.Migrate(&cfg.Database, dir); err != nil {
			log.Fatalf("migrations: %v", err)
		}
	}

	pool, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	legacyDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres (legacy): %v", err)
	}
	defer legacyDB.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	provider := auth.NewFirebaseProvider(authClient, &cfg.Firebase)

	objects, err := object.NewClient(cfg.Storage)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}
	if err := objects.EnsureBucket(ctx); err != nil && !errors.Is(err, object.ErrDisabled) {
		log.Fatalf("object storage bucket: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		DB:             pool,
		LegacyDB:       legacyDB,
		Redis:          redisClient,
		Provider:       provider,
		Uploader:       objects,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	scheduler := maintenance.NewScheduler(repository.NewRepo(pool), objects)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s v%s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
