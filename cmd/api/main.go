package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisatara.id/internal/auth"
	"wisatara.id/internal/catalog"
	"wisatara.id/internal/config"
	"wisatara.id/internal/content"
	"wisatara.id/internal/httpapi"
	"wisatara.id/internal/obs"
	"wisatara.id/internal/schedule"
	"wisatara.id/internal/store/pg"
	"wisatara.id/internal/stream"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		authStore    auth.Store
		catalogStore catalog.Service
		contentStore content.Service
		db           *sql.DB
	)
	if cfg.DatabaseURL != "" {
		store, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		authStore, catalogStore, contentStore = store, store, store
		db = store.DB()
	} else {
		// No DSN: run everything in memory. Useful for local demos and CI.
		authStore = auth.NewInMemoryStore()
		catalogStore = catalog.NewInMemory()
		contentStore = content.NewInMemory()
	}

	authSvc, err := auth.NewService(authStore, cfg.JWTSecret, auth.WithIssuer(cfg.Issuer))
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(httpapi.Options{
		Auth:          authSvc,
		Catalog:       catalogStore,
		Content:       contentStore,
		Uploads:       content.NewUploads(cfg.UploadDir),
		Schedule:      schedule.NewIndex(),
		Stream:        stream.New(),
		Ready:         httpapi.ReadyProbe{DB: db},
		Version:       version,
		AllowedOrigin: cfg.AllowedOrigin,
		RateRPS:       cfg.RateLimitRPS,
		RateBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: /v1/orders/stream holds the response open.
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting wisatara-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}

func commit() string {
	if c := os.Getenv("WISATARA_COMMIT"); c != "" {
		return c
	}
	return "dev"
}
