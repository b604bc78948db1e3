package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"ouvidoria-agenda-backend/config"
	"ouvidoria-agenda-backend/internal/agenda"
	"ouvidoria-agenda-backend/internal/api"
	"ouvidoria-agenda-backend/internal/db"
	"ouvidoria-agenda-backend/internal/model"
	"ouvidoria-agenda-backend/internal/notification"
	"ouvidoria-agenda-backend/internal/remote"
	"ouvidoria-agenda-backend/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetPrefix("[agendad] ")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	st := store.NewGormStore(gormDB)

	journalCtx := context.Background()
	client := remote.NewClient(&cfg.Webhook, func(entry model.CallLog) {
		if err := st.AppendCallLog(journalCtx, entry); err != nil {
			log.Printf("failed to journal %s call: %v", entry.Action, err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, st, &webpush.Options{
		Subscriber:      cfg.Push.Subject,
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		TTL:             cfg.Push.TTL,
	})
	pool.Start(ctx)

	coord := agenda.New(client, cfg, pool)

	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := coord.Refresh(loadCtx); err != nil {
		// The webhook may simply be down at boot; start anyway and let the
		// first /api/refresh reconcile.
		log.Printf("initial load incomplete: %v", err)
	}
	loadCancel()

	handler := api.NewHandler(coord, st, cfg.Push)
	router := api.NewRouter(handler, cfg.Server)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
