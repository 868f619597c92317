package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/quizdesk/client/internal/api"
	"github.com/quizdesk/client/internal/client"
	"github.com/quizdesk/client/internal/config"
	"github.com/quizdesk/client/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var backend session.Backend
	if cfg.Backend.Mock {
		log.Println("Using mock quiz backend")
		backend = client.NewMock()
	} else {
		backend = client.New(cfg.Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := api.NewSessions(backend)
	go sessions.StartSweeper(ctx, cfg.Server.SessionIdleTimeout)

	if cfg.Server.JWTSecret == "" {
		log.Println("SESSION_JWT_SECRET not set, session routes are unauthenticated")
	}
	handler := api.NewRouter(api.NewHandler(sessions), []byte(cfg.Server.JWTSecret), cfg.Server.AllowedOrigins)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("Server starting on :%s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
