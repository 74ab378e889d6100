package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/chat"
	"portfolio_advisor/internal/chat/gemini"
	"portfolio_advisor/internal/config"
	"portfolio_advisor/internal/logger"
	"portfolio_advisor/internal/market/alpaca"
	"portfolio_advisor/internal/server"
	"portfolio_advisor/internal/session"
	"portfolio_advisor/internal/tools"
)

const logFile = "advisor-server.log"

func main() {
	cfg := config.Load()
	logger.Setup(logFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := alpaca.NewProvider()
	svc := analytics.New(provider)
	registry := tools.NewWithDefaults(svc, tools.Defaults{
		Window:    cfg.HistoryWindow,
		Benchmark: cfg.BenchmarkTicker,
	})

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("CRITICAL: could not initialize model client: %v", err)
	}

	sessions := session.NewStore(func() *chat.Conversation {
		return chat.New(model, registry)
	})

	// Expire idle sessions in the background.
	ttl := time.Duration(cfg.SessionTTLMins) * time.Minute
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.PruneIdle(ttl); n > 0 {
					log.Printf("pruned %d idle sessions", n)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(sessions).Handler(),
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Shutting down: system signal received.")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		cancel()
	}()

	log.Printf("Advisor server %s listening on %s (model %s)", cfg.Version, cfg.HTTPAddr, cfg.GeminiModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("CRITICAL: server failed: %v", err)
	}
	log.Println("Server stopped.")
}
