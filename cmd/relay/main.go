package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/messaging"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/outbox"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-hub/campus-service/internal/config"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("relay stopped", zap.Error(err))
	}
}

func run(cfg *config.RelayConfig, log *zap.Logger) error {
	log.Info("starting outbox relay service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName, log)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	defer broker.Close()
	log.Info("connected to RabbitMQ", zap.String("queue", cfg.QueueName))

	relayWorker := outbox.NewRelay(store, cfg.DatabaseURL, broker, log)

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux(relayWorker, broker),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting health check server", zap.String("addr", healthServer.Addr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server error", zap.Error(err))
		}
	}()

	// Channel to capture fatal errors from relay worker
	errChan := make(chan error, 1)
	go func() {
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		log.Info("received signal, initiating shutdown", zap.String("signal", sig.String()))
	case runErr = <-errChan:
		log.Error("relay worker failed, shutting down", zap.Error(runErr))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("error shutting down health server", zap.Error(err))
	}

	log.Info("shutdown complete")
	return runErr
}

func healthMux(relayWorker *outbox.Relay, broker *messaging.RabbitMQBroker) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, relayWorker.IsHealthy(), nil)
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, r *http.Request) {
		backlog, err := relayWorker.Backlog(r.Context())
		if err != nil {
			writeStatus(w, false, nil)
			return
		}
		writeStatus(w, relayWorker.IsReady() && broker.Ready(), map[string]any{"pending_events": backlog})
	})
	return mux
}

func writeStatus(w http.ResponseWriter, up bool, extra map[string]any) {
	status, httpStatus := "UP", http.StatusOK
	if !up {
		status, httpStatus = "DOWN", http.StatusServiceUnavailable
	}

	body := map[string]any{
		"status":    status,
		"component": "outbox-relay",
	}
	for k, v := range extra {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(body)
}
