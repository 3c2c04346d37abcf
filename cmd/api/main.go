package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/handler"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/middleware"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/throttle"
	"github.com/AchilleasB/campus-hub/campus-service/internal/config"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
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
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	log.Info("store ready", zap.String("driver", store.Driver()))

	users := repository.NewUserRepository(store)
	if cfg.SeedDefaultUsers {
		if err := seed(ctx, cfg.SeedFile, users, log); err != nil {
			return err
		}
	}

	loginThrottle, redisClient := newThrottle(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	authService := services.NewAuthService(users, loginThrottle, services.WithLogger(log))
	registrationService := services.NewRegistrationService(users, services.WithLogger(log))
	callers := middleware.NewCallerResolver(cfg.CallerSource, authService)

	warnKnownDeficiencies(cfg, log)

	resources, err := newResourceHandlers(store, callers, log)
	if err != nil {
		return err
	}

	var redisPinger handler.RedisPinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	httpLog := log.Named("http")
	groups := append(resources,
		handler.NewAuthHandler(authService, httpLog),
		handler.NewRegistrationHandler(registrationService, httpLog),
		handler.NewHealthHandler(store, redisPinger, cfg.AppVersion, httpLog),
		handler.NewActivityHandler(repository.NewActivityRepository(store), httpLog),
	)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(handler.RouterConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			WriteRateLimit: cfg.WriteRateLimit,
			Logger:         httpLog,
		}, groups...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

func seed(ctx context.Context, path string, users ports.UserRepository, log *zap.Logger) error {
	defaults, err := services.LoadSeedUsers(path)
	if err != nil {
		return fmt.Errorf("load seed users: %w", err)
	}
	if _, err := services.SeedUsers(ctx, users, defaults, log); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}

// newThrottle connects to redis when it is configured. Without it, or when it
// cannot be reached at start-up, logins are not throttled.
func newThrottle(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.LoginThrottle, *redis.Client) {
	if cfg.RedisAddress == "" {
		log.Info("REDIS_ADDRESS not set, login throttling disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, login throttle will fail open", zap.Error(err))
	} else {
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddress))
	}
	return throttle.NewRedisThrottle(client, cfg.LoginMaxAttempts, cfg.LoginLockout, log), client
}

func newResourceHandlers(store *repository.Store, callers middleware.CallerResolver, log *zap.Logger) ([]handler.Mounter, error) {
	builders := []func() (handler.Mounter, error){
		resource[domain.Complaint](store, services.ComplaintSpec, callers, log),
		resource[domain.Notice](store, services.NoticeSpec, callers, log),
		resource[domain.MarketplaceItem](store, services.MarketplaceItemSpec, callers, log),
		resource[domain.LostFoundItem](store, services.LostFoundItemSpec, callers, log),
		resource[domain.BloodDonor](store, services.BloodDonorSpec, callers, log),
		resource[domain.Bicycle](store, services.BicycleSpec, callers, log),
		resource[domain.AnimalReport](store, services.AnimalReportSpec, callers, log),
		resource[domain.FacultySuggestion](store, services.FacultySuggestionSpec, callers, log),
	}

	mounters := make([]handler.Mounter, 0, len(builders))
	for _, build := range builders {
		m, err := build()
		if err != nil {
			return nil, err
		}
		mounters = append(mounters, m)
	}
	return mounters, nil
}

// resource wires the store adapter, service and handler of one kind.
func resource[T any, P domain.Entity[T]](store *repository.Store, spec services.KindSpec[T], callers middleware.CallerResolver, log *zap.Logger) func() (handler.Mounter, error) {
	return func() (handler.Mounter, error) {
		repo, err := repository.NewRecordRepository[T, P](store, spec.Kind)
		if err != nil {
			return nil, err
		}
		svc := services.NewResourceService[T, P](spec, repo, services.WithLogger(log))
		return handler.NewResourceHandler[T](svc, callers, log.Named("http"))
	}
}

func warnKnownDeficiencies(cfg *config.Config, log *zap.Logger) {
	log.Warn("passwords are stored and compared in plaintext")
	if cfg.CallerSource == config.CallerSourceBody {
		log.Warn("mutation caller identity is read from the request body and can be spoofed by any client")
	}
}
