// Package main is the entry point for the portal user service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/portal-users/internal/api"
	"github.com/99minutos/portal-users/internal/api/handler"
	"github.com/99minutos/portal-users/internal/core/ports"
	"github.com/99minutos/portal-users/internal/core/service"
	"github.com/99minutos/portal-users/internal/infrastructure/config"
	"github.com/99minutos/portal-users/internal/infrastructure/db/memory"
	"github.com/99minutos/portal-users/internal/infrastructure/db/mongo"
	"github.com/99minutos/portal-users/internal/infrastructure/db/postgres"
	"github.com/99minutos/portal-users/internal/infrastructure/db/redis"
	"github.com/99minutos/portal-users/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Portal Users API
// @version 1.0
// @description User accounts and role management for the portal.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal-users",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.PingFunc{}

	repo, closeStore, err := openStore(ctx, cfg, readiness)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	users := service.NewUserService(repo, logger.Component("users"))
	auth := service.NewAuthService(repo, redis.NewTokenDenylist(rdb), cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))

	if cfg.Superadmin.Enabled() {
		if err := users.EnsureSuperadmin(ctx, cfg.Superadmin.Email, cfg.Superadmin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Users:     users,
		Auth:      auth,
		Logger:    logger.Component("http"),
		Readiness: readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting portal user service")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the configured user directory and registers its
// readiness ping.
func openStore(ctx context.Context, cfg *config.Config, readiness map[string]handler.PingFunc) (ports.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "portal-users",
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return repo, disconnectMongo(client), nil

	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		readiness["postgres"] = db.PingContext
		return postgres.NewUserRepository(db), closeSQL(db), nil

	case config.StoreMemory:
		return memory.NewUserRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported store %q", cfg.StoreDriver)
}

func disconnectMongo(client *mongodriver.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}

func closeSQL(db *sql.DB) func() {
	return func() { _ = db.Close() }
}
