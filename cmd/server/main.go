package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/servicehub/marketplace-api/internal/api"
	"github.com/servicehub/marketplace-api/internal/core/ports"
	"github.com/servicehub/marketplace-api/internal/infrastructure/config"
	"github.com/servicehub/marketplace-api/internal/infrastructure/db/memory"
	mongostore "github.com/servicehub/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/servicehub/marketplace-api/internal/infrastructure/db/redis"
	"github.com/servicehub/marketplace-api/internal/token"
	"github.com/servicehub/marketplace-api/pkg/logger"

	redisdriver "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == config.EnvDevelopment,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("running with the default JWT secret; set JWT_SECRET before exposing this service")
	}

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec init failed")
	}

	ctx := context.Background()

	var (
		directory ports.UserDirectory
		db        *mongodriver.Database
		rdb       *redisdriver.Client
	)
	switch cfg.Store {
	case config.StoreMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		dir := mongostore.NewUserDirectory(database)
		if err := dir.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		directory = dir
		db = database
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = client.Close() }()

		directory = redisstore.NewUserDirectory(client)
		rdb = client
	default:
		log.Warn().Msg("using the in-memory user directory; all accounts are lost on restart")
		directory = memory.NewUserDirectory()
	}

	e := api.NewRouter(directory, codec, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
