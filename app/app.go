package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yaapps/config"
	"yaapps/handler"
	"yaapps/middleware"
	"yaapps/repository"
	"yaapps/router"
	"yaapps/services"
	"yaapps/tracing"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Infra holds the external connections of one running service.
type Infra struct {
	Service string
	Config  *config.Config
	Log     *slog.Logger
	Mongo   *mongo.Client
	DB      *mongo.Database
	Redis   *redis.Client
	Events  services.EventPublisher

	closers []func(context.Context) error
}

// NewInfra connects MongoDB (required), Redis, Kafka and Jaeger (optional).
func NewInfra(ctx context.Context, service string, cfg *config.Config, log *slog.Logger) (*Infra, error) {
	const op = "app.NewInfra"
	infra := &Infra{Service: service, Config: cfg, Log: log, Events: services.NopPublisher{}}

	cleanupTracing, err := tracing.InitTracing(cfg.Tracing.JaegerEndpoint, cfg.Tracing.ServiceName, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	infra.onClose(func(context.Context) error { cleanupTracing(); return nil })

	client, err := utils.NewMongoClient(ctx, utils.MongoOptions{
		URI:            cfg.Mongo.URI,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		MinPoolSize:    cfg.Mongo.MinPoolSize,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		infra.Close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	infra.Mongo = client
	infra.DB = client.Database(cfg.Mongo.DatabaseName)
	infra.onClose(client.Disconnect)
	log.Info("connected to MongoDB", slog.String("database", cfg.Mongo.DatabaseName))

	if err := repository.SetupIndexes(ctx, infra.DB, log); err != nil {
		infra.Close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Redis.URL != "" {
		rdb, err := services.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			infra.Close(ctx)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		infra.Redis = rdb
		infra.onClose(func(context.Context) error { return rdb.Close() })
		log.Info("connected to Redis")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		if err := services.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.Topic, log); err != nil {
			log.Warn("kafka topic not ensured", utils.Err(err))
		}
		publisher := services.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		infra.Events = publisher
		infra.onClose(func(context.Context) error { return publisher.Close() })
	}

	return infra, nil
}

func (i *Infra) onClose(fn func(context.Context) error) {
	i.closers = append(i.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (i *Infra) Close(ctx context.Context) {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](ctx); err != nil {
			i.Log.Warn("failed to release resource", utils.Err(err))
		}
	}
	i.closers = nil
}

// Deps builds the shared auth stack and health check.
func (i *Infra) Deps() router.Deps {
	cfg := i.Config

	var cache repository.SessionCache
	var blacklist services.TokenBlacklist = services.NopTokenBlacklist{}
	pingers := []handler.Pinger{mongoPinger{i.Mongo}}
	if i.Redis != nil {
		cache = services.NewSessionCache(i.Redis)
		blacklist = services.NewTokenBlacklist(i.Redis)
		pingers = append(pingers, redisPinger{i.Redis})
	}

	sessions := repository.GetSessionRepo(i.DB, cache, i.Log)
	auth := &middleware.Authenticator{
		Sessions:          sessions,
		Tokens:            services.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL),
		Blacklist:         blacklist,
		SessionTTL:        cfg.Session.TTL,
		InactivityTimeout: cfg.Session.InactivityTimeout,
		MaxSessions:       cfg.Session.MaxPerUser,
		CookieSecure:      cfg.Session.CookieSecure,
		Log:               i.Log,
		Now:               time.Now,
	}

	return router.Deps{
		Auth:           auth,
		Users:          usecase.NewUserService(repository.GetUserRepo(i.DB), i.Events, i.Log),
		Health:         handler.NewHealthHandler(i.Service, i.Log, pingers...).WithSessions(sessions),
		Log:            i.Log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}
}

type mongoPinger struct{ client *mongo.Client }

func (mongoPinger) Name() string { return "mongodb" }

func (p mongoPinger) Ping(ctx context.Context) error {
	if p.client == nil {
		return errors.New("not connected")
	}
	return p.client.Ping(ctx, readpref.Primary())
}

type redisPinger struct{ client *redis.Client }

func (redisPinger) Name() string { return "redis" }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
