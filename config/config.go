package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"yaapps/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	HTTP    HTTPConfig
	Mongo   DatabaseConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Session SessionConfig
	Kafka   KafkaConfig
	Tracing TracingConfig
	News    NewsConfig
}

type HTTPConfig struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
}

// RedisConfig is optional; an empty URL disables the session cache and the
// token blacklist.
type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	SecretKey       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type SessionConfig struct {
	TTL               time.Duration
	InactivityTimeout time.Duration
	MaxPerUser        int
	CookieSecure      bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TracingConfig struct {
	JaegerEndpoint string
	ServiceName    string
}

type NewsConfig struct {
	PageSize int
}

const defaultDevSecret = "dev-secret-change-me"

// Load reads .env (if present) and the environment. service names the
// binary and picks its default port and database.
func Load(service string) (*Config, error) {
	env := utils.GetEnvAsString("ENV", utils.EnvLocal)
	if err := godotenv.Load(); err != nil && env != utils.EnvProd {
		log.Println(".env file not found, using environment variables")
	}
	// .env may have set ENV
	env = utils.GetEnvAsString("ENV", utils.EnvLocal)

	defaultAddr := ":8000"
	if service == "yanews" {
		defaultAddr = ":8001"
	}

	cfg := &Config{
		Env: env,
		HTTP: HTTPConfig{
			Address:        utils.GetEnvAsString("HTTP_ADDRESS", defaultAddr),
			ReadTimeout:    utils.GetEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   utils.GetEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    utils.GetEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			MaxBodyBytes:   int64(utils.GetEnvAsInt("HTTP_MAX_BODY_BYTES", 1<<20)),
			AllowedOrigins: utils.GetEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Mongo: LoadDatabaseConfig(service),
		Redis: RedisConfig{
			URL: utils.GetEnvAsString("REDIS_URL", ""),
		},
		JWT: JWTConfig{
			SecretKey:       utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			Issuer:          utils.GetEnvAsString("JWT_ISSUER", service),
			AccessTokenTTL:  utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", 15*time.Minute),
			RefreshTokenTTL: utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),
		},
		Session: SessionConfig{
			TTL:               utils.GetEnvAsDuration("SESSION_TTL", 14*24*time.Hour),
			InactivityTimeout: utils.GetEnvAsDuration("SESSION_INACTIVITY_TIMEOUT", 24*time.Hour),
			MaxPerUser:        utils.GetEnvAsInt("SESSION_MAX_PER_USER", 5),
			CookieSecure:      utils.GetEnvAsBool("SESSION_COOKIE_SECURE", env == utils.EnvProd),
		},
		Kafka: KafkaConfig{
			Brokers: utils.GetEnvAsSlice("KAFKA_BROKERS", nil),
			Topic:   utils.GetEnvAsString("KAFKA_TOPIC", service+".events"),
		},
		Tracing: TracingConfig{
			JaegerEndpoint: utils.GetEnvAsString("JAEGER_ENDPOINT", ""),
			ServiceName:    utils.GetEnvAsString("TRACING_SERVICE_NAME", service),
		},
		News: NewsConfig{
			PageSize: utils.GetEnvAsInt("NEWS_COUNT_ON_HOME_PAGE", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadDatabaseConfig(service string) DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", service),
	}
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		if c.Env == utils.EnvProd {
			return errors.New("JWT_SECRET_KEY is required")
		}
		c.JWT.SecretKey = defaultDevSecret
	}
	if c.News.PageSize <= 0 {
		return fmt.Errorf("NEWS_COUNT_ON_HOME_PAGE must be positive, got %d", c.News.PageSize)
	}
	if c.Session.MaxPerUser <= 0 {
		return fmt.Errorf("SESSION_MAX_PER_USER must be positive, got %d", c.Session.MaxPerUser)
	}
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	return nil
}
