package config

import (
	"time"

	"github.com/gamma-omg/lexiverse/internal/pkg/env"
)

type Config struct {
	AuthSecret  string
	TransferTTL time.Duration
	DB          dbConfig
	Redis       redisConfig
	Http        httpConfig
	Dictionary  dictionaryConfig
	RateLimit   rateLimitConfig
	Cache       cacheConfig
}

type dbConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type redisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	NotificationTTL time.Duration
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type dictionaryConfig struct {
	PrimaryURL   string
	SecondaryURL string
	Timeout      time.Duration
}

type rateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type cacheConfig struct {
	RejectionMaxKeys int64
	RejectionMaxCost int64
}

func FromEnv() Config {
	return Config{
		AuthSecret:  env.RequireString("AUTH_SECRET"),
		TransferTTL: env.Duration("TRANSFER_TTL", 24*time.Hour),
		DB: dbConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "password"),
			Name:     env.String("DB_NAME", "lexiverse"),
		},
		Redis: redisConfig{
			Host:            env.String("REDIS_HOST", "localhost"),
			Port:            env.String("REDIS_PORT", "6379"),
			Password:        env.String("REDIS_PASSWORD", ""),
			DB:              env.Int("REDIS_DB", 0),
			NotificationTTL: env.Duration("NOTIFICATION_TTL", 7*24*time.Hour),
		},
		Http: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Dictionary: dictionaryConfig{
			PrimaryURL:   env.String("DICT_PRIMARY_URL", "https://api.datamuse.com"),
			SecondaryURL: env.String("DICT_SECONDARY_URL", "https://en.wiktionary.org/api/rest_v1"),
			Timeout:      env.Duration("DICT_TIMEOUT", 5*time.Second),
		},
		RateLimit: rateLimitConfig{
			MaxAttempts: env.Int("RATE_LIMIT_ATTEMPTS", 30),
			Window:      env.Duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Cache: cacheConfig{
			RejectionMaxKeys: env.Int64("REJECTION_CACHE_KEYS", 10000),
			RejectionMaxCost: env.Int64("REJECTION_CACHE_COST", 10000),
		},
	}
}
