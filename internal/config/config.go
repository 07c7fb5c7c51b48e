package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Playback PlaybackConfig
	Events   EventsConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// SessionConfig selects where quiz sessions live between requests.
type SessionConfig struct {
	Store string
	TTL   time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PlaybackConfig struct {
	// TickInterval is how often a simulated media element emits time updates.
	TickInterval time.Duration
	// IdleTTL unmounts players that received no request for this long.
	IdleTTL  time.Duration
	MaxViews int
}

type EventsConfig struct {
	ToastTopic string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("redis.db", 0)
	v.SetDefault("playback.tick_interval", "250ms")
	v.SetDefault("playback.idle_ttl", "30m")
	v.SetDefault("playback.max_views", 1000)
	v.SetDefault("events.toast_topic", "learner.toasts")
}

// LoadConfig reads config.yaml if one exists, then applies .env and environment overrides.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Session: SessionConfig{
			Store: strings.ToLower(v.GetString("session.store")),
			TTL:   v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Playback: PlaybackConfig{
			TickInterval: v.GetDuration("playback.tick_interval"),
			IdleTTL:      v.GetDuration("playback.idle_ttl"),
			MaxViews:     v.GetInt("playback.max_views"),
		},
		Events: EventsConfig{
			ToastTopic: v.GetString("events.toast_topic"),
		},
	}

	// Short, unprefixed names kept for deployment scripts.
	if port := os.Getenv("SERVER_PORT"); port != "" {
		v.Set("server.port", port)
		cfg.Server.Port = v.GetInt("server.port")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logger.Level = level
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Logger.Env = env
	}
	if store := os.Getenv("SESSION_STORE"); store != "" {
		cfg.Session.Store = strings.ToLower(store)
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("session store %q requires redis.address", c.Session.Store)
		}
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Playback.TickInterval <= 0 {
		return fmt.Errorf("playback tick interval must be positive")
	}
	if c.Playback.IdleTTL <= 0 {
		return fmt.Errorf("playback idle ttl must be positive")
	}
	if c.Playback.MaxViews <= 0 {
		return fmt.Errorf("playback max views must be positive")
	}
	return nil
}
