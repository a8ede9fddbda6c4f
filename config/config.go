package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Content   ContentConfig   `mapstructure:"content"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Mail      MailConfig      `mapstructure:"mail"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Feed      FeedConfig      `mapstructure:"feed"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	Duration time.Duration `mapstructure:"duration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type ContentConfig struct {
	TMDBAPIKey     string        `mapstructure:"tmdb_api_key"`
	TMDBBaseURL    string        `mapstructure:"tmdb_base_url"`
	TMDBImageBase  string        `mapstructure:"tmdb_image_base"`
	BooksBaseURL   string        `mapstructure:"books_base_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	LookupTimeout  time.Duration `mapstructure:"lookup_timeout"`
	RefreshAfter   time.Duration `mapstructure:"refresh_after"`
	SearchCacheTTL time.Duration `mapstructure:"search_cache_ttl"`
}

type AuthConfig struct {
	ResetTTL       time.Duration `mapstructure:"reset_ttl"`
	ResetURL       string        `mapstructure:"reset_url"`
	MinPasswordLen int           `mapstructure:"min_password_len"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type OutboxConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Workers      int           `mapstructure:"workers"`
	ClaimLimit   int           `mapstructure:"claim_limit"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	// Lease 之后仍处于 processing 的行视为被遗弃，可重新认领
	Lease        time.Duration `mapstructure:"lease"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type FeedConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

// Load 读取配置：config.yaml -> 环境变量 (SHELF_ 前缀) 覆盖
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查必填项
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if len(c.JWT.Secret) < 16 {
		return errors.New("jwt.secret must be at least 16 characters")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Feed.DefaultPageSize <= 0 || c.Feed.MaxPageSize < c.Feed.DefaultPageSize {
		return fmt.Errorf("invalid feed page sizes: default=%d max=%d", c.Feed.DefaultPageSize, c.Feed.MaxPageSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=shelf port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jwt.issuer", "shelf")
	v.SetDefault("jwt.duration", 2*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("content.tmdb_base_url", "https://api.themoviedb.org/3")
	v.SetDefault("content.tmdb_image_base", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("content.books_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("content.http_timeout", 5*time.Second)
	v.SetDefault("content.lookup_timeout", 3*time.Second)
	v.SetDefault("content.refresh_after", 7*24*time.Hour)
	v.SetDefault("content.search_cache_ttl", 10*time.Minute)

	v.SetDefault("auth.reset_ttl", 30*time.Minute)
	v.SetDefault("auth.reset_url", "http://localhost:5173/reset-password")
	v.SetDefault("auth.min_password_len", 6)

	v.SetDefault("mail.port", 587)

	v.SetDefault("nats.subject", "shelf.activity.created")

	v.SetDefault("outbox.enabled", true)
	v.SetDefault("outbox.workers", 2)
	v.SetDefault("outbox.claim_limit", 128)
	v.SetDefault("outbox.poll_interval", 500*time.Millisecond)
	v.SetDefault("outbox.max_attempts", 5)
	v.SetDefault("outbox.lease", time.Minute)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 10)
	v.SetDefault("ratelimit.burst", 30)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.service_name", "shelf")
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("feed.default_page_size", 20)
	v.SetDefault("feed.max_page_size", 100)
}
