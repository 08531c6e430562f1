package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Sources  SourcesConfig  `mapstructure:"sources"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// StorageConfig configures the optional raw payload archive.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// SyncConfig holds orchestrator, queue and scheduler settings.
type SyncConfig struct {
	AllowedSources []string      `mapstructure:"allowed_sources"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryCount     int           `mapstructure:"retry_count"`
	RetryWait      time.Duration `mapstructure:"retry_wait"`
	QueueKey       string        `mapstructure:"queue_key"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RequeueDelay   time.Duration `mapstructure:"requeue_delay"`
	Schedule       string        `mapstructure:"schedule"`
	RunOnStart     bool          `mapstructure:"run_on_start"`
}

type SourcesConfig struct {
	Arbeitnow ProviderConfig `mapstructure:"arbeitnow"`
	Remotive  ProviderConfig `mapstructure:"remotive"`
	JSearch   ProviderConfig `mapstructure:"jsearch"`
}

// ProviderConfig configures one external job API.
type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	APIHost string `mapstructure:"api_host"`
	Country string `mapstructure:"country"`
	Limit   int    `mapstructure:"limit"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets and deployment endpoints
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("redis.url", "REDIS_URL")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("sources.jsearch.api_key", "JSEARCH_API_KEY")
	v.BindEnv("sources.jsearch.api_host", "JSEARCH_API_HOST")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/jobnest.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "jobnest")
	v.SetDefault("database.dbname", "jobnest")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.bucket", "jobnest-raw")

	v.SetDefault("auth.issuer", "jobnest")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("sync.allowed_sources", []string{"arbeitnow", "remotive"})
	v.SetDefault("sync.timeout", 25*time.Second)
	v.SetDefault("sync.retry_count", 2)
	v.SetDefault("sync.retry_wait", 2*time.Second)
	v.SetDefault("sync.queue_key", "jobnest:sync:queue")
	v.SetDefault("sync.max_attempts", 3)
	v.SetDefault("sync.requeue_delay", 30*time.Second)
	v.SetDefault("sync.schedule", "@every 6h")
	v.SetDefault("sync.run_on_start", false)

	v.SetDefault("sources.arbeitnow.enabled", true)
	v.SetDefault("sources.arbeitnow.base_url", "https://www.arbeitnow.com")
	v.SetDefault("sources.remotive.enabled", true)
	v.SetDefault("sources.remotive.base_url", "https://remotive.com")
	v.SetDefault("sources.remotive.limit", 100)
	v.SetDefault("sources.jsearch.enabled", false)
	v.SetDefault("sources.jsearch.base_url", "https://jsearch.p.rapidapi.com")
	v.SetDefault("sources.jsearch.api_host", "jsearch.p.rapidapi.com")
	v.SetDefault("sources.jsearch.country", "us")
}
