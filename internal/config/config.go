package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Database DatabaseConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"CACHE_PORT" default:"3001"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Host      string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port      int           `envconfig:"REDIS_PORT" default:"6379"`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	OpTimeout time.Duration `envconfig:"REDIS_OP_TIMEOUT" default:"5s"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MinIOConfig struct {
	Endpoint  string        `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string        `envconfig:"MINIO_ROOT_USER" default:"minioadmin"`
	SecretKey string        `envconfig:"MINIO_ROOT_PASSWORD" default:"minioadmin"`
	Bucket    string        `envconfig:"MINIO_BUCKET" default:"videos"`
	UseSSL    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	OpTimeout time.Duration `envconfig:"MINIO_OP_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"shopcache"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"shopcache"`
	DBName   string `envconfig:"POSTGRES_DB" default:"webshop"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type CacheConfig struct {
	VideoURLTTL      time.Duration `envconfig:"CACHE_VIDEO_URL_TTL" default:"6h"`
	VideoErrorTTL    time.Duration `envconfig:"CACHE_VIDEO_ERROR_TTL" default:"30m"`
	MappingsTTL      time.Duration `envconfig:"CACHE_MAPPINGS_TTL" default:"10m"`
	ProductListTTL   time.Duration `envconfig:"CACHE_PRODUCT_LIST_TTL" default:"10m"`
	BatchConcurrency int           `envconfig:"CACHE_BATCH_CONCURRENCY" default:"4"`
}

func Load() (*Config, error) {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
