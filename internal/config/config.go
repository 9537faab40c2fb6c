package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ImageStoreLocal = "local"
	ImageStoreMinio = "minio"
)

type AgroVisionConfig struct {
	Port           string
	Host           string
	GinMode        string
	StorageBackend string
	ImageStore     string
	UploadDir      string
	CORSOrigins    []string
	PostgresCfg    PostgresConfig
	RedisCfg       RedisConfig
	MinioCfg       MinioConfig
	RabbitMQCfg    RabbitMQConfig
	GeminiAPICfg   GeminiAPIConfig
	LogCfg         LogConfig
}

// PostgresConfig prefers URL when it is set; the discrete fields are used
// otherwise.
type PostgresConfig struct {
	URL      string
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Password   string
	DB         int
	WeatherTTL time.Duration
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Location  string
	Secure    bool
	Bucket    string
}

// RabbitMQConfig is optional; an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL string
}

// GeminiAPIConfig accepts a comma-separated GEMINI_API_KEY; requests rotate
// across the keys and fail over to the next one on error.
type GeminiAPIConfig struct {
	APIKeys []string
	Model   string
	Timeout time.Duration
}

type LogConfig struct {
	Dir  string
	Mode string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("storage_backend", "")
	v.SetDefault("image_store", ImageStoreLocal)
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("cors_origins", "*")

	v.SetDefault("database_url", "")
	v.SetDefault("postgres_db", "agrovision")
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_password", "postgres")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_sslmode", "disable")

	v.SetDefault("redis_enabled", false)
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("weather_cache_ttl", "10m")

	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minio")
	v.SetDefault("minio_secret_key", "minio123")
	v.SetDefault("minio_location", "us-east-1")
	v.SetDefault("minio_secure", false)
	v.SetDefault("minio_bucket", "crop-images")

	v.SetDefault("rabbitmq_url", "")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("ai_timeout", "20s")

	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_mode", "development")
}

// New reads configuration from the environment, layered over an optional
// YAML file at configPath and the built-in defaults.
func New(configPath string) (*AgroVisionConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg := &AgroVisionConfig{
		Port:           v.GetString("port"),
		Host:           v.GetString("host"),
		GinMode:        v.GetString("gin_mode"),
		StorageBackend: strings.ToLower(v.GetString("storage_backend")),
		ImageStore:     strings.ToLower(v.GetString("image_store")),
		UploadDir:      v.GetString("upload_dir"),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		PostgresCfg: PostgresConfig{
			URL:      v.GetString("database_url"),
			DBname:   v.GetString("postgres_db"),
			Username: v.GetString("postgres_user"),
			Password: v.GetString("postgres_password"),
			Host:     v.GetString("postgres_host"),
			Port:     v.GetString("postgres_port"),
			SSLMode:  v.GetString("postgres_sslmode"),
		},
		RedisCfg: RedisConfig{
			Enabled:    v.GetBool("redis_enabled"),
			Host:       v.GetString("redis_host"),
			Port:       v.GetString("redis_port"),
			Password:   v.GetString("redis_password"),
			DB:         v.GetInt("redis_db"),
			WeatherTTL: v.GetDuration("weather_cache_ttl"),
		},
		MinioCfg: MinioConfig{
			Endpoint:  v.GetString("minio_endpoint"),
			AccessKey: v.GetString("minio_access_key"),
			SecretKey: v.GetString("minio_secret_key"),
			Location:  v.GetString("minio_location"),
			Secure:    v.GetBool("minio_secure"),
			Bucket:    v.GetString("minio_bucket"),
		},
		RabbitMQCfg: RabbitMQConfig{
			URL: v.GetString("rabbitmq_url"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKeys: splitList(v.GetString("gemini_api_key")),
			Model:   v.GetString("gemini_model"),
			Timeout: v.GetDuration("ai_timeout"),
		},
		LogCfg: LogConfig{
			Dir:  v.GetString("log_dir"),
			Mode: v.GetString("log_mode"),
		},
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageMemory
		if cfg.PostgresCfg.URL != "" {
			cfg.StorageBackend = StoragePostgres
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *AgroVisionConfig) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.StorageBackend != StorageMemory && c.StorageBackend != StoragePostgres {
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageBackend))
	}
	if c.ImageStore != ImageStoreLocal && c.ImageStore != ImageStoreMinio {
		errs = append(errs, fmt.Errorf("IMAGE_STORE must be %q or %q, got %q", ImageStoreLocal, ImageStoreMinio, c.ImageStore))
	}
	if c.GeminiAPICfg.Timeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.RedisCfg.Enabled && c.RedisCfg.WeatherTTL <= 0 {
		errs = append(errs, errors.New("WEATHER_CACHE_TTL must be positive when Redis is enabled"))
	}
	return errors.Join(errs...)
}

func (c *AgroVisionConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *AgroVisionConfig) HasGeminiKey() bool {
	return len(c.GeminiAPICfg.APIKeys) > 0
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
