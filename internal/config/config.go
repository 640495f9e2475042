package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Archive    ArchiveConfig
	Recognizer ProviderConfig
	Normalizer NormalizerConfig
	Judge      ProviderConfig
	Summarizer ProviderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the run archive.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings for original report uploads.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ArchiveConfig controls whether pipeline runs are persisted. The pipeline
// itself is stateless either way.
type ArchiveConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ProviderConfig holds settings for a single generative/recognition provider.
type ProviderConfig struct {
	Provider        string  `mapstructure:"provider"`
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// NormalizerConfig holds normalization provider settings with optional
// secondary and tertiary providers forming a fallback chain.
type NormalizerConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (n *NormalizerConfig) SecondaryConfig() *ProviderConfig {
	if n.Secondary.Provider != "" {
		return &n.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (n *NormalizerConfig) TertiaryConfig() *ProviderConfig {
	if n.Tertiary.Provider != "" {
		return &n.Tertiary
	}
	return nil
}

// Load reads configuration from environment variables with the LABSIGHT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LABSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "labsight")
	v.SetDefault("db.password", "labsight_secret")
	v.SetDefault("db.name", "labsight_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "labsight-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Archive defaults
	v.SetDefault("archive.enabled", false)

	// Recognizer defaults
	v.SetDefault("recognizer.provider", "gemini")
	v.SetDefault("recognizer.api_key", "")
	v.SetDefault("recognizer.model", "")
	v.SetDefault("recognizer.timeout_secs", 60)
	v.SetDefault("recognizer.temperature", 0.0)
	v.SetDefault("recognizer.max_output_tokens", 8192)

	// Normalizer defaults: low temperature keeps structured output stable.
	v.SetDefault("normalizer.primary.provider", "gemini")
	v.SetDefault("normalizer.primary.api_key", "")
	v.SetDefault("normalizer.primary.model", "")
	v.SetDefault("normalizer.primary.timeout_secs", 60)
	v.SetDefault("normalizer.primary.temperature", 0.1)
	v.SetDefault("normalizer.primary.max_output_tokens", 8192)
	v.SetDefault("normalizer.secondary.provider", "")
	v.SetDefault("normalizer.secondary.api_key", "")
	v.SetDefault("normalizer.secondary.model", "")
	v.SetDefault("normalizer.secondary.timeout_secs", 60)
	v.SetDefault("normalizer.secondary.temperature", 0.1)
	v.SetDefault("normalizer.secondary.max_output_tokens", 8192)
	v.SetDefault("normalizer.tertiary.provider", "")
	v.SetDefault("normalizer.tertiary.api_key", "")
	v.SetDefault("normalizer.tertiary.model", "")
	v.SetDefault("normalizer.tertiary.timeout_secs", 60)
	v.SetDefault("normalizer.tertiary.temperature", 0.1)
	v.SetDefault("normalizer.tertiary.max_output_tokens", 8192)

	// Judge defaults: deterministic yes/no verdicts.
	v.SetDefault("judge.provider", "gemini")
	v.SetDefault("judge.api_key", "")
	v.SetDefault("judge.model", "")
	v.SetDefault("judge.timeout_secs", 30)
	v.SetDefault("judge.temperature", 0.0)
	v.SetDefault("judge.max_output_tokens", 1024)

	// Summarizer defaults
	v.SetDefault("summarizer.provider", "gemini")
	v.SetDefault("summarizer.api_key", "")
	v.SetDefault("summarizer.model", "")
	v.SetDefault("summarizer.timeout_secs", 60)
	v.SetDefault("summarizer.temperature", 0.2)
	v.SetDefault("summarizer.max_output_tokens", 2048)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "LABSIGHT_SERVER_PORT",
		"server.read_timeout":  "LABSIGHT_SERVER_READ_TIMEOUT",
		"server.write_timeout": "LABSIGHT_SERVER_WRITE_TIMEOUT",
		"server.environment":   "LABSIGHT_SERVER_ENVIRONMENT",
		"db.host":              "LABSIGHT_DB_HOST",
		"db.port":              "LABSIGHT_DB_PORT",
		"db.user":              "LABSIGHT_DB_USER",
		"db.password":          "LABSIGHT_DB_PASSWORD",
		"db.name":              "LABSIGHT_DB_NAME",
		"db.sslmode":           "LABSIGHT_DB_SSLMODE",
		"db.max_open":          "LABSIGHT_DB_MAX_OPEN",
		"db.max_idle":          "LABSIGHT_DB_MAX_IDLE",
		"s3.region":            "LABSIGHT_S3_REGION",
		"s3.bucket":            "LABSIGHT_S3_BUCKET",
		"s3.endpoint":          "LABSIGHT_S3_ENDPOINT",
		"s3.access_key":        "LABSIGHT_S3_ACCESS_KEY",
		"s3.secret_key":        "LABSIGHT_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "LABSIGHT_S3_MAX_FILE_SIZE_MB",
		"log.level":            "LABSIGHT_LOG_LEVEL",
		"log.format":           "LABSIGHT_LOG_FORMAT",
		"cors.allowed_origins": "LABSIGHT_CORS_ALLOWED_ORIGINS",
		"archive.enabled":      "LABSIGHT_ARCHIVE_ENABLED",

		"recognizer.provider":          "LABSIGHT_RECOGNIZER_PROVIDER",
		"recognizer.api_key":           "LABSIGHT_RECOGNIZER_API_KEY",
		"recognizer.model":             "LABSIGHT_RECOGNIZER_MODEL",
		"recognizer.timeout_secs":      "LABSIGHT_RECOGNIZER_TIMEOUT_SECS",
		"recognizer.temperature":       "LABSIGHT_RECOGNIZER_TEMPERATURE",
		"recognizer.max_output_tokens": "LABSIGHT_RECOGNIZER_MAX_OUTPUT_TOKENS",

		"normalizer.primary.provider":            "LABSIGHT_NORMALIZER_PRIMARY_PROVIDER",
		"normalizer.primary.api_key":             "LABSIGHT_NORMALIZER_PRIMARY_API_KEY",
		"normalizer.primary.model":               "LABSIGHT_NORMALIZER_PRIMARY_MODEL",
		"normalizer.primary.timeout_secs":        "LABSIGHT_NORMALIZER_PRIMARY_TIMEOUT_SECS",
		"normalizer.primary.temperature":         "LABSIGHT_NORMALIZER_PRIMARY_TEMPERATURE",
		"normalizer.primary.max_output_tokens":   "LABSIGHT_NORMALIZER_PRIMARY_MAX_OUTPUT_TOKENS",
		"normalizer.secondary.provider":          "LABSIGHT_NORMALIZER_SECONDARY_PROVIDER",
		"normalizer.secondary.api_key":           "LABSIGHT_NORMALIZER_SECONDARY_API_KEY",
		"normalizer.secondary.model":             "LABSIGHT_NORMALIZER_SECONDARY_MODEL",
		"normalizer.secondary.timeout_secs":      "LABSIGHT_NORMALIZER_SECONDARY_TIMEOUT_SECS",
		"normalizer.secondary.temperature":       "LABSIGHT_NORMALIZER_SECONDARY_TEMPERATURE",
		"normalizer.secondary.max_output_tokens": "LABSIGHT_NORMALIZER_SECONDARY_MAX_OUTPUT_TOKENS",
		"normalizer.tertiary.provider":           "LABSIGHT_NORMALIZER_TERTIARY_PROVIDER",
		"normalizer.tertiary.api_key":            "LABSIGHT_NORMALIZER_TERTIARY_API_KEY",
		"normalizer.tertiary.model":              "LABSIGHT_NORMALIZER_TERTIARY_MODEL",
		"normalizer.tertiary.timeout_secs":       "LABSIGHT_NORMALIZER_TERTIARY_TIMEOUT_SECS",
		"normalizer.tertiary.temperature":        "LABSIGHT_NORMALIZER_TERTIARY_TEMPERATURE",
		"normalizer.tertiary.max_output_tokens":  "LABSIGHT_NORMALIZER_TERTIARY_MAX_OUTPUT_TOKENS",

		"judge.provider":          "LABSIGHT_JUDGE_PROVIDER",
		"judge.api_key":           "LABSIGHT_JUDGE_API_KEY",
		"judge.model":             "LABSIGHT_JUDGE_MODEL",
		"judge.timeout_secs":      "LABSIGHT_JUDGE_TIMEOUT_SECS",
		"judge.temperature":       "LABSIGHT_JUDGE_TEMPERATURE",
		"judge.max_output_tokens": "LABSIGHT_JUDGE_MAX_OUTPUT_TOKENS",

		"summarizer.provider":          "LABSIGHT_SUMMARIZER_PROVIDER",
		"summarizer.api_key":           "LABSIGHT_SUMMARIZER_API_KEY",
		"summarizer.model":             "LABSIGHT_SUMMARIZER_MODEL",
		"summarizer.timeout_secs":      "LABSIGHT_SUMMARIZER_TIMEOUT_SECS",
		"summarizer.temperature":       "LABSIGHT_SUMMARIZER_TEMPERATURE",
		"summarizer.max_output_tokens": "LABSIGHT_SUMMARIZER_MAX_OUTPUT_TOKENS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LABSIGHT_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LABSIGHT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Archive = ArchiveConfig{
		Enabled: v.GetBool("archive.enabled"),
	}

	cfg.Recognizer = providerConfig(v, "recognizer")
	cfg.Normalizer = NormalizerConfig{
		Primary:   providerConfig(v, "normalizer.primary"),
		Secondary: providerConfig(v, "normalizer.secondary"),
		Tertiary:  providerConfig(v, "normalizer.tertiary"),
	}
	cfg.Judge = providerConfig(v, "judge")
	cfg.Summarizer = providerConfig(v, "summarizer")

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:        v.GetString(prefix + ".provider"),
		APIKey:          v.GetString(prefix + ".api_key"),
		Model:           v.GetString(prefix + ".model"),
		TimeoutSecs:     v.GetInt(prefix + ".timeout_secs"),
		Temperature:     v.GetFloat64(prefix + ".temperature"),
		MaxOutputTokens: v.GetInt(prefix + ".max_output_tokens"),
	}
}
