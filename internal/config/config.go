// Package config loads the service configuration from environment variables
// and an optional .env file, and the per-project .evo-warden.yml overrides.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	Server    ServerConfig
	Database  DBConfig
	Logging   LoggingConfig
	Evolution EvolutionConfig
	LLM       LLMConfig
	GitHub    GitHubConfig
}

// ServerConfig configures the ops HTTP API.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// DBConfig configures the PostgreSQL pool.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// EvolutionConfig configures the control loop for the single tenant this
// process serves.
type EvolutionConfig struct {
	Tenant           string
	ProjectRoot      string
	BackupRoot       string
	MaxWorkers       int
	AnalysisInterval time.Duration
	CanaryInterval   time.Duration
	MetricsInterval  time.Duration
	DebounceWindow   time.Duration
}

// LLMConfig configures the optional reasoning backend.
type LLMConfig struct {
	Provider           string
	OllamaHost         string
	GeminiAPIKey       string
	GeneratorModelName string
}

// GitHubConfig configures the escalation notifier. A missing token disables
// escalation.
type GitHubConfig struct {
	Token string
	Owner string
	Repo  string
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "evowarden")
	viper.SetDefault("DB_NAME", "evowarden")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")
	viper.SetDefault("TENANT", "default")
	viper.SetDefault("PROJECT_ROOT", ".")
	viper.SetDefault("BACKUP_ROOT", ".evo-warden/backups")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("ANALYSIS_INTERVAL", "30m")
	viper.SetDefault("CANARY_INTERVAL", "1m")
	viper.SetDefault("METRICS_INTERVAL", "15m")
	viper.SetDefault("DEBOUNCE_WINDOW", "5s")
	viper.SetDefault("LLM_PROVIDER", "")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("GENERATOR_MODEL_NAME", "gemma3:latest")

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	if viper.GetString("DB_PASSWORD") == "" {
		return nil, fmt.Errorf("DB_PASSWORD must be set")
	}

	// The Gemini generator model has its own override.
	generatorModel := viper.GetString("GENERATOR_MODEL_NAME")
	if viper.GetString("LLM_PROVIDER") == "gemini" {
		if geminiModel := viper.GetString("GEMINI_GENERATOR_MODEL_NAME"); geminiModel != "" {
			generatorModel = geminiModel
		} else {
			generatorModel = "gemini-2.5-flash"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Evolution: EvolutionConfig{
			Tenant:           viper.GetString("TENANT"),
			ProjectRoot:      viper.GetString("PROJECT_ROOT"),
			BackupRoot:       viper.GetString("BACKUP_ROOT"),
			MaxWorkers:       viper.GetInt("MAX_WORKERS"),
			AnalysisInterval: viper.GetDuration("ANALYSIS_INTERVAL"),
			CanaryInterval:   viper.GetDuration("CANARY_INTERVAL"),
			MetricsInterval:  viper.GetDuration("METRICS_INTERVAL"),
			DebounceWindow:   viper.GetDuration("DEBOUNCE_WINDOW"),
		},
		LLM: LLMConfig{
			Provider:           viper.GetString("LLM_PROVIDER"),
			OllamaHost:         viper.GetString("OLLAMA_HOST"),
			GeminiAPIKey:       viper.GetString("GEMINI_API_KEY"),
			GeneratorModelName: generatorModel,
		},
		GitHub: GitHubConfig{
			Token: viper.GetString("GITHUB_TOKEN"),
			Owner: viper.GetString("GITHUB_OWNER"),
			Repo:  viper.GetString("GITHUB_REPO"),
		},
	}
	return cfg, nil
}
