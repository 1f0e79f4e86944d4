// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
	Search   SearchConfig   `mapstructure:"search"`
	Planner  PlannerConfig  `mapstructure:"planner"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains SQLite corpus database configuration
type DatabaseConfig struct {
	// Path is the SQLite file path; empty means in-memory.
	Path        string `mapstructure:"path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	Seed        bool   `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration for the history provider
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	Database    int           `mapstructure:"database"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// MaxTurns caps the stored conversation turns per user.
	MaxTurns int `mapstructure:"max_turns"`
}

// AIConfig contains text-generation and embedding provider configuration
type AIConfig struct {
	Provider       string        `mapstructure:"provider"` // ollama or openai
	OllamaHost     string        `mapstructure:"ollama_host"`
	OllamaModel    string        `mapstructure:"ollama_model"`
	OpenAIKey      string        `mapstructure:"openai_key"`
	OpenAIModel    string        `mapstructure:"openai_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains candidate retrieval configuration
type SearchConfig struct {
	// Backend selects the candidate store: lexical or vector.
	Backend string `mapstructure:"backend"`
	// CandidateCeiling caps the headroom fetch (2x requested) per call.
	CandidateCeiling int `mapstructure:"candidate_ceiling"`
}

// PlannerConfig contains plan generation configuration
type PlannerConfig struct {
	// CuisineBoost is the saturating score boost for preferred cuisines.
	CuisineBoost float64 `mapstructure:"cuisine_boost"`
	// CandidateLimit is how many reranked candidates feed the prompt.
	CandidateLimit int `mapstructure:"candidate_limit"`
	// HistoryTurns is how many recent conversation turns enter the prompt.
	HistoryTurns int `mapstructure:"history_turns"`
	DefaultDays  int `mapstructure:"default_days"`
	MaxDays      int `mapstructure:"max_days"`
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mealforge")
	}

	v.SetEnvPrefix("MEALFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults cover a missing config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Mealforge")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.path", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed", true)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.max_turns", 50)

	// AI defaults
	v.SetDefault("ai.provider", "ollama")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.ollama_model", "llama3.2:3b")
	v.SetDefault("ai.openai_model", "gpt-4o-mini")
	v.SetDefault("ai.embedding_model", "nomic-embed-text")
	v.SetDefault("ai.max_tokens", 4096)
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.timeout", "60s")

	// Search defaults
	v.SetDefault("search.backend", "lexical")
	v.SetDefault("search.candidate_ceiling", 30)

	// Planner defaults
	v.SetDefault("planner.cuisine_boost", 0.05)
	v.SetDefault("planner.candidate_limit", 15)
	v.SetDefault("planner.history_turns", 5)
	v.SetDefault("planner.default_days", 7)
	v.SetDefault("planner.max_days", 30)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Search.Backend {
	case "lexical", "vector":
	default:
		return fmt.Errorf("search.backend must be lexical or vector, got %q", c.Search.Backend)
	}
	switch c.AI.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("ai.provider must be ollama or openai, got %q", c.AI.Provider)
	}
	if c.AI.Provider == "openai" && c.AI.OpenAIKey == "" {
		return fmt.Errorf("ai.openai_key is required when ai.provider is openai")
	}
	if c.Planner.CuisineBoost < 0 || c.Planner.CuisineBoost > 1 {
		return fmt.Errorf("planner.cuisine_boost must be within [0,1]")
	}
	if c.Search.CandidateCeiling <= 0 {
		return fmt.Errorf("search.candidate_ceiling must be positive")
	}
	return nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
