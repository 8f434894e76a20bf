// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"            validate:"required,min=1,max=65535"`
	Mode           string   `mapstructure:"mode"            validate:"required,oneof=development production"`
	APIKeys        []string `mapstructure:"api_keys"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"  validate:"min=0"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" validate:"min=0"`
}

// DatabaseConfig holds connectivity settings for the hosted Postgres store.
// URL must carry the privileged service credentials; the process refuses to
// start without it.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=1m"`
}

// RedisConfig holds cache settings. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	ChatCacheTTL time.Duration `mapstructure:"chat_cache_ttl" validate:"min=0"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ParserConfig locates the external ingestion process.
type ParserConfig struct {
	Python          string        `mapstructure:"python"            validate:"required"`
	Script          string        `mapstructure:"script"            validate:"required"`
	ChatListScript  string        `mapstructure:"chat_list_script"  validate:"required"`
	WorkDir         string        `mapstructure:"work_dir"`
	ChatListTimeout time.Duration `mapstructure:"chat_list_timeout" validate:"min=1s"`
}

// TaskConfig describes a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig holds the scheduled task table.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// RetentionConfig controls the age-based message sweep.
type RetentionConfig struct {
	Days int `mapstructure:"days" validate:"min=1"`
}

// AIConfig configures the downstream annotation step. An empty token
// disables it.
type AIConfig struct {
	Token     string        `mapstructure:"token"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"    validate:"min=1s,max=10m"`
	BatchSize int           `mapstructure:"batch_size" validate:"min=1,max=200"`
}

// TelegramConfig configures announcement dispatch. An empty bot token
// disables it.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// Config defines the application configuration. Values can be set via
// environment variables prefixed with CARGOWATCH_ (e.g.
// CARGOWATCH_DATABASE_URL) or through config.yaml.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Retention RetentionConfig `mapstructure:"retention"`
	AI        AIConfig        `mapstructure:"ai"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at path (optional)
// 3. CARGOWATCH_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CARGOWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; env and defaults still apply.
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.rate_limit_burst", 0)

	// Registering the key lets AutomaticEnv pick up CARGOWATCH_DATABASE_URL
	// during Unmarshal; the required validation still rejects an empty value.
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.chat_cache_ttl", 10*time.Minute)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("parser.python", "python3")
	v.SetDefault("parser.script", "telegram_parser.py")
	v.SetDefault("parser.chat_list_script", "get_chats.py")
	v.SetDefault("parser.work_dir", "")
	v.SetDefault("parser.chat_list_timeout", 30*time.Second)

	v.SetDefault("retention.days", 14)

	v.SetDefault("ai.token", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.batch_size", 20)

	v.SetDefault("telegram.bot_token", "")

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"message_retention": {Enabled: true, Schedule: "0 0 4 * * *"},
	})
}
