package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Log        LogConfig
	Classifier ClassifierConfig
	Telegram   TelegramConfig
	Admin      AdminConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
	Mode string
	// Production gates diagnostic detail in error responses
	Production bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// ClassifierConfig holds classification provider configuration
type ClassifierConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// TelegramConfig holds alert notifier configuration. Alerts are disabled
// when the token is empty.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// AdminConfig holds admin route configuration. Admin routes are disabled
// when the token is empty.
type AdminConfig struct {
	Token string
}

// Load reads configuration from environment variables with defaults.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SNAKEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:       v.GetString("server.host"),
			Port:       v.GetInt("server.port"),
			Mode:       v.GetString("server.mode"),
			Production: v.GetBool("server.production"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Classifier: ClassifierConfig{
			BaseURL: v.GetString("classifier.baseurl"),
			Model:   v.GetString("classifier.model"),
			APIKey:  v.GetString("classifier.apikey"),
			Timeout: v.GetDuration("classifier.timeout"),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString("telegram.token"),
			ChatID: v.GetInt64("telegram.chatid"),
		},
		Admin: AdminConfig{
			Token: v.GetString("admin.token"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.production", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "snakewatch")
	v.SetDefault("database.password", "snakewatch")
	v.SetDefault("database.dbname", "snakewatch")
	v.SetDefault("database.sslmode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Classifier defaults
	v.SetDefault("classifier.baseurl", "https://generativelanguage.googleapis.com")
	v.SetDefault("classifier.model", "gemini-1.5-flash")
	v.SetDefault("classifier.apikey", "")
	v.SetDefault("classifier.timeout", 60*time.Second)

	// Telegram defaults
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chatid", 0)

	// Admin defaults
	v.SetDefault("admin.token", "")
}
