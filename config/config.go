package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Mongo    MongoConfig
	Storage  StorageConfig
	Gating   GatingConfig
	AutoDel  AutoDeleteConfig
	Post     PostConfig
	Deploy   DeployConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken     string
	AdminIDs     []int64
	LogChannelID int64
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// StorageConfig holds file-storage policy configuration
type StorageConfig struct {
	// AllowedChannels is the canonical channel-id allow-list for ingestion
	AllowedChannels []string
}

// GatingConfig holds membership-gating configuration
type GatingConfig struct {
	// ChannelIDs and ChannelUsernames are parallel lists; a requester must
	// be a member of every listed channel
	ChannelIDs       []string
	ChannelUsernames []string
}

// AutoDeleteConfig holds timed-retraction configuration
type AutoDeleteConfig struct {
	Enabled      bool
	DelayMinutes int
}

// PostConfig holds TMDB and shortener configuration
type PostConfig struct {
	TMDBAPIKey      string
	TMDBBaseURL     string
	ShortenerAPIKey string
}

// DeployConfig holds Koyeb redeploy configuration
type DeployConfig struct {
	APIKey    string
	ServiceID string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Mongo    *MongoConfig
	Storage  *StorageConfig
	Gating   *GatingConfig
	AutoDel  *AutoDeleteConfig
	Post     *PostConfig
	Deploy   *DeployConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Mongo:    &cfg.Mongo,
		Storage:  &cfg.Storage,
		Gating:   &cfg.Gating,
		AutoDel:  &cfg.AutoDel,
		Post:     &cfg.Post,
		Deploy:   &cfg.Deploy,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	adminIDs, err := parseAdminIDs(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:     getEnv("BOT_TOKEN", ""),
			AdminIDs:     adminIDs,
			LogChannelID: getEnvInt64("LOG_CHANNEL_ID", 0),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("DATABASE_NAME", "filestore"),
		},
		Storage: StorageConfig{
			AllowedChannels: splitList(getEnv("DATABASE_FILE_CHANNELS", "")),
		},
		Gating: GatingConfig{
			ChannelIDs:       splitList(getEnv("FORCE_CHANNEL_IDS", "")),
			ChannelUsernames: splitList(getEnv("FORCE_CHANNEL_USERNAMES", "")),
		},
		AutoDel: AutoDeleteConfig{
			Enabled:      getEnv("AUTO_DELETE_FILES", "false") == "true",
			DelayMinutes: getEnvInt("AUTO_DELETE_TIME", 5),
		},
		Post: PostConfig{
			TMDBAPIKey:      getEnv("TMDB_API_KEY", ""),
			TMDBBaseURL:     getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ShortenerAPIKey: getEnv("GETTOSHORT_API", ""),
		},
		Deploy: DeployConfig{
			APIKey:    getEnv("KOYEB_API_KEY", ""),
			ServiceID: getEnv("KOYEB_SERVICE_ID", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Port: getEnv("PORT", "8000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}

	if len(c.Gating.ChannelIDs) != len(c.Gating.ChannelUsernames) {
		return fmt.Errorf("FORCE_CHANNEL_IDS and FORCE_CHANNEL_USERNAMES must have the same length")
	}

	if c.AutoDel.Enabled && c.AutoDel.DelayMinutes <= 0 {
		return fmt.Errorf("AUTO_DELETE_TIME must be positive when AUTO_DELETE_FILES is enabled")
	}

	return nil
}

// IsAdmin reports whether userID is in the configured admin set
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS contains non-numeric id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets a 64-bit integer environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
