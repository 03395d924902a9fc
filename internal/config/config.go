package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"QuarterChart/internal/chart"
)

// Store backends accepted by database.store.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
	StoreNone   = "none"
)

// WatchEntry is a ticker archived by the quarterly job.
type WatchEntry struct {
	Ticker string `yaml:"ticker"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"data_source"`
	Chart struct {
		Width   int           `yaml:"width"`
		Height  int           `yaml:"height"`
		Options chart.Options `yaml:",inline"`
	} `yaml:"chart"`
	Schedule struct {
		ArchiveCron string       `yaml:"archive_cron"`
		Watchlist   []WatchEntry `yaml:"watchlist"`
	} `yaml:"schedule"`
	Database struct {
		Store           string `yaml:"store"`
		SQLitePath      string `yaml:"sqlite_path"`
		MongoURI        string `yaml:"mongo_uri"`
		MongoDatabase   string `yaml:"mongo_database"`
		MongoCollection string `yaml:"mongo_collection"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.Chart.Options = chart.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("QC_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.MaxRetries = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_ARCHIVE"); v != "" {
		cfg.Schedule.ArchiveCron = v
	}
	if v := os.Getenv("QC_STORE"); v != "" {
		cfg.Database.Store = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Database.MongoURI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.Database.MongoDatabase = v
	}
	if v := os.Getenv("MONGO_COLLECTION"); v != "" {
		cfg.Database.MongoCollection = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 800
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 400
	}
	if cfg.Schedule.ArchiveCron == "" {
		cfg.Schedule.ArchiveCron = "0 0 6 2 1,4,7,10 *"
	}
	if cfg.Database.Store == "" {
		cfg.Database.Store = StoreSQLite
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/quarterchart.db"
	}
	if cfg.Database.MongoDatabase == "" {
		cfg.Database.MongoDatabase = "trading"
	}
	if cfg.Database.MongoCollection == "" {
		cfg.Database.MongoCollection = "stocks"
	}

	return cfg, nil
}

// loadDotenv loads ENV_FILE, or ./.env when present. Existing variables win.
func loadDotenv() error {
	if os.Getenv("NO_DOTENV") == "1" {
		return nil
	}
	path := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		path = v
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Store {
	case StoreSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required")
		}
	case StoreMongo:
		if c.Database.MongoURI == "" {
			return fmt.Errorf("database.mongo_uri is required for the mongo store")
		}
	case StoreNone:
	default:
		return fmt.Errorf("database.store must be one of sqlite, mongo, none; got %q", c.Database.Store)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if c.Chart.Options.Padding < 0 || c.Chart.Options.Padding >= 1 {
		return fmt.Errorf("chart.padding must be in [0, 1)")
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must not be negative")
	}
	for i, w := range c.Schedule.Watchlist {
		if w.Ticker == "" {
			return fmt.Errorf("schedule.watchlist[%d].ticker is required", i)
		}
	}
	return nil
}
