package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/cef/internal/logging"
)

type Config struct {
	DataDir string         `mapstructure:"data_dir"`
	Feed    FeedConfig     `mapstructure:"feed"`
	Log     logging.Config `mapstructure:"log"`
}

type FeedConfig struct {
	// Source is a file path or an http(s) URL of the events JSON.
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from defaults, an optional .env file, CEF_*
// environment variables, <data_dir>/config.yaml and finally flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()

	defaultDataDir := filepath.Join(homeDir, ".cef")

	v := viper.New()
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("feed.source", "data/events.json")
	v.SetDefault("feed.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")

	// Environment variable overrides
	v.SetEnvPrefix("CEF")
	v.AutomaticEnv()
	v.BindEnv("data_dir", "CEF_DATA_DIR")
	v.BindEnv("feed.source", "CEF_FEED")
	v.BindEnv("feed.timeout", "CEF_FEED_TIMEOUT")
	v.BindEnv("log.level", "CEF_LOG_LEVEL")
	v.BindEnv("log.format", "CEF_LOG_FORMAT")
	v.BindEnv("log.file", "CEF_LOG_FILE")

	if flags != nil {
		if f := flags.Lookup("data-dir"); f != nil {
			v.BindPFlag("data_dir", f)
		}
		if f := flags.Lookup("feed"); f != nil {
			v.BindPFlag("feed.source", f)
		}
		if f := flags.Lookup("log-level"); f != nil {
			v.BindPFlag("log.level", f)
		}
	}

	// Config file lives in the data directory, so resolve that first.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))

	// Read config file if exists (ignore error if not found)
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LogPath is where the TUI writes its log when no log file is configured.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "cef.log")
}
