package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultConfigFilename  = "yt-dlp-telegram.yml"
	DefaultOutputDir       = "downloads"
	DefaultUserDataFile    = "data/userdata.json"
	DefaultUpdateInterval  = 10 * time.Second
	DefaultMaxFilesize     = "2000M"
	DefaultPlaceholderGIF  = "https://media.tenor.com/akRQReAe9JoAAAAM/walter-white-let-him-cook.gif"
	DefaultLogFile         = "log.txt"
	DefaultShortlinkExpiry = 24 * time.Hour
)

// Settings is the bot configuration loaded from YAML with environment
// overrides for secrets
type Settings struct {
	BotToken       string `yaml:"bot_token"`
	OutputDir      string `yaml:"output_folder"`
	UserDataFile   string `yaml:"user_data_file"`
	MaxFilesize    string `yaml:"max_filesize"`
	UpdateSeconds  int    `yaml:"message_update_interval"`
	LogFile        string `yaml:"log_file"`
	LogChatID      int64  `yaml:"logs_chat_id"`
	PlaceholderGIF string `yaml:"placeholder_gif"`

	Redis RedisSettings `yaml:"redis"`
}

// RedisSettings configures the optional short-link store
type RedisSettings struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DB      int    `yaml:"db"`
}

// Load reads the settings file at path. A missing file is not an error; the
// defaults (plus TELEGRAM_BOT_TOKEN from the environment) still apply.
func Load(path string) (*Settings, error) {
	s := &Settings{}

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, s); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		s.BotToken = token
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.UserDataFile == "" {
		s.UserDataFile = DefaultUserDataFile
	}
	if s.MaxFilesize == "" {
		s.MaxFilesize = DefaultMaxFilesize
	}
	if s.UpdateSeconds <= 0 {
		s.UpdateSeconds = int(DefaultUpdateInterval / time.Second)
	}
	if s.LogFile == "" {
		s.LogFile = DefaultLogFile
	}
	if s.PlaceholderGIF == "" {
		s.PlaceholderGIF = DefaultPlaceholderGIF
	}
	if s.Redis.Host == "" {
		s.Redis.Host = "localhost"
	}
	if s.Redis.Port == 0 {
		s.Redis.Port = 6379
	}
}

func (s *Settings) validate() error {
	if s.BotToken == "" {
		return fmt.Errorf("bot token missing: set bot_token in the config or TELEGRAM_BOT_TOKEN in the environment")
	}
	return nil
}

// UpdateInterval returns the progress edit throttle as a duration
func (s *Settings) UpdateInterval() time.Duration {
	return time.Duration(s.UpdateSeconds) * time.Second
}

// RedisAddr returns the host:port address of the short-link store
func (s *Settings) RedisAddr() string {
	return fmt.Sprintf("%s:%d", s.Redis.Host, s.Redis.Port)
}
