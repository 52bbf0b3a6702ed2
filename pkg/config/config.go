package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/smith3v/lingochat/pkg/logger"
)

type Config struct {
	Database    DatabaseConfig    `json:"database"`
	Logging     LoggingConfig     `json:"logging"`
	HTTP        HTTPConfig        `json:"http"`
	Auth        AuthConfig        `json:"auth"`
	Chat        ChatConfig        `json:"chat"`
	Translation TranslationConfig `json:"translation"`
	Cache       CacheConfig       `json:"cache"`
	Telegram    TelegramConfig    `json:"telegram"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"` // postgres or sqlite
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
	Path     string `json:"path"` // sqlite only
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

type HTTPConfig struct {
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
	BcryptCost      int    `json:"bcrypt_cost"`
}

type ChatConfig struct {
	Provider           string `json:"provider"` // openai, gemini or anthropic
	APIKey             string `json:"api_key"`
	BaseURL            string `json:"base_url"`
	Model              string `json:"model"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
	MaxOutputTokens    int    `json:"max_output_tokens"`
	MaxUtteranceTokens int    `json:"max_utterance_tokens"`
	GCPProject         string `json:"gcp_project"`
	GCPLocation        string `json:"gcp_location"`
}

type TranslationConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type CacheConfig struct {
	Backend              string `json:"backend"` // memory or bolt
	Capacity             int    `json:"capacity"`
	TTLMinutes           int    `json:"ttl_minutes"`
	BoltPath             string `json:"bolt_path"`
	SweepIntervalMinutes int    `json:"sweep_interval_minutes"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	CacheBackendMemory = "memory"
	CacheBackendBolt   = "bolt"
)

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return err
	}

	AppConfig = cfg
	return nil
}

// ApplyDefaults fills every zero value that has a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.Path == "" {
		c.Database.Path = "lingochat.db"
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeoutSeconds <= 0 {
		c.HTTP.ReadTimeoutSeconds = 15
	}
	if c.HTTP.WriteTimeoutSeconds <= 0 {
		c.HTTP.WriteTimeoutSeconds = 30
	}

	if c.Auth.TokenTTLMinutes <= 0 {
		c.Auth.TokenTTLMinutes = 60
	}

	c.Chat.Provider = strings.ToLower(strings.TrimSpace(c.Chat.Provider))
	if c.Chat.Provider == "" {
		c.Chat.Provider = ProviderOpenAI
	}
	if c.Chat.Provider == ProviderOpenAI && c.Chat.BaseURL == "" {
		c.Chat.BaseURL = "https://api.openai.com/v1"
	}
	if c.Chat.Model == "" {
		switch c.Chat.Provider {
		case ProviderGemini:
			c.Chat.Model = "gemini-2.5-flash"
		case ProviderAnthropic:
			c.Chat.Model = "claude-3-5-haiku-latest"
		default:
			c.Chat.Model = "gpt-4o-mini"
		}
	}
	if c.Chat.TimeoutSeconds <= 0 {
		c.Chat.TimeoutSeconds = 10
	}
	if c.Chat.MaxOutputTokens <= 0 {
		c.Chat.MaxOutputTokens = 256
	}
	if c.Chat.GCPLocation == "" {
		c.Chat.GCPLocation = "us-central1"
	}

	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = "https://api-free.deepl.com"
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = 10
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 10000
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 24 * 60
	}
	if c.Cache.BoltPath == "" {
		c.Cache.BoltPath = "translations.bolt"
	}
	if c.Cache.SweepIntervalMinutes <= 0 {
		c.Cache.SweepIntervalMinutes = 60
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.Chat.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if c.Chat.APIKey == "" {
			errs = append(errs, fmt.Errorf("chat.api_key is required for provider %q", c.Chat.Provider))
		}
	case ProviderGemini:
		if c.Chat.APIKey == "" && c.Chat.GCPProject == "" {
			errs = append(errs, errors.New("chat.api_key or chat.gcp_project is required for provider \"gemini\""))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported chat provider %q", c.Chat.Provider))
	}
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendBolt:
	default:
		errs = append(errs, fmt.Errorf("unsupported cache backend %q", c.Cache.Backend))
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required when telegram is enabled"))
	}

	return errors.Join(errs...)
}

func (c ChatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c TranslationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
