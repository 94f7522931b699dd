package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Message source kinds accepted in MessagesConfig.Type.
const (
	MessagesHTTP = "http"
	MessagesIMAP = "imap"
)

// AI providers accepted in AIConfig.Provider.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// SourceConfig points at the message-analysis service that produces tasks.
type SourceConfig struct {
	// BaseURL is the root of the analyser's HTTP API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PollIntervalSec is how often (in seconds) the dashboard refreshes.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// TimeoutSec bounds a single refresh. Zero disables the bound.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// IMAPConfig holds settings for reading important messages from a mailbox.
type IMAPConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	Port      int    `mapstructure:"port" yaml:"port"`
	Username  string `mapstructure:"username" yaml:"username"`
	TLS       bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox   string `mapstructure:"mailbox" yaml:"mailbox"`
	SinceDays int    `mapstructure:"since_days" yaml:"since_days"`
}

// MessagesConfig selects where important messages are read from.
type MessagesConfig struct {
	// Type is "http" (the analyser API) or "imap".
	Type string     `mapstructure:"type" yaml:"type"`
	IMAP IMAPConfig `mapstructure:"imap" yaml:"imap"`
}

// AIConfig holds settings for the summary and chat assistant.
type AIConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider"`
	Model      string `mapstructure:"model" yaml:"model"`
	MaxTokens  int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// UserName is used in the greeting line. Empty omits the name.
	UserName string `mapstructure:"user_name" yaml:"user_name"`
	Theme    string `mapstructure:"theme" yaml:"theme"`
}

// StorageConfig locates on-disk state (cache database, timer state).
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// LogConfig controls the log file sink.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Messages MessagesConfig `mapstructure:"messages" yaml:"messages"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// PollInterval returns the refresh period as a duration.
func (c *AppConfig) PollInterval() time.Duration {
	if c.Source.PollIntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Source.PollIntervalSec) * time.Second
}

// RefreshTimeout returns the per-refresh bound, zero meaning none.
func (c *AppConfig) RefreshTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSec) * time.Second
}

// AITimeout returns the per-call AI bound, zero meaning none.
func (c *AppConfig) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSec) * time.Second
}

// LogFile returns the configured log path, falling back to the data dir.
func (c *AppConfig) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.DataDir, "whatsboard.log")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/whatsboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "whatsboard", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/whatsboard.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "whatsboard-data")
	}
	return filepath.Join(home, ".local", "share", "whatsboard")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Source: SourceConfig{
			BaseURL:         "http://localhost:3000/api",
			PollIntervalSec: 30,
			TimeoutSec:      30,
		},
		Messages: MessagesConfig{
			Type: MessagesHTTP,
			IMAP: IMAPConfig{
				Port:      993,
				TLS:       true,
				Mailbox:   "INBOX",
				SinceDays: 7,
			},
		},
		AI: AIConfig{
			Provider:  ProviderGemini,
			Model:     "gemini-1.5-pro",
			MaxTokens: 1024,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		Storage: StorageConfig{
			DataDir: DefaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("source.base_url", d.Source.BaseURL)
	v.SetDefault("source.poll_interval_sec", d.Source.PollIntervalSec)
	v.SetDefault("source.timeout_sec", d.Source.TimeoutSec)
	v.SetDefault("messages.type", d.Messages.Type)
	v.SetDefault("messages.imap.port", d.Messages.IMAP.Port)
	v.SetDefault("messages.imap.tls", d.Messages.IMAP.TLS)
	v.SetDefault("messages.imap.mailbox", d.Messages.IMAP.Mailbox)
	v.SetDefault("messages.imap.since_days", d.Messages.IMAP.SinceDays)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("log.level", d.Log.Level)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Messages.Type {
	case MessagesHTTP, MessagesIMAP:
	default:
		return nil, fmt.Errorf("config %s: unknown messages.type %q", path, cfg.Messages.Type)
	}
	switch cfg.AI.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("config %s: unknown ai.provider %q", path, cfg.AI.Provider)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("source", cfg.Source)
	v.Set("messages", cfg.Messages)
	v.Set("ai", cfg.AI)
	v.Set("display", cfg.Display)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
