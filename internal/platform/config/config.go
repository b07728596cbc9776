package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Duration lets yaml carry values like "24h" or "90m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// BotConfig covers everything the chat-gateway side of the service needs:
// role gate marker, public URL base, upload storage, guild API access and
// the daily reminder.
type BotConfig struct {
	TeacherRole    string        `yaml:"teacher_role"`
	BaseURL        string        `yaml:"base_url"`
	UploadDir      string        `yaml:"upload_dir"`
	GuildAPIURL    string        `yaml:"guild_api_url"`
	GuildAPIToken  string        `yaml:"guild_api_token"`
	AlertChannelID string        `yaml:"alert_channel_id"`
	ReminderTime   string        `yaml:"reminder_time"` // "HH:MM", server-local
	PendingTTL     Duration      `yaml:"pending_ttl"`
	Holidays       []string      `yaml:"holidays"` // YYYY-MM-DD
}

type Config struct {
	Version  string         `yaml:"version"`
	Mode     string         `yaml:"mode"`
	HTTP     HTTPConfig     `yaml:"http"`
	DB       DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Bot      BotConfig      `yaml:"bot"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()
	if _, err := time.Parse("15:04", cfg.Bot.ReminderTime); err != nil {
		return nil, fmt.Errorf("invalid reminder_time %q: want HH:MM", cfg.Bot.ReminderTime)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Bot.TeacherRole == "" {
		c.Bot.TeacherRole = "교사"
	}
	if c.Bot.UploadDir == "" {
		c.Bot.UploadDir = "uploads"
	}
	if c.Bot.ReminderTime == "" {
		c.Bot.ReminderTime = "07:00"
	}
	if c.Bot.PendingTTL <= 0 {
		c.Bot.PendingTTL = Duration(24 * time.Hour)
	}
}
