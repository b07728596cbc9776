package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version: "1.0.0"
mode: release
http:
  addr: ":9090"
database:
  host: db.internal
  port: 3306
  user: app
  password: secret
  dbname: chulgyeol
auth:
  jwt_secret: super-secret
bot:
  teacher_role: "담임"
  base_url: "https://bot.example.com"
  upload_dir: "/var/lib/chulgyeol/uploads"
  guild_api_url: "https://gateway.example.com"
  guild_api_token: "bot-token"
  alert_channel_id: "123456"
  reminder_time: "08:30"
  pending_ttl: 12h
  holidays:
    - "2026-10-03"
    - "2026-10-09"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mode != "release" || cfg.HTTP.Addr != ":9090" {
		t.Errorf("mode/addr = %q/%q", cfg.Mode, cfg.HTTP.Addr)
	}
	if cfg.DB.Host != "db.internal" || cfg.DB.Port != 3306 || cfg.DB.DBName != "chulgyeol" {
		t.Errorf("db config = %+v", cfg.DB)
	}
	if cfg.Auth.JWTSecret != "super-secret" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Bot.TeacherRole != "담임" {
		t.Errorf("teacher role = %q", cfg.Bot.TeacherRole)
	}
	if got := cfg.Bot.PendingTTL.Std(); got != 12*time.Hour {
		t.Errorf("pending ttl = %v, want 12h", got)
	}
	if len(cfg.Bot.Holidays) != 2 || cfg.Bot.Holidays[0] != "2026-10-03" {
		t.Errorf("holidays = %v", cfg.Bot.Holidays)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
mode: dev
database:
  host: localhost
  port: 3306
  user: root
  password: ""
  dbname: chulgyeol
auth:
  jwt_secret: dev
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Bot.TeacherRole != "교사" {
		t.Errorf("teacher role = %q, want 교사", cfg.Bot.TeacherRole)
	}
	if cfg.Bot.UploadDir != "uploads" {
		t.Errorf("upload dir = %q, want uploads", cfg.Bot.UploadDir)
	}
	if cfg.Bot.ReminderTime != "07:00" {
		t.Errorf("reminder time = %q, want 07:00", cfg.Bot.ReminderTime)
	}
	if got := cfg.Bot.PendingTTL.Std(); got != 24*time.Hour {
		t.Errorf("pending ttl = %v, want 24h", got)
	}
}

func TestLoadBadReminderTime(t *testing.T) {
	path := writeConfig(t, `
mode: dev
bot:
  reminder_time: "7 o'clock"
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an unparsable reminder time")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
mode: dev
bot:
  pending_ttl: "soon"
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an unparsable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() accepted a missing file")
	}
}
