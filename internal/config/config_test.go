package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("explicit missing config file should fail")
	}

	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}

	if cfg.Monitor.ThresholdDays != 3 {
		t.Fatalf("threshold default = %d, want 3", cfg.Monitor.ThresholdDays)
	}
	if cfg.Alerting.Slack.Channel != "#order-alerts" || cfg.Alerting.Slack.Username != "OrderMonitor" {
		t.Fatalf("slack defaults incorrect: %+v", cfg.Alerting.Slack)
	}
	if cfg.Alerting.Slack.RequestTimeout != 10*time.Second {
		t.Fatalf("request timeout default = %v", cfg.Alerting.Slack.RequestTimeout)
	}
	if cfg.Alerting.Slack.WebhookURL != "" {
		t.Fatalf("webhook url should default to unset, got %q", cfg.Alerting.Slack.WebhookURL)
	}
	if cfg.Scheduler.Interval != 24*time.Hour {
		t.Fatalf("scheduler interval default = %v", cfg.Scheduler.Interval)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := []byte(`
monitor:
  threshold_days: 7
alerting:
  slack:
    webhook_url: https://hooks.example.com/T000/B000/XXXX
    channel: "#ops"
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Monitor.ThresholdDays != 7 {
		t.Fatalf("threshold = %d, want 7", cfg.Monitor.ThresholdDays)
	}
	if cfg.Alerting.Slack.WebhookURL != "https://hooks.example.com/T000/B000/XXXX" {
		t.Fatalf("webhook url = %q", cfg.Alerting.Slack.WebhookURL)
	}
	if cfg.Alerting.Slack.Channel != "#ops" {
		t.Fatalf("channel = %q", cfg.Alerting.Slack.Channel)
	}
	if cfg.Alerting.Slack.Username != "OrderMonitor" {
		t.Fatalf("username should keep default, got %q", cfg.Alerting.Slack.Username)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("ORDERMON_ALERTING_SLACK_WEBHOOK_URL", "https://hooks.example.com/T000/B000/YYYY")
	t.Setenv("ORDERMON_DATABASE_DSN", "postgres://monitor@db:5432/shop")
	t.Setenv("ORDERMON_MONITOR_THRESHOLD_DAYS", "5")

	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Alerting.Slack.WebhookURL != "https://hooks.example.com/T000/B000/YYYY" {
		t.Fatalf("webhook url from env not picked up, got %q", cfg.Alerting.Slack.WebhookURL)
	}
	if cfg.Database.DSN != "postgres://monitor@db:5432/shop" {
		t.Fatalf("dsn from env not picked up, got %q", cfg.Database.DSN)
	}
	if cfg.Monitor.ThresholdDays != 5 {
		t.Fatalf("threshold from env = %d, want 5", cfg.Monitor.ThresholdDays)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Monitor.ThresholdDays = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero threshold should fail validation")
	}

	cfg.Monitor.ThresholdDays = 3
	cfg.Scheduler.Interval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero interval should fail validation")
	}
}

// loadFromDir loads config from an empty temp working directory so a
// developer's local config.yaml cannot leak into the test.
func loadFromDir(t *testing.T, path string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return Load(path)
}
