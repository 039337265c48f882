package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadFromDefaults(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("missing")

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.JWT.ExpireHours != 24 {
		t.Fatalf("expected jwt expire 24h, got %d", cfg.JWT.ExpireHours)
	}
	if cfg.Order.ReturnWindowDays != 30 {
		t.Fatalf("expected return window 30 days, got %d", cfg.Order.ReturnWindowDays)
	}
	if cfg.Statistics.ProfitRate != 0.3 {
		t.Fatalf("expected profit rate 0.3, got %v", cfg.Statistics.ProfitRate)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected db driver: %s", cfg.Database.Driver)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  port: \"9090\"\norder:\n  return_window_days: 14\ndatabase:\n  replicas:\n    - \"file:replica.db\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("JWT_SECRET", "env-secret-value")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.Order.ReturnWindowDays != 14 {
		t.Fatalf("expected return window from file, got %d", cfg.Order.ReturnWindowDays)
	}
	if cfg.JWT.SecretKey != "env-secret-value" {
		t.Fatalf("expected jwt secret from env, got %s", cfg.JWT.SecretKey)
	}
	if len(cfg.Database.Replicas) != 1 {
		t.Fatalf("expected one replica, got %v", cfg.Database.Replicas)
	}
}
