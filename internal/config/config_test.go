package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"AI_PROVIDER", "KV_BACKEND", "PORT", "GATEWAY_TIMEOUT", "CORS_ORIGINS", "EVENTS_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.GatewayTimeout != 45*time.Second {
		t.Fatalf("expected 45s gateway timeout, got %s", cfg.GatewayTimeout)
	}
	if cfg.KVBackend != "memory" || cfg.UserDB != "sqlite" || cfg.ResumeStorage != "memory" {
		t.Fatalf("unexpected storage defaults %+v", cfg)
	}
	if cfg.SnapshotTTL != 168*time.Hour {
		t.Fatalf("expected 168h snapshot TTL, got %s", cfg.SnapshotTTL)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Fatalf("expected 30m session idle TTL, got %s", cfg.SessionIdleTTL)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected two default CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("GATEWAY_MAX_ATTEMPTS", "3")
	t.Setenv("KV_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SEED_DEMO_USERS", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Fatalf("expected provider openai, got %s", cfg.Provider)
	}
	if cfg.GatewayTimeout != 5*time.Second || cfg.GatewayMaxAttempts != 3 {
		t.Fatalf("unexpected gateway settings %s/%d", cfg.GatewayTimeout, cfg.GatewayMaxAttempts)
	}
	if !cfg.SeedDemoUsers {
		t.Fatal("expected demo seeding enabled")
	}
	if strings.Join(cfg.CORSOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unsupported provider", map[string]string{"AI_PROVIDER": "unknown"}, "AI_PROVIDER"},
		{"unknown kv backend", map[string]string{"KV_BACKEND": "etcd"}, "KV_BACKEND"},
		{"redis without address", map[string]string{"KV_BACKEND": "redis", "REDIS_ADDR": ""}, "REDIS_ADDR"},
		{"s3 without bucket", map[string]string{"RESUME_STORAGE": "s3", "RESUME_BUCKET": ""}, "RESUME_BUCKET"},
		{"rabbit without url", map[string]string{"EVENTS_BACKEND": "rabbitmq", "RABBITMQ_URL": ""}, "RABBITMQ_URL"},
		{"zero attempts", map[string]string{"GATEWAY_MAX_ATTEMPTS": "0"}, "GATEWAY_MAX_ATTEMPTS"},
		{"idle shorter than a question", map[string]string{"SESSION_IDLE_TTL": "5m"}, "SESSION_IDLE_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "x", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=x sslmode=disable"
	if got := p.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
