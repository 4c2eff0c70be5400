package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type Config struct {
	Env  string
	Port string

	Provider           string
	GatewayTimeout     time.Duration
	GatewayMaxAttempts int
	AnalysisCacheTTL   time.Duration

	KVBackend  string
	UserDB     string
	SQLitePath string
	Postgres   PostgresConfig
	RedisAddr  string
	MongoURI   string
	MongoDB    string

	PasswordScheme string
	JWTSecret      string
	JWTTTL         time.Duration

	ResumeStorage      string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	ResumeBucket       string
	S3Endpoint         string

	EventsBackend string
	RabbitMQURL   string
	EventsQueue   string

	SnapshotTTL             time.Duration
	SnapshotCleanupSchedule string
	SessionIdleTTL          time.Duration
	SeedDemoUsers           bool

	CORSOrigins []string
}

// An idle machine may still be waiting on a hard question (600 seconds).
const minSessionIdle = 10 * time.Minute

var defaults = map[string]any{
	"ENV":                   "production",
	"PORT":                      "8080",
	"AI_PROVIDER":               "gemini",
	"GATEWAY_TIMEOUT":           "45s",
	"GATEWAY_MAX_ATTEMPTS":      1,
	"ANALYSIS_CACHE_TTL":        "15m",
	"KV_BACKEND":                "memory",
	"USER_DB":                   "sqlite",
	"SQLITE_PATH":               "prepcoach.db",
	"POSTGRES_HOST":             "localhost",
	"POSTGRES_PORT":             "5432",
	"POSTGRES_USER":             "postgres",
	"POSTGRES_PASSWORD":         "",
	"POSTGRES_DB":               "prepcoach",
	"POSTGRES_SSLMODE":          "disable",
	"REDIS_ADDR":                "",
	"MONGO_URI":                 "",
	"MONGO_DB":                  "prepcoach",
	"PASSWORD_SCHEME":           "bcrypt",
	"JWT_SECRET":                "dev",
	"JWT_TTL":                   "24h",
	"RESUME_STORAGE":            "memory",
	"AWS_REGION":                "us-east-1",
	"AWS_ACCESS_KEY_ID":         "",
	"AWS_SECRET_ACCESS_KEY":     "",
	"RESUME_BUCKET":             "",
	"S3_ENDPOINT":               "",
	"EVENTS_BACKEND":            "none",
	"RABBITMQ_URL":              "",
	"EVENTS_QUEUE":              "interview_completed",
	"SNAPSHOT_TTL":              "168h",
	"SNAPSHOT_CLEANUP_SCHEDULE": "@hourly",
	"SESSION_IDLE_TTL":          "30m",
	"SEED_DEMO_USERS":           false,
	"CORS_ORIGINS":              "http://localhost:3000,http://localhost:5173",
}

// loads .env when present, then environment variables over the defaults
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	config := &Config{
		Env:                v.GetString("ENV"),
		Port:               v.GetString("PORT"),
		Provider:           strings.ToLower(v.GetString("AI_PROVIDER")),
		GatewayTimeout:     v.GetDuration("GATEWAY_TIMEOUT"),
		GatewayMaxAttempts: v.GetInt("GATEWAY_MAX_ATTEMPTS"),
		AnalysisCacheTTL:   v.GetDuration("ANALYSIS_CACHE_TTL"),
		KVBackend:          strings.ToLower(v.GetString("KV_BACKEND")),
		UserDB:             strings.ToLower(v.GetString("USER_DB")),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		RedisAddr:               v.GetString("REDIS_ADDR"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDB:                 v.GetString("MONGO_DB"),
		PasswordScheme:          strings.ToLower(v.GetString("PASSWORD_SCHEME")),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  v.GetDuration("JWT_TTL"),
		ResumeStorage:           strings.ToLower(v.GetString("RESUME_STORAGE")),
		AWSRegion:               v.GetString("AWS_REGION"),
		AWSAccessKeyID:          v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:      v.GetString("AWS_SECRET_ACCESS_KEY"),
		ResumeBucket:            v.GetString("RESUME_BUCKET"),
		S3Endpoint:              v.GetString("S3_ENDPOINT"),
		EventsBackend:           strings.ToLower(v.GetString("EVENTS_BACKEND")),
		RabbitMQURL:             v.GetString("RABBITMQ_URL"),
		EventsQueue:             v.GetString("EVENTS_QUEUE"),
		SnapshotTTL:             v.GetDuration("SNAPSHOT_TTL"),
		SnapshotCleanupSchedule: v.GetString("SNAPSHOT_CLEANUP_SCHEDULE"),
		SessionIdleTTL:          v.GetDuration("SESSION_IDLE_TTL"),
		SeedDemoUsers:           v.GetBool("SEED_DEMO_USERS"),
		CORSOrigins:             splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %s. Supported: %s", name, value, strings.Join(allowed, ", "))
}

// Provider credentials are validated by each provider's NewConfig.
func validateConfig(config *Config) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(oneOf("AI_PROVIDER", config.Provider, "gemini", "openai"))
	add(oneOf("KV_BACKEND", config.KVBackend, "memory", "redis", "postgres", "mongo"))
	add(oneOf("USER_DB", config.UserDB, "sqlite", "postgres"))
	add(oneOf("PASSWORD_SCHEME", config.PasswordScheme, "bcrypt", "plain"))
	add(oneOf("RESUME_STORAGE", config.ResumeStorage, "memory", "s3"))
	add(oneOf("EVENTS_BACKEND", config.EventsBackend, "none", "redis", "rabbitmq"))

	if config.GatewayTimeout <= 0 {
		add(errors.New("GATEWAY_TIMEOUT must be positive"))
	}
	if config.GatewayMaxAttempts < 1 {
		add(errors.New("GATEWAY_MAX_ATTEMPTS must be at least 1"))
	}
	if config.JWTSecret == "" {
		add(errors.New("JWT_SECRET is required"))
	}
	if config.JWTTTL <= 0 {
		add(errors.New("JWT_TTL must be positive"))
	}
	if config.SnapshotTTL <= 0 {
		add(errors.New("SNAPSHOT_TTL must be positive"))
	}
	if config.SessionIdleTTL < minSessionIdle {
		add(fmt.Errorf("SESSION_IDLE_TTL must be at least %s", minSessionIdle))
	}
	if (config.KVBackend == "redis" || config.EventsBackend == "redis") && config.RedisAddr == "" {
		add(errors.New("REDIS_ADDR is required for the redis backend"))
	}
	if config.KVBackend == "mongo" && config.MongoURI == "" {
		add(errors.New("MONGO_URI is required for the mongo backend"))
	}
	if config.ResumeStorage == "s3" && config.ResumeBucket == "" {
		add(errors.New("RESUME_BUCKET is required for s3 resume storage"))
	}
	if config.EventsBackend == "rabbitmq" && config.RabbitMQURL == "" {
		add(errors.New("RABBITMQ_URL is required for the rabbitmq events backend"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }
