package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "BATCH_MAX_ITEMS", "PREDICTION_LOG_DRIVER", "AI_PROVIDER", "MODEL_REMOTE_TIMEOUT", "PREDICTION_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Prediction.MaxBatchItems != 100 {
		t.Errorf("max batch = %d, want 100", cfg.Prediction.MaxBatchItems)
	}
	if cfg.Model.RemoteTimeout != 10*time.Second {
		t.Errorf("remote timeout = %s", cfg.Model.RemoteTimeout)
	}
	if cfg.Prediction.CacheTTL != 30*time.Minute {
		t.Errorf("cache ttl = %s", cfg.Prediction.CacheTTL)
	}
	if cfg.PredictionLog.Driver != "" {
		t.Errorf("log driver = %q, want disabled", cfg.PredictionLog.Driver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BATCH_MAX_ITEMS", "25")
	t.Setenv("MODEL_REMOTE_TIMEOUT", "2500ms")
	t.Setenv("PREDICTION_CACHE_ENABLED", "false")
	t.Setenv("PREDICTION_LOG_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Prediction.MaxBatchItems != 25 {
		t.Errorf("max batch = %d", cfg.Prediction.MaxBatchItems)
	}
	if cfg.Model.RemoteTimeout != 2500*time.Millisecond {
		t.Errorf("remote timeout = %s", cfg.Model.RemoteTimeout)
	}
	if cfg.Prediction.CacheEnabled {
		t.Error("cache should be disabled")
	}
	if cfg.PredictionLogDSN() != "/tmp/p.db" {
		t.Errorf("dsn = %q", cfg.PredictionLogDSN())
	}
	if !cfg.Debug() {
		t.Error("debug should be enabled")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("BATCH_MAX_ITEMS", "-3")
	t.Setenv("PREDICTION_LOG_DRIVER", "")
	t.Setenv("AI_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
	if cfg.Prediction.MaxBatchItems != 100 {
		t.Errorf("max batch = %d, want default", cfg.Prediction.MaxBatchItems)
	}

	t.Setenv("PREDICTION_LOG_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown log driver")
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Database: "smarthome", SSLMode: "disable",
	}}
	want := "host=db port=5433 user=u password=p dbname=smarthome sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}

	cfg.PostgreSQL.DSN = "postgres://x"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://x" {
		t.Errorf("dsn = %q", got)
	}
}
