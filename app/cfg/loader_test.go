package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	// Test that version is at least "dev" or "unknown"
	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func restoreLocal(t *testing.T) {
	local := time.Local
	t.Cleanup(func() { time.Local = local })
}

func TestLoad_Defaults(t *testing.T) {
	restoreLocal(t)
	t.Setenv("TZ", "UTC")

	cfg, err := load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected port '8000', got '%s'", cfg.Port)
	}
	if cfg.DBPath != "./data/newsdesk.db" {
		t.Errorf("Expected DB path './data/newsdesk.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesFile != "./sources.yml" {
		t.Errorf("Expected sources file './sources.yml', got '%s'", cfg.SourcesFile)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 0 {
		t.Errorf("Expected scheduler interval 0, got %d", cfg.SchedulerInterval)
	}
	if cfg.CacheTTL != 60 {
		t.Errorf("Expected cache TTL 60, got %d", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("Expected empty redis address, got '%s'", cfg.RedisAddr)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	restoreLocal(t)
	t.Setenv("TZ", "UTC")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("WORKER_COUNT", "0")

	cfg, err := load([]string{"--port", "9090", "--scheduler-interval", "600", "--debug"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.SchedulerInterval != 600 {
		t.Errorf("Expected scheduler interval 600, got %d", cfg.SchedulerInterval)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis address from env, got '%s'", cfg.RedisAddr)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("Expected worker count to be raised to 1, got %d", cfg.WorkerCount)
	}
}

func TestLoad_InvalidFlag(t *testing.T) {
	restoreLocal(t)

	if _, err := load([]string{"--no-such-flag"}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestLoadReader(t *testing.T) {
	restoreLocal(t)
	t.Setenv("TZ", "")
	t.Setenv("NEWSDESK_API_URL", "http://news.local:8000")

	cfg, err := loadReader([]string{"--refresh-interval", "10"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.APIURL != "http://news.local:8000" {
		t.Errorf("Expected API URL from env, got '%s'", cfg.APIURL)
	}
	if cfg.RefreshInterval != 10 {
		t.Errorf("Expected refresh interval 10, got %d", cfg.RefreshInterval)
	}
}

func TestLoadReader_RejectsUnknownInterval(t *testing.T) {
	restoreLocal(t)
	t.Setenv("TZ", "")

	if _, err := loadReader([]string{"--refresh-interval", "15"}); err == nil {
		t.Error("Expected error for refresh interval outside 0/10/30/60")
	}
}

func TestApplyTimezone(t *testing.T) {
	restoreLocal(t)

	if err := applyTimezone("Europe/Moscow"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if time.Local.String() != "Europe/Moscow" {
		t.Errorf("Expected local timezone 'Europe/Moscow', got '%s'", time.Local.String())
	}

	if err := applyTimezone("Mars/Olympus"); err == nil {
		t.Error("Expected error for unknown timezone")
	}

	if err := applyTimezone(""); err != nil {
		t.Errorf("Expected no error for empty timezone, got: %v", err)
	}
}
