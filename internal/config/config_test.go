package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	// 环境变量未设置时，应该返回默认值
	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	// 环境变量设置后，应优先返回环境变量
	if err := os.Setenv(key, "8080"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestGetEnvIntRejectsInvalid(t *testing.T) {
	const key = "TEST_FETCH_TIMEOUT"
	defer os.Unsetenv(key)

	_ = os.Unsetenv(key)
	if got := getEnvInt(key, 15); got != 15 {
		t.Fatalf("getEnvInt default = %d, want 15", got)
	}

	_ = os.Setenv(key, "not-a-number")
	if got := getEnvInt(key, 15); got != 15 {
		t.Fatalf("getEnvInt invalid = %d, want fallback 15", got)
	}

	_ = os.Setenv(key, "-3")
	if got := getEnvInt(key, 15); got != 15 {
		t.Fatalf("getEnvInt negative = %d, want fallback 15", got)
	}

	_ = os.Setenv(key, "30")
	if got := getEnvInt(key, 15); got != 30 {
		t.Fatalf("getEnvInt = %d, want 30", got)
	}
}

func TestLoadReadsFetchTimeout(t *testing.T) {
	_ = os.Setenv("FETCH_TIMEOUT_SECONDS", "7")
	defer os.Unsetenv("FETCH_TIMEOUT_SECONDS")

	cfg := Load()
	if cfg.FetchTimeout != 7*time.Second {
		t.Fatalf("FetchTimeout = %s, want 7s", cfg.FetchTimeout)
	}
}
