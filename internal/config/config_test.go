package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresLeagueID(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error without DIELIGA_LEAGUE_ID")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "4711")
	t.Setenv("DIELIGA_BASE_URL", "")
	t.Setenv("DIELIGA_TEAM_NAME", "")
	t.Setenv("DIELIGA_REFRESH_INTERVAL", "")
	t.Setenv("DIELIGA_HTTP_TIMEOUT", "")
	t.Setenv("DIELIGA_TIMEZONE", "")
	t.Setenv("DIELIGA_DATA_DIR", "")
	t.Setenv("DIELIGA_HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("unexpected BaseURL: %q", cfg.BaseURL)
	}
	if cfg.LeagueKey() != "4711" {
		t.Fatalf("unexpected LeagueKey: %q", cfg.LeagueKey())
	}
	if cfg.RefreshInterval != 12*time.Hour {
		t.Fatalf("unexpected RefreshInterval: %s", cfg.RefreshInterval)
	}
	if cfg.RefreshSpec() != "@every 12h0m0s" {
		t.Fatalf("unexpected RefreshSpec: %q", cfg.RefreshSpec())
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected HTTPTimeout: %s", cfg.HTTPTimeout)
	}
	if cfg.Location != time.Local {
		t.Fatalf("expected local time zone, got %v", cfg.Location)
	}
	if cfg.DataDir != DefaultDataDir || cfg.HTTPAddr != DefaultHTTPAddr {
		t.Fatalf("unexpected DataDir/HTTPAddr: %q %q", cfg.DataDir, cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected LogLevel: %q", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "12")
	t.Setenv("DIELIGA_BASE_URL", "https://liga.example.org/")
	t.Setenv("DIELIGA_TEAM_NAME", "  Team 1 ")
	t.Setenv("DIELIGA_REFRESH_INTERVAL", "30m")
	t.Setenv("DIELIGA_HTTP_TIMEOUT", "5s")
	t.Setenv("DIELIGA_TIMEZONE", "Europe/Berlin")
	t.Setenv("DIELIGA_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "https://liga.example.org" {
		t.Fatalf("unexpected BaseURL: %q", cfg.BaseURL)
	}
	if cfg.TeamName != "Team 1" {
		t.Fatalf("unexpected TeamName: %q", cfg.TeamName)
	}
	if cfg.RefreshInterval != 30*time.Minute || cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected durations: %s %s", cfg.RefreshInterval, cfg.HTTPTimeout)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Fatalf("unexpected Location: %v", cfg.Location)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected LogLevel: %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"league id not a number", "DIELIGA_LEAGUE_ID", "abc"},
		{"league id not positive", "DIELIGA_LEAGUE_ID", "0"},
		{"base url", "DIELIGA_BASE_URL", "not a url"},
		{"refresh interval", "DIELIGA_REFRESH_INTERVAL", "soon"},
		{"negative timeout", "DIELIGA_HTTP_TIMEOUT", "-1s"},
		{"time zone", "DIELIGA_TIMEZONE", "Mars/Olympus"},
		{"http addr", "DIELIGA_HTTP_ADDR", "localhost"},
		{"log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DIELIGA_LEAGUE_ID", "1")
			t.Setenv(tt.key, tt.val)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	// Existing variables win over the file, so clear them for this test.
	for _, key := range []string{"DIELIGA_LEAGUE_ID", "DIELIGA_TEAM_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DIELIGA_LEAGUE_ID=99\nDIELIGA_TEAM_NAME=From File\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LeagueID != 99 || cfg.TeamName != "From File" {
		t.Fatalf("unexpected values from env file: %d %q", cfg.LeagueID, cfg.TeamName)
	}
}

func TestRead_DefersValidation(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "")

	cfg, err := Read(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error without league id")
	}

	cfg.LeagueID = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate after override: %v", err)
	}
	if cfg.Location == nil {
		t.Fatalf("expected Location to be resolved")
	}
}

func TestLoad_Telegram(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "1")
	t.Setenv("DIELIGA_TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DIELIGA_TELEGRAM_CHAT_ID", "")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for bot token without chat id")
	}

	t.Setenv("DIELIGA_TELEGRAM_CHAT_ID", "-100123")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.TelegramEnabled() {
		t.Fatalf("expected telegram to be enabled")
	}
}

func TestLoad_GistStorage(t *testing.T) {
	t.Setenv("DIELIGA_LEAGUE_ID", "1")
	t.Setenv("DIELIGA_GIST_ID", "abc123")
	t.Setenv("DIELIGA_GITHUB_TOKEN", "")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for gist id without token")
	}

	t.Setenv("DIELIGA_GITHUB_TOKEN", "ghp_test")
	t.Setenv("DIELIGA_STORAGE_KEY", "passphrase")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GistID != "abc123" || cfg.GitHubToken != "ghp_test" || cfg.StorageKey != "passphrase" {
		t.Fatalf("unexpected gist settings: %+v", cfg)
	}
}
