package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL         = "https://www.ost.volleyball-freizeit.de"
	DefaultRefreshInterval = 12 * time.Hour
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultDataDir         = "~/.local/share/dieliga"
	DefaultHTTPAddr        = ":8080"
	DefaultTimezone        = "Local"
)

// Config stores runtime configuration for one league.
type Config struct {
	BaseURL         string        `validate:"required,url"`
	LeagueID        int           `validate:"gt=0"`
	TeamName        string        `validate:"omitempty,max=200"`
	RefreshInterval time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`
	Timezone        string        `validate:"required"`
	DataDir         string        `validate:"required"`
	HTTPAddr        string        `validate:"required,hostname_port"`
	LogLevel        string        `validate:"omitempty,oneof=debug info warn warning error"`

	// Telegram delivery is enabled when both are set.
	TelegramBotToken string `validate:"required_with=TelegramChatID"`
	TelegramChatID   string `validate:"required_with=TelegramBotToken"`

	// Snapshots go to a GitHub Gist instead of DataDir when GistID is set.
	GistID      string `validate:"required_with=GitHubToken"`
	GitHubToken string `validate:"required_with=GistID"`
	StorageKey  string

	// Location is Timezone resolved.
	Location *time.Location `validate:"-"`
}

// TelegramEnabled reports whether notifications go to Telegram too.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// LeagueKey returns the league id as used in URLs and file names.
func (c Config) LeagueKey() string {
	return strconv.Itoa(c.LeagueID)
}

// RefreshSpec returns the cron spec for RefreshInterval.
func (c Config) RefreshSpec() string {
	return "@every " + c.RefreshInterval.String()
}

// Load reads and validates the configuration. See Read.
func Load(envFiles ...string) (Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read reads .env files (default ".env", a missing file is fine) and then the
// environment without validating the result. Variables already set in the
// environment win over .env values.
func Read(envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}

	leagueID := 0
	if raw := strings.TrimSpace(getEnv("DIELIGA_LEAGUE_ID", "")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DIELIGA_LEAGUE_ID: %w", err)
		}
		leagueID = v
	}

	refresh, err := getEnvAsDuration("DIELIGA_REFRESH_INTERVAL", DefaultRefreshInterval)
	if err != nil {
		return Config{}, fmt.Errorf("parse DIELIGA_REFRESH_INTERVAL: %w", err)
	}
	timeout, err := getEnvAsDuration("DIELIGA_HTTP_TIMEOUT", DefaultHTTPTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("parse DIELIGA_HTTP_TIMEOUT: %w", err)
	}

	cfg := Config{
		BaseURL:         strings.TrimRight(strings.TrimSpace(getEnv("DIELIGA_BASE_URL", DefaultBaseURL)), "/"),
		LeagueID:        leagueID,
		TeamName:        strings.TrimSpace(getEnv("DIELIGA_TEAM_NAME", "")),
		RefreshInterval: refresh,
		HTTPTimeout:     timeout,
		Timezone:        strings.TrimSpace(getEnv("DIELIGA_TIMEZONE", DefaultTimezone)),
		DataDir:         getEnv("DIELIGA_DATA_DIR", DefaultDataDir),
		HTTPAddr:        getEnv("DIELIGA_HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:        strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),

		TelegramBotToken: strings.TrimSpace(getEnv("DIELIGA_TELEGRAM_BOT_TOKEN", "")),
		TelegramChatID:   strings.TrimSpace(getEnv("DIELIGA_TELEGRAM_CHAT_ID", "")),

		GistID:      strings.TrimSpace(getEnv("DIELIGA_GIST_ID", "")),
		GitHubToken: strings.TrimSpace(getEnv("DIELIGA_GITHUB_TOKEN", "")),
		StorageKey:  getEnv("DIELIGA_STORAGE_KEY", ""),
	}

	return cfg, nil
}

// Validate checks the field rules and resolves Location.
// It is called again after command-line flags override loaded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("parse DIELIGA_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
