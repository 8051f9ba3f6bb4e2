package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects the collector backend.
type Mode string

const (
	ModePublic Mode = "public"
	ModeAPI    Mode = "api"
	ModeMock   Mode = "mock"
)

// RedditCredentials are only used by the authenticated backend.
type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

type Config struct {
	Mode        Mode
	Reddit      RedditCredentials
	Port        string
	DataDir     string
	ArchiveFile string
	HistoryDB   string // empty disables history persistence
	LogLevel    slog.Level
	LogFile     string
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	dataDir := get("DATA_DIR", "data")
	cfg := Config{
		Mode: Mode(strings.ToLower(get("COLLECTOR_MODE", string(ModePublic)))),
		Reddit: RedditCredentials{
			ClientID:     get("REDDIT_CLIENT_ID", ""),
			ClientSecret: get("REDDIT_CLIENT_SECRET", ""),
			Username:     get("REDDIT_USERNAME", ""),
			Password:     get("REDDIT_PASSWORD", ""),
			UserAgent:    get("REDDIT_USER_AGENT", ""),
		},
		Port:        get("PORT", "8080"),
		DataDir:     dataDir,
		ArchiveFile: get("ARCHIVE_FILE", filepath.Join(dataDir, "posts.json")),
		HistoryDB:   filepath.Join(dataDir, "history.db"),
		LogFile:     get("LOG_FILE", filepath.Join(dataDir, "viewer.log")),
	}

	// Set but empty means "do not persist".
	if v, ok := lookup("HISTORY_DB"); ok {
		cfg.HistoryDB = v
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModePublic, ModeMock:
		return nil
	case ModeAPI:
		r := c.Reddit
		if r.ClientID == "" || r.ClientSecret == "" || r.Username == "" || r.Password == "" {
			return fmt.Errorf("api mode requires REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD")
		}
		if r.UserAgent == "" {
			return fmt.Errorf("REDDIT_USER_AGENT is required for api mode")
		}
		return nil
	default:
		return fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", c.Mode)
	}
}
