package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/store/jsonstore"
	"github.com/Makepad-fr/shoplist/internal/store/memstore"
	"github.com/Makepad-fr/shoplist/internal/store/sqlitestore"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is resolved as defaults < yaml file < env < flags.
type Config struct {
	Store   string `yaml:"store"`
	Path    string `yaml:"path"`
	Theme   string `yaml:"theme"`
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		Store: BackendJSON,
		Theme: "classic",
	}
}

// DefaultFile is ~/.shoplist/config.yaml, or "" if there is no home dir.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shoplist", "config.yaml")
}

// Load reads path over base. A missing file is not an error.
func Load(path string, base Config) (Config, error) {
	cfg := base
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_STORE")); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_PATH")); v != "" {
		cfg.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_THEME")); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("SHOPLIST_DEBUG"); ok {
		cfg.Debug = v
	}
	return cfg
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// OpenStore builds the configured backend. The returned close func is
// never nil.
func OpenStore(cfg Config) (store.KV, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(cfg.Store) {
	case "", BackendJSON:
		s, err := jsonstore.New(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return memstore.New(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store %q (want json, sqlite or memory)", cfg.Store)
}
