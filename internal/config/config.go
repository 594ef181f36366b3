// Package config resolves runtime settings. Later sources win:
// defaults, the YAML file, .env files, the environment, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hperssn/focusnest/internal/domain"
	"github.com/hperssn/focusnest/internal/storage"
)

type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
	// StaticDir holds a browser client served at /. Empty disables it.
	StaticDir string  `yaml:"static_dir"`
	Storage   Storage `yaml:"storage"`
	Timer     Timer   `yaml:"timer"`
	OpenAI    OpenAI  `yaml:"openai"`
}

type Storage struct {
	Driver      string `yaml:"driver"`
	SQLiteDSN   string `yaml:"sqlite_dsn"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// DSN returns the connection string for the selected driver.
func (s Storage) DSN() string {
	switch s.Driver {
	case storage.DriverSQLite:
		return s.SQLiteDSN
	case storage.DriverPostgres:
		return s.PostgresDSN
	default:
		return ""
	}
}

type Timer struct {
	FocusMinutes int  `yaml:"focus_minutes"`
	Bell         bool `yaml:"bell"`
}

type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Storage: Storage{
			Driver:    storage.DriverMemory,
			SQLiteDSN: storage.DefaultSQLiteDSN,
		},
		Timer: Timer{
			FocusMinutes: domain.DefaultFocusMinutes,
		},
	}
}

// Load parses args (without the program name) and builds the config.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("focusnest", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file")
	isProd := fs.BoolP("prod", "p", false, "load .env instead of .env.dev")
	addr := fs.String("addr", "", "listen address")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	staticDir := fs.String("static", "", "directory with the browser client")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return Config{}, err
		}
	}

	envFile := ".env.dev"
	if *isProd {
		envFile = ".env"
	}
	// a missing env file is fine
	_ = godotenv.Load(envFile)

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if fs.Changed("addr") {
		cfg.Addr = *addr
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("static") {
		cfg.StaticDir = *staticDir
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("FOCUSNEST_ADDR", &c.Addr)
	str("FOCUSNEST_LOG_LEVEL", &c.LogLevel)
	str("FOCUSNEST_STORAGE_DRIVER", &c.Storage.Driver)
	str("FOCUSNEST_SQLITE_DSN", &c.Storage.SQLiteDSN)
	str("FOCUSNEST_POSTGRES_DSN", &c.Storage.PostgresDSN)
	str("FOCUSNEST_STATIC_DIR", &c.StaticDir)
	str("OPENAI_API_KEY", &c.OpenAI.APIKey)
	str("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	str("OPENAI_MODEL", &c.OpenAI.Model)

	if v, ok := lookup("FOCUSNEST_FOCUS_MINUTES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FOCUSNEST_FOCUS_MINUTES: %w", err)
		}
		c.Timer.FocusMinutes = n
	}
	if v, ok := lookup("FOCUSNEST_BELL"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FOCUSNEST_BELL: %w", err)
		}
		c.Timer.Bell = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Storage.Driver {
	case storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("postgres driver needs storage.postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Timer.FocusMinutes <= 0 || c.Timer.FocusMinutes > domain.MaxFocusMinutes {
		return fmt.Errorf("timer focus minutes must be between 1 and %d, got %d", domain.MaxFocusMinutes, c.Timer.FocusMinutes)
	}
	return nil
}

func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
