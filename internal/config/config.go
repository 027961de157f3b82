package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn" env:"DB_DSN"`
}

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

type LimitsConfig struct {
	MaxProjects        int `yaml:"max_projects" env:"MAX_NUMBER_OF_PROJECTS" env-default:"100"`
	MaxTasksPerProject int `yaml:"max_tasks_per_project" env:"MAX_NUMBER_OF_TASKS" env-default:"1000"`
}

type SweepConfig struct {
	Interval time.Duration `yaml:"interval" env:"SWEEP_INTERVAL" env-default:"1h"`
	Notify   bool          `yaml:"notify" env:"SWEEP_NOTIFY" env-default:"false"`
}

type Config struct {
	LogLevel string       `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	DataDir  string       `yaml:"data_dir" env:"TODOLIST_DATA_DIR"`
	DB       DBConfig     `yaml:"db"`
	HTTP     HTTPConfig   `yaml:"http"`
	Limits   LimitsConfig `yaml:"limits"`
	Sweep    SweepConfig  `yaml:"sweep"`
	Theme    string       `yaml:"theme" env:"TODOLIST_THEME" env-default:"nord"`
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todolist"
	}
	return filepath.Join(home, ".local", "share", "todolist")
}

// Load reads configPath if it exists, then applies environment overrides.
// An empty path or a missing file means environment only.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		c.DB.DSN = filepath.Join(c.DataDir, "todolist.db")
	}
}

// LockPath is the file used to keep overdue sweeps from overlapping
func (c Config) LockPath() string {
	return filepath.Join(c.DataDir, "sweep.lock")
}

// Validate fails fast on values that would break the services
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}

	if c.Limits.MaxProjects <= 0 {
		return fmt.Errorf("MAX_NUMBER_OF_PROJECTS must be a positive integer, got %d", c.Limits.MaxProjects)
	}
	if c.Limits.MaxTasksPerProject <= 0 {
		return fmt.Errorf("MAX_NUMBER_OF_TASKS must be a positive integer, got %d", c.Limits.MaxTasksPerProject)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.Sweep.Interval)
	}
	return nil
}
