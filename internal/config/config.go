package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ORESources are the reasoners of the ORE 2013 competition, in report column order.
var ORESources = []string{
	"basevisor", "chainsaw", "elephant", "elk-loading-counted", "elk-loading-not-counted",
	"fact", "hermit", "jcel", "jfact", "konclude", "more-hermit", "more-pellet",
	"snorocket", "treasoner", "trowl", "wsclassifier",
}

type ReasonerConfig struct {
	Provider string `toml:"provider"`
	// Timeout bounds one entailment check, e.g. "30s". Empty means no limit.
	Timeout string `toml:"timeout"`
	// AssumeEntailedOnError makes failed checks count as entailed.
	AssumeEntailedOnError bool `toml:"assume_entailed_on_error"`
}

func (r ReasonerConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid reasoner timeout %q: %w", r.Timeout, err)
	}
	return d, nil
}

type CompareConfig struct {
	Mode        string `toml:"mode"`
	Concurrency int    `toml:"concurrency"`
	// IDDepth is how many directories above a result file its source name is taken from.
	IDDepth int      `toml:"id_depth"`
	Sources []string `toml:"sources"`
}

type ReportConfig struct {
	Naming string `toml:"naming"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type StorageConfig struct {
	// Backend is "sqlite", "memgraph" or empty to disable run history.
	Backend  string         `toml:"backend"`
	SQLite   SQLiteConfig   `toml:"sqlite"`
	Memgraph MemgraphConfig `toml:"memgraph"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Reasoner ReasonerConfig `toml:"reasoner"`
	Compare  CompareConfig  `toml:"compare"`
	Report   ReportConfig   `toml:"report"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	return &Config{
		Reasoner: ReasonerConfig{Provider: "gini"},
		Compare: CompareConfig{
			Mode:        "greedy",
			Concurrency: 1,
			IDDepth:     3,
			Sources:     append([]string(nil), ORESources...),
		},
		Report:  ReportConfig{Naming: "short"},
		Storage: StorageConfig{SQLite: SQLiteConfig{Path: "ecco.db"}},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() error {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("ECCO_REASONER", &c.Reasoner.Provider)
	set("ECCO_REASONER_TIMEOUT", &c.Reasoner.Timeout)
	set("ECCO_STORAGE", &c.Storage.Backend)
	set("ECCO_SQLITE_PATH", &c.Storage.SQLite.Path)
	set("MEMGRAPH_URI", &c.Storage.Memgraph.URI)
	set("MEMGRAPH_USER", &c.Storage.Memgraph.User)
	set("MEMGRAPH_PASSWORD", &c.Storage.Memgraph.Password)
	set("ECCO_ADDR", &c.Server.Addr)
	set("ECCO_LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("ECCO_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ECCO_CONCURRENCY %q: %w", v, err)
		}
		c.Compare.Concurrency = n
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Reasoner.TimeoutDuration(); err != nil {
		return err
	}
	switch strings.ToLower(c.Compare.Mode) {
	case "", "greedy", "closure":
	default:
		return fmt.Errorf("invalid compare mode %q", c.Compare.Mode)
	}
	if c.Compare.Concurrency < 1 {
		return fmt.Errorf("compare concurrency must be at least 1, got %d", c.Compare.Concurrency)
	}
	if c.Compare.IDDepth < 1 {
		return fmt.Errorf("compare id_depth must be at least 1, got %d", c.Compare.IDDepth)
	}
	switch strings.ToLower(c.Report.Naming) {
	case "", "short", "label", "gensym":
	default:
		return fmt.Errorf("invalid report naming %q", c.Report.Naming)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "", "sqlite", "memgraph":
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	return nil
}
