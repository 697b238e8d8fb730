package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Roots     []string  `toml:"roots"`
	Exclude   Exclude   `toml:"exclude"`
	Languages Languages `toml:"languages"`
	Limits    Limits    `toml:"limits"`
	Server    Server    `toml:"server"`
	Watch     Watch     `toml:"watch"`
	History   History   `toml:"history"`
	Tracing   Tracing   `toml:"tracing"`
}

type Exclude struct {
	Dirs []string `toml:"dirs"`
}

// Languages restricts extraction to a subset of the supported languages.
// An empty list enables all of them.
type Languages struct {
	Only []string `toml:"only"`
}

type Limits struct {
	MaxTypes    int `toml:"max_types"`
	TokenBudget int `toml:"token_budget"`
}

type Server struct {
	RateLimit float64 `toml:"rate_limit"` // requests per second
	RateBurst int     `toml:"rate_burst"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type History struct {
	Path string `toml:"path"`
}

type Tracing struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Roots: []string{"."},
		Limits: Limits{
			MaxTypes:    1000,
			TokenBudget: 20000,
		},
		Server: Server{
			RateLimit: 10,
			RateBurst: 20,
		},
		Watch: Watch{
			Debounce: 500 * time.Millisecond,
		},
		History: History{
			Path: "codemap.db",
		},
	}
}

// Load reads a TOML config file and fills in defaults for anything the
// file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	def := Default()
	if len(cfg.Roots) == 0 {
		cfg.Roots = def.Roots
	}
	if cfg.Limits.MaxTypes == 0 {
		cfg.Limits.MaxTypes = def.Limits.MaxTypes
	}
	if cfg.Limits.TokenBudget == 0 {
		cfg.Limits.TokenBudget = def.Limits.TokenBudget
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = def.Server.RateLimit
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = def.Server.RateBurst
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = def.Watch.Debounce
	}
	if cfg.History.Path == "" {
		cfg.History.Path = def.History.Path
	}

	return &cfg, nil
}
