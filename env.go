package plcache

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the option surface for environment-driven setup.
type envConfig struct {
	Dir         string `env:"PLCACHE_DIR"`
	UseTemp     bool   `env:"PLCACHE_USE_TMP"`
	Hidden      bool   `env:"PLCACHE_HIDDEN" envDefault:"true"`
	SizeLimit   string `env:"PLCACHE_SIZE_LIMIT" envDefault:"1GB"`
	SymlinksDir string `env:"PLCACHE_SYMLINKS_DIR" envDefault:"functions"`
	Split       bool   `env:"PLCACHE_SPLIT" envDefault:"true"`
	TrimArg     int    `env:"PLCACHE_TRIM_ARG" envDefault:"50"`
	LinkName    string `env:"PLCACHE_LINK_NAME"`
}

// OptionsFromEnv builds cache options from PLCACHE_* environment variables.
// Unset variables fall back to the package defaults, so the result can be
// passed straight to New, optionally followed by programmatic overrides.
func OptionsFromEnv() ([]Option, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	limit, err := ParseSize(cfg.SizeLimit)
	if err != nil {
		return nil, fmt.Errorf("PLCACHE_SIZE_LIMIT: %w", err)
	}

	opts := []Option{
		WithTempDir(cfg.UseTemp),
		WithHidden(cfg.Hidden),
		WithSizeLimit(limit),
		WithSymlinksDir(cfg.SymlinksDir),
		WithSplit(cfg.Split),
		WithTrimArg(cfg.TrimArg),
	}
	if cfg.Dir != "" {
		opts = append(opts, WithDir(cfg.Dir))
	}
	if cfg.LinkName != "" {
		opts = append(opts, WithLinkName(cfg.LinkName))
	}
	return opts, nil
}
