// Package config loads the TOML-based configuration file for unambig and
// unambigd, split into a Config/FillDefaults/Validate pipeline: Load
// decodes whatever is on disk, FillDefaults fills in anything left unset,
// and Validate rejects the result only after defaults are applied.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/unambig/internal/driver"
)

const (
	MinSecretSize = 32
	MaxSecretSize = 64
)

// Detect holds the driver options a config file or CLI flags can set.
// CompleteTrees is a pointer so that "not mentioned in the file" can be
// told apart from an explicit complete_trees = false; unset means the
// default of storing only complete trees.
type Detect struct {
	TreeSymLimit  int   `toml:"tree_sym_limit"`
	CompleteTrees *bool `toml:"complete_trees"`
	FindAll       bool  `toml:"find_all"`
	SemanticCheck bool  `toml:"semantic_check"`
	UseTestRules  bool  `toml:"use_test_rules"`
	Quiet         bool  `toml:"quiet"`
}

// ToOptions converts a Detect section into driver.Options.
func (d Detect) ToOptions() driver.Options {
	return driver.Options{
		TreeSymLimit:         d.TreeSymLimit,
		StoreIncompleteTrees: d.CompleteTrees != nil && !*d.CompleteTrees,
		FindAll:              d.FindAll,
		SemanticCheck:        d.SemanticCheck,
		UseTestRules:         d.UseTestRules,
		Quiet:                d.Quiet,
	}
}

// Cache configures the sqlite-backed report cache.
type Cache struct {
	// Enabled turns on the cache; if false, internal/cache is never opened.
	Enabled bool `toml:"enabled"`

	// DataDir is the directory the cache's sqlite file lives in.
	DataDir string `toml:"data_dir"`

	// TTLSeconds is how long a cached run stays valid before a fresh Run is
	// required; zero means cached runs never expire on their own.
	TTLSeconds int `toml:"ttl_seconds"`
}

// TTL returns cfg's TTLSeconds as a time.Duration, or zero if unset.
func (c Cache) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// WebAPI configures the unambigd HTTP listener.
type WebAPI struct {
	// BindAddress is the host:port unambigd listens on.
	BindAddress string `toml:"bind_address"`

	// TokenSecret signs and verifies bearer JWTs. If unset, FillDefaults
	// substitutes a clearly-marked development secret.
	TokenSecret string `toml:"token_secret"`

	// UnauthDelayMillis is the anti-flood delay before an unauthorized or
	// unauthenticated response is sent, in milliseconds.
	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}

// UnauthDelay returns cfg's UnauthDelayMillis as a time.Duration.
func (w WebAPI) UnauthDelay() time.Duration {
	if w.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Duration(w.UnauthDelayMillis) * time.Millisecond
}

// Config is the full on-disk configuration for both cmd/unambig and
// cmd/unambigd. pflag-parsed CLI flags override whatever a loaded file sets;
// FillDefaults is always applied before Validate.
type Config struct {
	Detect Detect `toml:"detect"`
	Cache  Cache  `toml:"cache"`
	WebAPI WebAPI `toml:"webapi"`
}

// Load reads and decodes a TOML config file at path. A missing file is not
// an error; Load returns a zero Config in that case, same as omitting every
// section from an on-disk file.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// FillDefaults returns a copy of cfg with every unset field given its
// default value.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.Detect.TreeSymLimit == 0 {
		out.Detect.TreeSymLimit = driver.DefaultTreeSymLimit
	}
	if out.Cache.DataDir == "" {
		out.Cache.DataDir = "."
	}
	if out.WebAPI.BindAddress == "" {
		out.WebAPI.BindAddress = ":8080"
	}
	if out.WebAPI.TokenSecret == "" {
		out.WebAPI.TokenSecret = "DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!"
	}
	if out.WebAPI.UnauthDelayMillis == 0 {
		out.WebAPI.UnauthDelayMillis = 1000
	}
	return out
}

// Validate returns an error if cfg has invalid field values. Call it only
// after FillDefaults, since a zero value for most fields means "use the
// default" rather than "invalid".
func (cfg Config) Validate() error {
	if cfg.Detect.TreeSymLimit < driver.DefaultTreeSymLimit && cfg.Detect.UseTestRules {
		return fmt.Errorf("detect: tree_sym_limit must be at least %d when use_test_rules is set, got %d", driver.DefaultTreeSymLimit, cfg.Detect.TreeSymLimit)
	}
	if cfg.Cache.Enabled && cfg.Cache.DataDir == "" {
		return fmt.Errorf("cache: data_dir not set")
	}
	if len(cfg.WebAPI.TokenSecret) < MinSecretSize {
		return fmt.Errorf("webapi: token_secret must be at least %d bytes, got %d", MinSecretSize, len(cfg.WebAPI.TokenSecret))
	}
	if len(cfg.WebAPI.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("webapi: token_secret must be no more than %d bytes, got %d", MaxSecretSize, len(cfg.WebAPI.TokenSecret))
	}
	return nil
}
