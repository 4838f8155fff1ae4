// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads topic-tree settings from defaults, a YAML config file,
// a .env file, environment variables, and the secrets directory, in
// increasing order of precedence except for secrets, which only fill an
// API key that is still empty.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/topic-tree/internal/logging"
	"github.com/pdiddy/topic-tree/internal/secrets"
	"github.com/pdiddy/topic-tree/pkg/types"
)

const (
	// AppName names the config file and the XDG config directory.
	AppName = "topic-tree"

	// EnvPrefix prefixes environment overrides, e.g. TOPIC_TREE_TREE_SEEDS.
	EnvPrefix = "TOPIC_TREE"

	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"

	// DefaultBaseURL is the Semantic Scholar Graph API root.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"
)

// apiKeyEnvVars are read, in order, when scholar.api_key is not set.
var apiKeyEnvVars = []string{"S2_API_KEY", "SEMANTIC_SCHOLAR_API_KEY"}

// Limits imposed by the Graph API on a single page.
const (
	MaxSearchLimit   = 100
	MaxCitationLimit = 1000
)

// Defaults returns the built-in configuration. The tree defaults match the
// command-line defaults: papers since 2021, 10 seeds, 5 children each.
func Defaults(version string) types.Config {
	return types.Config{
		HTTP: types.HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: fmt.Sprintf("%s/%s (+https://www.semanticscholar.org)", AppName, version),
		},
		Scholar: types.ScholarConfig{
			BaseURL:       DefaultBaseURL,
			MaxRetries:    0,
			SearchLimit:   100,
			CitationLimit: 100,
		},
		Tree: types.TreeConfig{
			MinYear:  2021,
			Seeds:    10,
			Children: 5,
		},
		Serve: types.ServeConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   5 * time.Minute,
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// SetDefaults registers every key with viper so environment variables can
// override keys that appear in no config file.
func SetDefaults(v *viper.Viper, version string) {
	d := Defaults(version)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("scholar.base_url", d.Scholar.BaseURL)
	v.SetDefault("scholar.api_key", "")
	v.SetDefault("scholar.max_retries", d.Scholar.MaxRetries)
	v.SetDefault("scholar.search_limit", d.Scholar.SearchLimit)
	v.SetDefault("scholar.citation_limit", d.Scholar.CitationLimit)
	v.SetDefault("tree.min_year", d.Tree.MinYear)
	v.SetDefault("tree.seeds", d.Tree.Seeds)
	v.SetDefault("tree.children", d.Tree.Children)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.allowed_origins", d.Serve.AllowedOrigins)
	v.SetDefault("serve.read_timeout", d.Serve.ReadTimeout)
	v.SetDefault("serve.write_timeout", d.Serve.WriteTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// XDGConfigDir returns the per-user config directory, e.g. ~/.config/topic-tree.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Setup points viper at the config file and the environment, loads .env, and
// reads the config file. cfgFile overrides the search path; a missing
// explicit file is an error, a missing default file is not.
func Setup(v *viper.Viper, cfgFile string) error {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(XDGConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load decodes the configuration from v, fills the API key from the
// environment or the secrets, and validates the result.
func Load(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Scholar.APIKey = resolveAPIKey(cfg.Scholar.APIKey, s)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func resolveAPIKey(configured string, s secrets.Secrets) string {
	if key := strings.TrimSpace(configured); key != "" {
		return key
	}
	for _, name := range apiKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	if key, ok := s.Get(secrets.SemanticScholarAPIKey); ok {
		return key
	}
	return ""
}

// Validate checks the configuration once, before any request is made.
func Validate(cfg types.Config) error {
	switch {
	case cfg.HTTP.Timeout <= 0:
		return fmt.Errorf("http.timeout must be positive, got %s", cfg.HTTP.Timeout)
	case cfg.Scholar.MaxRetries < 0:
		return fmt.Errorf("scholar.max_retries must not be negative, got %d", cfg.Scholar.MaxRetries)
	case cfg.Scholar.SearchLimit < 1 || cfg.Scholar.SearchLimit > MaxSearchLimit:
		return fmt.Errorf("scholar.search_limit must be between 1 and %d, got %d", MaxSearchLimit, cfg.Scholar.SearchLimit)
	case cfg.Scholar.CitationLimit < 1 || cfg.Scholar.CitationLimit > MaxCitationLimit:
		return fmt.Errorf("scholar.citation_limit must be between 1 and %d, got %d", MaxCitationLimit, cfg.Scholar.CitationLimit)
	case cfg.Tree.MinYear < 0:
		return fmt.Errorf("tree.min_year must not be negative, got %d", cfg.Tree.MinYear)
	case cfg.Tree.Seeds <= 0:
		return fmt.Errorf("tree.seeds must be positive, got %d", cfg.Tree.Seeds)
	case cfg.Tree.Children <= 0:
		return fmt.Errorf("tree.children must be positive, got %d", cfg.Tree.Children)
	case strings.TrimSpace(cfg.Serve.Addr) == "":
		return fmt.Errorf("serve.addr must not be empty")
	case !logging.ValidFormat(cfg.Log.Format):
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
