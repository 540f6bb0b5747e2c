// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves settings from flags, environment, an optional
// fund-matcher.yaml and .env files into a types.AppConfig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

// EnvPrefix is the prefix of environment overrides, e.g. FUNDMATCH_AI_MODEL.
const EnvPrefix = "FUNDMATCH"

// Defaults for every key. Registering them also lets AutomaticEnv overrides
// reach Unmarshal.
var defaults = map[string]any{
	"format":                     string(types.FormatJSON),
	"secrets_dir":                ".secrets",
	"ai.model":                   "gemini-2.5-flash",
	"ai.api_key":                 "",
	"ai.base_url":                "",
	"ai.enable_search":           true,
	"ai.temperature":             0.1,
	"ai.fallback_temperature":    0.3,
	"http.timeout":               2 * time.Minute,
	"http.user_agent":            "fund-matcher",
	"server.addr":                ":8080",
	"server.read_header_timeout": 10 * time.Second,
	"server.write_timeout":       3 * time.Minute,
	"server.allow_key_update":    false,
	"server.session_idle_ttl":    2 * time.Hour,
	"server.prune_schedule":      "@every 10m",
	"log.level":                  "info",
	"log.format":                 "console",
}

// Setup registers defaults and environment bindings on v. The API key also
// accepts the bare API_KEY and GEMINI_API_KEY variables.
func Setup(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "API_KEY", "GEMINI_API_KEY")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("loading %s: %w", p, err)
	}
	return nil
}

// Load decodes v into an AppConfig and validates it.
func Load(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Format = types.ResponseFormat(strings.ToLower(string(cfg.Format)))
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and far from
// their source.
func Validate(cfg types.AppConfig) error {
	var errs []error
	if !cfg.Format.Valid() {
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", types.FormatMarkdown, types.FormatJSON, cfg.Format))
	}
	if strings.TrimSpace(cfg.AI.Model) == "" {
		errs = append(errs, errors.New("ai.model is required"))
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai.temperature must be within [0, 2], got %v", cfg.AI.Temperature))
	}
	if cfg.AI.FallbackTemperature < 0 || cfg.AI.FallbackTemperature > 2 {
		errs = append(errs, fmt.Errorf("ai.fallback_temperature must be within [0, 2], got %v", cfg.AI.FallbackTemperature))
	}
	if cfg.HTTP.Timeout < 0 {
		errs = append(errs, errors.New("http.timeout must not be negative"))
	}
	if cfg.Server.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("server.session_idle_ttl must be positive"))
	}
	if cfg.Server.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Server.PruneSchedule); err != nil {
			errs = append(errs, fmt.Errorf("server.prune_schedule: %w", err))
		}
	}
	return errors.Join(errs...)
}
