package docpager

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "DOCPAGER_"

// Config is the file and environment representation of the global defaults.
// Use Config.Options to obtain a layer for Settings.Set.
//
// Example:
//
//	page: 1
//	limit: 25
//	sort: ["-createdAt"]
//	select: "-password"
//	labels:
//	  docs: items
//	  pagingCounter: "-"
type Config struct {
	Page         *int              `yaml:"page" env:"PAGE"`
	Limit        *int              `yaml:"limit" env:"LIMIT"`
	Sort         []string          `yaml:"sort" env:"SORT" envSeparator:";"`
	Select       string            `yaml:"select" env:"SELECT"`
	AllowDiskUse *bool             `yaml:"allowDiskUse" env:"ALLOW_DISK_USE"`
	Lean         *bool             `yaml:"lean" env:"LEAN"`
	Labels       map[string]string `yaml:"labels" env:"LABELS"`
	Collation    *Collation        `yaml:"collation"`
}

// LoadConfig reads the YAML file at path, if any, and overlays DOCPAGER_*
// environment variables on top of it.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	opts := env.Options{
		Prefix: EnvPrefix,
	}
	funcMap := map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(map[string]string(nil)): parseKeyValues,
	}
	if err := env.ParseWithFuncs(cfg, funcMap, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// parseKeyValues parses "docs:items,pagingCounter:-" into a map.
func parseKeyValues(raw string) (any, error) {
	ret := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid key:value pair '%s'", pair)
		}
		ret[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return ret, nil
}

// Options converts the config into an options layer. Sort columns are taken
// as is.
func (c *Config) Options() (*Options, error) {
	if c == nil {
		return NewOptions(), nil
	}

	opts, err := RawPager{
		Page:   c.Page,
		Limit:  c.Limit,
		Sort:   c.Sort,
		Select: c.Select,
		Labels: c.Labels,
	}.Decode(nil)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if c.AllowDiskUse != nil {
		opts = opts.WithAllowDiskUse(*c.AllowDiskUse)
	}
	if c.Lean != nil {
		opts = opts.WithLean(*c.Lean)
	}
	if c.Collation != nil {
		opts = opts.WithCollation(*c.Collation)
	}

	return opts, nil
}
