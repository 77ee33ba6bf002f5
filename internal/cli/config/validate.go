package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/fieldguide/internal/schema"
	"golang.org/x/text/language"
)

var (
	validOutputs    = []string{"auto", "text", "markdown", "json"}
	validFormats    = []string{"", "auto", "json", "yaml", "csv"}
	validLogFormats = []string{"text", "json"}
	validClipboards = []string{"auto", "system", "osc52", "off"}
)

// normalize lowercases the enumerated settings so later comparisons against
// the mode constants are exact.
func (c *Config) normalize() {
	for _, v := range []*string{&c.Output, &c.Format, &c.Log.Format, &c.Log.Level, &c.Clipboard} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.Output, validOutputs) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(validOutputs, "|"), c.Output))
	}
	if !oneOf(c.Format, validFormats) {
		errs = append(errs, fmt.Errorf("format must be one of json|yaml|csv, got %q", c.Format))
	}
	if !oneOf(c.Log.Format, validLogFormats) {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if !oneOf(c.Clipboard, validClipboards) {
		errs = append(errs, fmt.Errorf("clipboard must be one of %s, got %q", strings.Join(validClipboards, "|"), c.Clipboard))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	if c.Fetch.Timeout < 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must not be negative, got %s", c.Fetch.Timeout))
	}
	if c.Fetch.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("fetch.max_bytes must not be negative, got %d", c.Fetch.MaxBytes))
	}
	if _, err := c.SchemaOverrides(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RequireDataset reports a helpful error when no dataset is configured.
func (c *Config) RequireDataset() error {
	if c.Dataset == "" {
		return errors.New("no dataset configured\nHint: pass --dataset, set FIELDGUIDE_DATASET, or add `dataset:` to fieldguide.yaml")
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log.level %q: expected debug, info, warn or error", c.Log.Level)
	}
	return lvl, nil
}

// LocaleTag returns the collation locale, falling back to English.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// SchemaOverrides converts schema.fields into role bindings.
func (c *Config) SchemaOverrides() (map[schema.Role]string, error) {
	if len(c.Schema.Fields) == 0 {
		return nil, nil
	}
	out := make(map[schema.Role]string, len(c.Schema.Fields))
	var unknown []string
	for key, field := range c.Schema.Fields {
		role, ok := schema.ParseRole(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if field = strings.TrimSpace(field); field != "" {
			out[role] = field
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		keys := make([]string, 0, len(schema.AllRoles()))
		for _, r := range schema.AllRoles() {
			keys = append(keys, r.Key())
		}
		return nil, fmt.Errorf("schema.fields: unknown role(s) %s (expected %s)",
			strings.Join(unknown, ", "), strings.Join(keys, ", "))
	}
	return out, nil
}

func oneOf(v string, allowed []string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
