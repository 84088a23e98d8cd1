// Copyright 2025 Flext Authors
// SPDX-License-Identifier: MIT

// Package config holds the target configuration surface: output location,
// DN templating, attribute mapping and LDIF format options. Configuration is
// an explicit object passed into the target and writer constructors; there
// is no ambient registry.
package config

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/spf13/viper"

	"github.com/flextlabs/target-ldif/pkg/ldif"
)

// LdifOptions holds the LDIF format options.
type LdifOptions struct {
	// LineLength is the wrap width for attribute lines. Must be >= 10.
	LineLength int `mapstructure:"line_length" json:"line_length"`

	// Base64Encode forces base64 encoding for all values.
	Base64Encode bool `mapstructure:"base64_encode" json:"base64_encode"`

	// IncludeTimestamps toggles the header/footer comments.
	IncludeTimestamps bool `mapstructure:"include_timestamps" json:"include_timestamps"`
}

// Config is the validated settings object consumed by the target.
type Config struct {
	// OutputPath is the directory LDIF files are written to, created if
	// missing.
	OutputPath string `mapstructure:"output_path" json:"output_path"`

	// DNTemplate renders each record's Distinguished Name, e.g.
	// "uid={uid},ou=users,dc=example,dc=com". Must contain at least one
	// {field} placeholder.
	DNTemplate string `mapstructure:"dn_template" json:"dn_template"`

	// AttributeMapping maps source field names to LDAP attributes, merged
	// over the built-in defaults (email -> mail, first_name -> givenName, ...).
	AttributeMapping map[string]string `mapstructure:"attribute_mapping" json:"attribute_mapping"`

	// Ldif holds the LDIF format options.
	Ldif LdifOptions `mapstructure:"ldif_options" json:"ldif_options"`

	// BatchSize is the number of records a sink buffers before draining to
	// its writer. Purely a flush-granularity hint; the on-disk output is
	// independent of it.
	BatchSize int `mapstructure:"batch_size" json:"batch_size"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		OutputPath: "./output",
		DNTemplate: "uid={uid},ou=users,dc=example,dc=com",
		Ldif: LdifOptions{
			LineLength:        ldif.DefaultLineLength,
			IncludeTimestamps: true,
		},
		BatchSize: 500,
	}
}

// Validate backfills defaults for zero values and checks the rules that are
// fatal to startup: a usable output path, a DN template with at least one
// placeholder that renders to a syntactically valid DN, and a sane wrap
// width.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	if c.Ldif.LineLength == 0 {
		c.Ldif.LineLength = ldif.DefaultLineLength
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}
	if c.DNTemplate == "" {
		return fmt.Errorf("dn_template cannot be empty")
	}

	placeholders := ldif.TemplatePlaceholders(c.DNTemplate)
	if len(placeholders) == 0 {
		return fmt.Errorf("dn_template must contain at least one {field} placeholder")
	}

	if c.Ldif.LineLength < ldif.MinLineLength {
		return fmt.Errorf("ldif_options.line_length must be an integer >= %d, got %d",
			ldif.MinLineLength, c.Ldif.LineLength)
	}

	// Render the template with sample values and require a parseable DN
	// with at least one attr=value component.
	sample := c.DNTemplate
	for _, field := range placeholders {
		sample = strings.ReplaceAll(sample, "{"+field+"}", "sample")
	}
	dn, err := ldap.ParseDN(sample)
	if err != nil {
		return fmt.Errorf("dn_template does not render to a valid DN: %w", err)
	}
	if len(dn.RDNs) == 0 {
		return fmt.Errorf("dn_template must render to at least one attr=value component")
	}

	return nil
}

// Load reads a JSON config file and merges TARGET_LDIF_* environment
// variables over it, starting from the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TARGET_LDIF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("output_path", cfg.OutputPath)
	v.SetDefault("dn_template", cfg.DNTemplate)
	v.SetDefault("batch_size", cfg.BatchSize)
	v.SetDefault("ldif_options.line_length", cfg.Ldif.LineLength)
	v.SetDefault("ldif_options.base64_encode", cfg.Ldif.Base64Encode)
	v.SetDefault("ldif_options.include_timestamps", cfg.Ldif.IncludeTimestamps)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
