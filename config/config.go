// Package config provides configuration loading and management for semlex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	ssconfig "github.com/c360studio/semstreams/config"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendNATS   = "nats"
	BackendSQLite = "sqlite"
)

// Config represents the complete semlex configuration
type Config struct {
	Terms   TermsConfig   `yaml:"terms"`
	Storage StorageConfig `yaml:"storage"`
	NATS    NATSConfig    `yaml:"nats"`
	HTTP    HTTPConfig    `yaml:"http"`
	Export  ExportConfig  `yaml:"export"`
	View    ViewConfig    `yaml:"view"`
}

// TermsConfig configures term validation
type TermsConfig struct {
	// Languages is the term-language allowlist. Entries may be glob
	// patterns such as "mis-x-*".
	Languages []string `yaml:"languages"`
	// MaxLength is the maximum term length in characters
	MaxLength int `yaml:"max_length"`
}

// StorageConfig configures entity persistence
type StorageConfig struct {
	// Backend is "nats" (JetStream KV) or "sqlite"
	Backend string `yaml:"backend"`
	// SQLitePath is the database file for the sqlite backend
	SQLitePath string `yaml:"sqlite_path"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to use embedded NATS
	Embedded bool `yaml:"embedded"`
	// StoreDir is the JetStream directory of the embedded server (empty = temp dir)
	StoreDir string `yaml:"store_dir"`
	// Publish enables graph publishing of saved lexemes
	Publish bool `yaml:"publish"`
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr"`
	// Prefix is the path prefix of the API routes
	Prefix string `yaml:"prefix"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ExportConfig configures RDF export
type ExportConfig struct {
	// Format is the default export format (turtle, ntriples, jsonld)
	Format string `yaml:"format"`
	// EntityNamespace is the base IRI of exported entities
	EntityNamespace string `yaml:"entity_namespace"`
	// DirectClaimNamespace is the base IRI of direct-claim predicates
	DirectClaimNamespace string `yaml:"direct_claim_namespace"`
}

// ViewConfig configures HTML views
type ViewConfig struct {
	// Language is the user interface language for labels
	Language string `yaml:"language"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Terms: TermsConfig{
			Languages: []string{
				"ar", "de", "en", "es", "fa", "fr", "he", "it", "ja",
				"nl", "pl", "pt", "ru", "sv", "uk", "zh", "mis", "mis-x-*",
			},
			MaxLength: 1000,
		},
		Storage: StorageConfig{
			Backend:    BackendNATS,
			SQLitePath: "semlex.db",
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
			Publish:  true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			Prefix:          "/api/",
			ShutdownTimeout: 10 * time.Second,
		},
		Export: ExportConfig{
			Format: "turtle",
		},
		View: ViewConfig{
			Language: "en",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Terms.Languages) == 0 {
		return fmt.Errorf("terms.languages must not be empty")
	}
	for _, lang := range c.Terms.Languages {
		if lang == "" || !doublestar.ValidatePattern(lang) {
			return fmt.Errorf("terms.languages: invalid entry %q", lang)
		}
	}
	if c.Terms.MaxLength <= 0 {
		return fmt.Errorf("terms.max_length must be positive")
	}

	switch c.Storage.Backend {
	case BackendNATS:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q", BackendNATS, BackendSQLite)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}

	switch c.Export.Format {
	case "turtle", "ntriples", "jsonld":
	default:
		return fmt.Errorf("export.format must be turtle, ntriples or jsonld")
	}

	if c.View.Language == "" {
		return fmt.Errorf("view.language is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// ${VAR:-default} references are expanded from the environment.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLayer loads a file without defaults, for merging.
func loadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := ssconfig.ExpandEnvWithDefaults(string(data))
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Terms
	if len(other.Terms.Languages) > 0 {
		c.Terms.Languages = other.Terms.Languages
	}
	if other.Terms.MaxLength != 0 {
		c.Terms.MaxLength = other.Terms.MaxLength
	}

	// Storage
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}

	// HTTP
	if other.HTTP.Addr != "" {
		c.HTTP.Addr = other.HTTP.Addr
	}
	if other.HTTP.Prefix != "" {
		c.HTTP.Prefix = other.HTTP.Prefix
	}
	if other.HTTP.ShutdownTimeout != 0 {
		c.HTTP.ShutdownTimeout = other.HTTP.ShutdownTimeout
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.EntityNamespace != "" {
		c.Export.EntityNamespace = other.Export.EntityNamespace
	}
	if other.Export.DirectClaimNamespace != "" {
		c.Export.DirectClaimNamespace = other.Export.DirectClaimNamespace
	}

	// View
	if other.View.Language != "" {
		c.View.Language = other.View.Language
	}
}
