package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/geoknoesis/rdf-access/rdf"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// RDFUTIL_LOG_LEVEL for log.level.
const EnvPrefix = "RDFUTIL"

// Config holds all configuration for rdfutil
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Codec configuration
	Codec CodecConfig `mapstructure:"codec"`

	// Remote JSON-LD context configuration
	Contexts ContextsConfig `mapstructure:"contexts"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text or json
	File       string `mapstructure:"file"`   // empty logs to stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// CodecConfig holds defaults for decoding and encoding
type CodecConfig struct {
	BaseURI       string `mapstructure:"base_uri"`
	InputType     string `mapstructure:"input_type"`
	OutputType    string `mapstructure:"output_type"`
	Pretty        bool   `mapstructure:"pretty"`
	MaxInputBytes int64  `mapstructure:"max_input_bytes"`
	MaxTriples    int64  `mapstructure:"max_triples"`
}

// ContextsConfig holds the remote context loader configuration
type ContextsConfig struct {
	CacheBytes int             `mapstructure:"cache_bytes"`
	Timeout    time.Duration   `mapstructure:"timeout"`
	DefaultTTL time.Duration   `mapstructure:"default_ttl"`
	Preload    []PreloadConfig `mapstructure:"preload"`
}

// PreloadConfig maps a context URL onto a local file.
type PreloadConfig struct {
	URL  string `mapstructure:"url"`
	File string `mapstructure:"file"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_age_days", 7)

	// Codec defaults
	v.SetDefault("codec.base_uri", "")
	v.SetDefault("codec.input_type", "")
	v.SetDefault("codec.output_type", rdf.MediaTypeTurtle)
	v.SetDefault("codec.pretty", false)
	v.SetDefault("codec.max_input_bytes", rdf.DefaultMaxInputBytes)
	v.SetDefault("codec.max_triples", 0)

	// Context loader defaults
	v.SetDefault("contexts.cache_bytes", 4<<20)
	v.SetDefault("contexts.timeout", "10s")
	v.SetDefault("contexts.default_ttl", "0s")
	v.SetDefault("contexts.preload", []PreloadConfig{})
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", rdf.ErrConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", rdf.ErrConfig, c.Log.Format)
	}
	if c.Codec.BaseURI != "" {
		if err := rdf.ValidateIRI(c.Codec.BaseURI); err != nil {
			return fmt.Errorf("%w: codec.base_uri: %w", rdf.ErrConfig, err)
		}
	}
	if c.Contexts.CacheBytes < 0 {
		return fmt.Errorf("%w: contexts.cache_bytes must not be negative", rdf.ErrConfig)
	}
	for i, p := range c.Contexts.Preload {
		if err := rdf.ValidateIRI(p.URL); err != nil {
			return fmt.Errorf("%w: contexts.preload[%d].url: %w", rdf.ErrConfig, i, err)
		}
		if p.File == "" {
			return fmt.Errorf("%w: contexts.preload[%d].file is empty", rdf.ErrConfig, i)
		}
	}
	return nil
}
