// Package config loads serializer and store defaults from a file.
//
// Three syntaxes are accepted, chosen by file extension:
//
//	.toml          TOML
//	.yaml, .yml    YAML
//	.json, .jsonc  JSON, with // and /* */ comments and trailing commas
//
// Every key is optional; missing keys keep the values from Default. Unknown
// keys are rejected so that typos do not silently fall back to defaults.
//
//	# tagframe.toml
//	format = "cbor"
//	compression = "zstd"
//	level = 6
//	log_level = "debug"
//
//	[store]
//	shards = 32
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/tagframe"
	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/store"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable read by LoadEnv.
const EnvPath = "TAGFRAME_CONFIG"

// Config holds file-backed defaults.
type Config struct {
	Format      format.Format          `toml:"format" yaml:"format" json:"format"`
	Compression format.CompressionType `toml:"compression" yaml:"compression" json:"compression"`
	// Level is the compression level hint, 1-9, or 0 for the codec default.
	Level int `toml:"level" yaml:"level" json:"level"`
	// LogLevel is a zerolog level name such as "info" or "debug".
	LogLevel string      `toml:"log_level" yaml:"log_level" json:"log_level"`
	Store    StoreConfig `toml:"store" yaml:"store" json:"store"`
}

// StoreConfig configures store.Store.
type StoreConfig struct {
	Shards int `toml:"shards" yaml:"shards" json:"shards"`
}

// Default returns the built-in defaults: json, no compression, info logging.
func Default() *Config {
	return &Config{
		Format:      format.FormatJSON,
		Compression: format.CompressionNone,
		LogLevel:    zerolog.InfoLevel.String(),
		Store:       StoreConfig{Shards: store.DefaultShards},
	}
}

// LoadEnv loads the file named by the TAGFRAME_CONFIG environment variable,
// or returns Default when it is unset.
func LoadEnv() (*Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvPath))
	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the syntax named by ext (".toml", ".yaml", ".yml",
// ".json" or ".jsonc") on top of Default and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = cfg.decodeTOML(data)
	case ".yaml", ".yml":
		err = cfg.decodeYAML(data)
	case ".json", ".jsonc":
		err = cfg.decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", errs.ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decodeTOML(data []byte) error {
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown toml key %q", undecoded[0].String())
	}

	return nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return fmt.Errorf("parse yaml: %w", err)
	}

	return nil
}

func (c *Config) decodeJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return fmt.Errorf("parse json: %w", err)
	}

	return nil
}

// Validate checks every field. Errors wrap errs.ErrInvalidConfig.
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("%w: format 0x%02x", errs.ErrInvalidConfig, uint8(c.Format))
	}
	if !c.Compression.IsValid() {
		return fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidConfig, uint8(c.Compression))
	}
	if c.Level < 0 || c.Level > 9 {
		return fmt.Errorf("%w: level %d outside 0-9", errs.ErrInvalidConfig, c.Level)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", errs.ErrInvalidConfig, err)
	}
	if c.Store.Shards <= 0 {
		return fmt.Errorf("%w: store.shards must be positive, got %d", errs.ErrInvalidConfig, c.Store.Shards)
	}

	return nil
}

// Logger returns a logger writing to w at LogLevel. An invalid level falls
// back to info.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ConsoleLogger is Logger with human-readable output, for CLIs.
func (c *Config) ConsoleLogger(w io.Writer) zerolog.Logger {
	return c.Logger(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
}

// Options converts the config into serializer options.
func (c *Config) Options(logger zerolog.Logger) []tagframe.Option {
	return []tagframe.Option{
		tagframe.WithFormat(c.Format),
		tagframe.WithCompression(c.Compression),
		tagframe.WithCompressionLevel(c.Level),
		tagframe.WithLogger(logger),
	}
}

// StoreOptions converts the config into store options using codec.
func (c *Config) StoreOptions(codec store.Codec, logger zerolog.Logger) []store.Option {
	return []store.Option{
		store.WithShards(c.Store.Shards),
		store.WithCodec(codec),
		store.WithLogger(logger),
	}
}
