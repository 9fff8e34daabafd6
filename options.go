package tagframe

import (
	"fmt"

	"github.com/arloliu/tagframe/compress"
	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/internal/options"
	"github.com/rs/zerolog"
)

// Config holds the defaults a Serializer applies when the caller does not
// name a format or compression.
type Config struct {
	format      format.Format
	compression format.CompressionType
	level       int
	logger      zerolog.Logger
}

func defaultConfig() *Config {
	return &Config{
		format:      format.FormatJSON,
		compression: format.CompressionNone,
		level:       compress.DefaultLevel,
		logger:      zerolog.Nop(),
	}
}

// Option is a functional option for configuring a Serializer.
type Option = options.Option[*Config]

// WithFormat sets the default format. Default is format.FormatJSON.
func WithFormat(f format.Format) Option {
	return options.New(func(c *Config) error {
		if !f.IsValid() {
			return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedFormat, uint8(f))
		}
		c.format = f

		return nil
	})
}

// WithCompression sets the default compression. Default is format.CompressionNone.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: 0x%02x", errs.ErrUnknownCompressionTag, uint8(ct))
		}
		c.compression = ct

		return nil
	})
}

// WithCompressionLevel sets the level hint passed to level-aware algorithms
// (zlib, lz4). Valid levels are compress.MinLevel to compress.MaxLevel, 0
// selects compress.DefaultLevel.
func WithCompressionLevel(level int) Option {
	return options.New(func(c *Config) error {
		if level == 0 {
			level = compress.DefaultLevel
		}
		if level < compress.MinLevel || level > compress.MaxLevel {
			return fmt.Errorf("%w: %d not in [%d, %d]",
				errs.ErrInvalidCompressionLevel, level, compress.MinLevel, compress.MaxLevel)
		}
		c.level = level

		return nil
	})
}

// WithLogger sets the logger for diagnostics such as legacy frame fallback
// and skipped algorithms. Default is a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}
