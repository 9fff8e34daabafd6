package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/tagframe"
	"github.com/arloliu/tagframe/config"
	"github.com/arloliu/tagframe/encoding"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/value"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
)

type command struct {
	name    string
	summary string
	// codecFlags adds --format, --compression and --level.
	codecFlags bool
	run        func(inv *invocation) error
}

var commands = []command{
	{name: "inspect", summary: "print the frame header and payload size", run: runInspect},
	{name: "encode", summary: "encode JSON input into a frame", codecFlags: true, run: runEncode},
	{name: "decode", summary: "decode a frame and print it as JSON", run: runDecode},
	{name: "best", summary: "compare compression algorithms on JSON input", codecFlags: true, run: runBest},
}

// invocation is one parsed command line.
type invocation struct {
	cfg        *config.Config
	logger     zerolog.Logger
	serializer *tagframe.Serializer
	args       []string
	stdin      io.Reader
	stdout     io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing command")
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(stderr)
		return nil
	}

	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}

		inv, err := setup(cmd, args[1:], stderr)
		if err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return nil
			}
			return err
		}
		inv.stdin, inv.stdout = stdin, stdout

		return cmd.run(inv)
	}

	printUsage(stderr)

	return fmt.Errorf("unknown command %q", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: framectl <command> [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'framectl <command> --help' for command flags.")
}

func setup(cmd command, args []string, stderr io.Writer) (*invocation, error) {
	var (
		configPath  string
		logLevel    string
		f           format.Format
		compression format.CompressionType
		level       int
	)

	fs := pflag.NewFlagSet("framectl "+cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "config file (.toml, .yaml, .json, .jsonc); defaults to $"+config.EnvPath)
	fs.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	if cmd.codecFlags {
		fs.Var(&formatValue{&f}, "format", "payload format (json, cbor, msgpack)")
		fs.Var(&compressionValue{&compression}, "compression", "compression (none, zlib, lz4, snappy, zstd, s2)")
		fs.IntVar(&level, "level", 0, "compression level 1-9, 0 for the codec default")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(1))
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}

	if fs.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if fs.Changed("format") {
		cfg.Format = f
	}
	if fs.Changed("compression") {
		cfg.Compression = compression
	}
	if fs.Changed("level") {
		cfg.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.ConsoleLogger(stderr)
	s, err := tagframe.New(cfg.Options(logger)...)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("command", cmd.name).Str("config", configPath).Msg("framectl starting")

	return &invocation{cfg: cfg, logger: logger, serializer: s, args: fs.Args()}, nil
}

func (inv *invocation) readInput() ([]byte, error) {
	if len(inv.args) == 0 || inv.args[0] == "-" {
		return io.ReadAll(inv.stdin)
	}

	return os.ReadFile(inv.args[0])
}

// readJSON reads the input as JSON with comments, decoding marker maps into
// extended values.
func (inv *invocation) readJSON() (value.Value, error) {
	data, err := inv.readInput()
	if err != nil {
		return nil, err
	}

	return encoding.Decode(jsonc.ToJSON(data), format.FormatJSON)
}

func runInspect(inv *invocation) error {
	data, err := inv.readInput()
	if err != nil {
		return err
	}

	h, size, err := inv.serializer.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(inv.stdout, "format:      %s\n", h.Format.Tag())
	fmt.Fprintf(inv.stdout, "compression: %s\n", h.Compression.Tag())
	fmt.Fprintf(inv.stdout, "legacy:      %t\n", h.Legacy)
	fmt.Fprintf(inv.stdout, "header:      %d bytes\n", len(data)-size)
	fmt.Fprintf(inv.stdout, "payload:     %d bytes\n", size)

	return nil
}

func runEncode(inv *invocation) error {
	v, err := inv.readJSON()
	if err != nil {
		return err
	}

	data, err := inv.serializer.Serialize(v)
	if err != nil {
		return err
	}
	_, err = inv.stdout.Write(data)

	return err
}

func runDecode(inv *invocation) error {
	data, err := inv.readInput()
	if err != nil {
		return err
	}

	v, err := inv.serializer.Deserialize(data)
	if err != nil {
		return err
	}

	out, err := encoding.Encode(v, format.FormatJSON)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(inv.stdout, "%s\n", out)

	return err
}

func runBest(inv *invocation) error {
	v, err := inv.readJSON()
	if err != nil {
		return err
	}

	fmt.Fprintf(inv.stdout, "%-8s %10s %10s %8s\n", "ALGO", "ORIGINAL", "COMPRESSED", "RATIO")
	for _, c := range format.Compressions() {
		stats, err := inv.serializer.CompressionRatioAs(v, format.FormatJSON, c)
		if err != nil {
			inv.logger.Warn().Err(err).Str("algorithm", c.Tag()).Msg("measurement failed")
			continue
		}
		fmt.Fprintf(inv.stdout, "%-8s %10d %10d %7.2f%%\n", c.Tag(), stats.OriginalSize, stats.CompressedSize, stats.RatioPercent)
	}

	best, ok := inv.serializer.BestCompression(v)
	if !ok {
		return errors.New("no compression algorithm succeeded")
	}
	fmt.Fprintf(inv.stdout, "best: %s (%.2f%%)\n", best.Algorithm.Tag(), best.RatioPercent)

	return nil
}

// formatValue adapts format.Format to pflag.Value.
type formatValue struct{ f *format.Format }

func (v *formatValue) String() string {
	if v.f == nil || !v.f.IsValid() {
		return ""
	}
	return v.f.Tag()
}

func (v *formatValue) Set(s string) error { return v.f.UnmarshalText([]byte(s)) }

func (v *formatValue) Type() string { return "format" }

// compressionValue adapts format.CompressionType to pflag.Value.
type compressionValue struct{ c *format.CompressionType }

func (v *compressionValue) String() string {
	if v.c == nil || !v.c.IsValid() {
		return ""
	}
	return v.c.Tag()
}

func (v *compressionValue) Set(s string) error { return v.c.UnmarshalText([]byte(s)) }

func (v *compressionValue) Type() string { return "compression" }
