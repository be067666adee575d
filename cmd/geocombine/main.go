package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/mohammed-shakir/geocombine/internal/geojsonio"
	"github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/pkg/combine"
)

var Version = "dev"

type Options struct {
	Input    string `short:"i" long:"in" description:"Input FeatureCollection path. Reads from stdin if empty"`
	Output   string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format   string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Pretty   bool   `short:"p" long:"pretty" description:"Indent JSON output"`
	LogLevel string `long:"log-level" env:"LOG_LEVEL" description:"Log level" default:"warn"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	zl := logger.Build(logger.Config{
		Level:     opts.LogLevel,
		Console:   true,
		Component: "cli",
		Version:   Version,
	}, os.Stderr)
	log := logger.NewSlog(&zl)

	os.Exit(run(opts, os.Stdin, os.Stdout, log))
}

func run(opts Options, stdin io.Reader, stdout io.Writer, log *slog.Logger) int {
	ctx := logger.WithSource(context.Background(), "cli")

	in, err := readInput(opts.Input, stdin)
	if err != nil {
		log.ErrorContext(ctx, "read input failed", "err", err)
		return 1
	}

	out, stats, err := convert(in, opts.Format, opts.Pretty)
	if err != nil {
		var ce *combine.Error
		if errors.As(err, &ce) {
			log.ErrorContext(ctx, "combine rejected input",
				"kind", combine.KindName(err), "feature", ce.Index, "type", ce.Type, "err", err)
			return 2
		}
		log.ErrorContext(ctx, "combine failed", "err", err)
		return 1
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			log.ErrorContext(ctx, "write output failed", "path", opts.Output, "err", err)
			return 1
		}
	} else if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
		log.ErrorContext(ctx, "write stdout failed", "err", err)
		return 1
	}

	log.InfoContext(ctx, "combined",
		"features_out", stats.FeaturesOut(), "format", opts.Format)
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func convert(in []byte, format string, pretty bool) ([]byte, combine.Stats, error) {
	fc, err := geojsonio.Decode(in)
	if err != nil {
		return nil, combine.Stats{}, err
	}
	res, stats, err := combine.CombineWithStats(fc)
	if err != nil {
		return nil, stats, err
	}

	var out []byte
	switch {
	case format == "yaml":
		out, err = geojsonio.EncodeYAML(res)
	case pretty:
		out, err = geojsonio.EncodeIndent(res, "  ")
	default:
		out, err = geojsonio.Encode(res)
	}
	return out, stats, err
}
