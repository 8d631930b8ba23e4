package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danmuck/dxftags/internal/codec"
	"github.com/danmuck/dxftags/internal/config"
	"github.com/danmuck/dxftags/internal/dxf/entities"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/logging"
	"github.com/danmuck/dxftags/internal/observability"
	"github.com/danmuck/dxftags/internal/server"
	"github.com/rs/zerolog/log"
)

const usage = `usage: dxftagctl <command> [flags]

commands:
  convert   re-encode a DXF file at a target revision
  serve     run the HTTP conversion service
  types     list the registered record types
  config    write, validate or print a config file
`

var errUsage = errors.New("invalid usage")

func main() {
	logging.ConfigureRuntime()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "dxftagctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "convert":
		return runConvert(ctx, args[1:], stdin, stdout)
	case "serve":
		return runServe(ctx, args[1:])
	case "types":
		for _, name := range entities.Registry().Types() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case "config":
		return runConfig(args[1:], stdout)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	logging.SetLevel(cfg.Log.Level)
	return cfg, nil
}

func runConvert(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (TOML)")
	in := fs.String("in", "-", "input DXF path, - for stdin")
	out := fs.String("out", "-", "output DXF path, - for stdout")
	rev := fs.String("revision", "", "target revision (overrides config)")
	onInvalid := fs.String("on-invalid", "", "abort|skip|passthrough (overrides config)")
	workers := fs.Int("workers", 0, "decode workers (overrides config)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *rev != "" {
		cfg.TargetRevision = *rev
	}
	if *onInvalid != "" {
		cfg.OnInvalid = *onInvalid
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	r := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	w := stdout
	var outFile *os.File
	if *out != "-" {
		outFile, err = os.Create(*out)
		if err != nil {
			return err
		}
		defer outFile.Close()
		w = outFile
	}

	res, err := codec.Convert(ctx, r, w, cfg.Revision(), codec.Options{
		Registry:  entities.Registry(),
		Workers:   cfg.Workers,
		OnInvalid: cfg.Policy(),
	})
	if err != nil {
		return err
	}
	if outFile != nil {
		if err := outFile.Sync(); err != nil {
			return err
		}
	}
	log.Info().
		Str("in", *in).
		Str("out", *out).
		Str("revision", res.Revision).
		Int("written", res.Written).
		Int("issues", res.Issues).
		Msg("convert complete")
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (TOML)")
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	observability.InitLogger(nil, "dxftagctl", cfg.Server.Node, cfg.Revision())
	return server.New(cfg, entities.Registry()).Serve(ctx)
}

func runConfig(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	kind := fs.String("kind", "convert", "template kind: convert|server")
	output := fs.String("output", "dxftags.toml", "output path for config template")
	validate := fs.Bool("validate", false, "validate an existing config file")
	show := fs.Bool("print", false, "print the effective config")
	input := fs.String("input", "dxftags.toml", "config path for -validate and -print")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch {
	case *validate:
		if _, err := config.Load(*input); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "validated config at %s\n", *input)
		return nil
	case *show:
		cfg, err := config.Load(*input)
		if err != nil {
			return err
		}
		out, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s config template to %s (revisions %s..%s)\n", *kind, *output, revision.R12, revision.Latest)
	return nil
}
