package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearth-web/hearth"
	"github.com/hearth-web/hearth/config"
	"github.com/hearth-web/hearth/http/codec"
	"github.com/hearth-web/hearth/router/segment"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const name = "github.com/hearth-web/hearth/cmd/hearth"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hearth:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) (err error) {
	flags := flag.NewFlagSet("hearth", flag.ContinueOnError)
	var (
		addr       = flags.String("addr", "127.0.0.1:4221", "address to listen on")
		configPath = flags.String("config", "", "path to a JSON config file, overlaid on the defaults")
		workers    = flags.Int("workers", 0, "number of workers, overrides the config value if set")
		withOTel   = flags.Bool("otel", false, "export traces, metrics and logs over OTLP/gRPC")
		debug      = flags.Bool("debug", false, "enable debug logs")
	)
	if err = flags.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if len(*configPath) > 0 {
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	if isFlagSet(flags, "workers") {
		cfg.Workers.Count = *workers
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *withOTel {
		shutdown, err := setupOTelSDK(ctx)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := shutdown(shutdownCtx); shutdownErr != nil {
				logger.Error("otel shutdown", slog.Any("error", shutdownErr))
			}
		}()

		logger = otelslog.NewLogger(name)
	}

	slog.SetDefault(logger)

	r := segment.Default()
	r.Use(segment.Recover, segment.LogRequests(logger))

	if cfg.Compression.Enabled {
		codecs, err := lookupCodecs(cfg.Compression.Codings)
		if err != nil {
			return err
		}

		r.Use(segment.Compress(codecs...))
	}

	app := hearth.New(*addr).
		Tune(cfg).
		Logger(logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Serve(r)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		app.Stop()
	}

	return <-errCh
}

func lookupCodecs(tokens []string) ([]codec.Codec, error) {
	codecs := make([]codec.Codec, 0, len(tokens))
	for _, token := range tokens {
		c, found := codec.Lookup(token)
		if !found {
			return nil, fmt.Errorf("compression: unknown coding %q", token)
		}

		codecs = append(codecs, c)
	}

	return codecs, nil
}

func isFlagSet(flags *flag.FlagSet, name string) (set bool) {
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return set
}
