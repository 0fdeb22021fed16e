package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"compatgen/internal/artifact"
	"compatgen/internal/config"
	"compatgen/internal/datasource"
	"compatgen/internal/emit"
	"compatgen/internal/logging"
	"compatgen/internal/pipeline"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s sink: %v", cfg.Sink, err)
	}
	defer closeStore()

	formatter, err := emit.NewFormatter(cfg.Formatter, cfg.GofmtPath)
	if err != nil {
		log.Fatal(err)
	}

	g := &pipeline.Generator{
		Paths: datasource.Paths{
			Prefixes: cfg.Inputs.Prefixes,
			Caniuse:  cfg.Inputs.Caniuse,
			BCD:      cfg.Inputs.BCD,
		},
		Package:   cfg.Package,
		Store:     store,
		Formatter: formatter,
		Logger:    logger,
	}
	rep, err := g.Run(ctx)
	if err != nil {
		closeStore()
		log.Fatalf("Generation failed: %v", err)
	}

	logger.Info("generation finished",
		"browsers", len(rep.Browsers),
		"constructs", rep.Constructs,
		"prefix_groups", rep.PrefixGroups,
		"features", rep.Features,
		"compat_groups", rep.CompatGroups,
		"flags", rep.Flags,
		"sink", cfg.Sink,
	)
	for _, name := range rep.Written {
		if url, err := store.GetURL(ctx, name); err == nil && url != "" {
			logger.Info("artifact written", "name", name, "url", url)
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config) (artifact.Store, func(), error) {
	noop := func() {}
	switch cfg.Sink {
	case config.SinkFile:
		return artifact.NewFileStore(cfg.OutDir), noop, nil
	case config.SinkS3:
		s, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			Prefix:    cfg.Namespace,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		return s, noop, err
	case config.SinkPostgres:
		s, err := artifact.OpenPostgres(ctx, cfg.DatabaseURL, cfg.Namespace)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}
