package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/imageurl"
	"github.com/alnah/go-folio/internal/site"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadInput      = errors.New("failed to read input file")
	ErrWriteOutput    = errors.New("failed to write output file")
)

// The store client must satisfy everything the site builder consumes.
var _ site.ContentSource = (*content.Client)(nil)

// run dispatches to a subcommand.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUnknownCommand)
	}

	switch args[0] {
	case "build":
		flags, _, err := parseBuildFlags(args[1:])
		if err != nil {
			return err
		}
		return runBuild(ctx, flags, env)
	case "render":
		flags, rest, err := parseRenderFlags(args[1:])
		if err != nil {
			return err
		}
		return runRender(ctx, rest, flags, env)
	case "version":
		fmt.Fprintf(env.Stdout, "folio %s\n", Version)
		return nil
	case "help":
		runHelp(args[1:], env)
		return nil
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

// newLogger builds the CLI logger. Quiet wins over verbose.
func newLogger(flags commonFlags, env *Environment) zerolog.Logger {
	level := zerolog.InfoLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	if flags.quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: env.Stderr}).Level(level).With().Timestamp().Logger()
}

// runBuild loads the site config, wires the store client and renderer, and
// builds every page into the output directory.
func runBuild(ctx context.Context, flags *buildFlags, env *Environment) error {
	log := newLogger(flags.common, env)

	cfg, err := config.LoadConfig(flags.config)
	if err != nil {
		return err
	}
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}

	clientOpts := []content.Option{content.WithLogger(log)}
	if cfg.Content.APIVersion != "" {
		clientOpts = append(clientOpts, content.WithAPIVersion(cfg.Content.APIVersion))
	}
	if cfg.Content.UseCDN {
		clientOpts = append(clientOpts, content.WithCDN())
	}
	if cfg.Content.TokenEnv != "" {
		if token := env.Getenv(cfg.Content.TokenEnv); token != "" {
			clientOpts = append(clientOpts, content.WithToken(token))
		}
	}
	if flags.storeURL != "" {
		clientOpts = append(clientOpts, content.WithBaseURL(flags.storeURL))
	}
	client, err := content.New(cfg.Content.ProjectID, cfg.Content.Dataset, clientOpts...)
	if err != nil {
		return err
	}

	images, err := imageurl.New(cfg.Content.ProjectID, cfg.Content.Dataset)
	if err != nil {
		return err
	}

	resolver, err := assets.NewResolver(flags.assetPath)
	if err != nil {
		return err
	}

	rendererOpts := []folio.Option{
		folio.WithImageURLBuilder(images),
		folio.WithLogger(log),
	}
	if cfg.Render.Theme != "" {
		rendererOpts = append(rendererOpts, folio.WithTheme(cfg.Render.Theme))
	}
	if cfg.Render.LineNumberThreshold > 0 {
		rendererOpts = append(rendererOpts, folio.WithLineNumberThreshold(cfg.Render.LineNumberThreshold))
	}

	builder := site.NewBuilder(client,
		site.Meta{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Author:      cfg.Site.Author,
		},
		cfg.Output.Dir,
		site.WithRenderer(folio.NewRenderer(rendererOpts...)),
		site.WithAssets(resolver),
		site.WithImages(images),
		site.WithLogger(log),
		site.WithClock(env.Now),
	)

	if err := builder.Build(ctx); err != nil {
		return err
	}
	log.Info().Str("dir", cfg.Output.Dir).Msg("site built")
	return nil
}
