package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/config"
	"github.com/davoli/trackframe/internal/domain"
	"github.com/davoli/trackframe/internal/engine"
	"github.com/davoli/trackframe/internal/executor"
	"github.com/davoli/trackframe/internal/fetcher"
	"github.com/davoli/trackframe/internal/monitor"
	"github.com/davoli/trackframe/internal/palette"
	"github.com/davoli/trackframe/internal/render"
	"github.com/davoli/trackframe/internal/spotify"
)

// AppOptions assembles the full dependency graph. Kept separate from main so
// tests can validate the graph with fx.ValidateApp.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		monitor.NewDisplaySize,
		newExtractor,
		render.NewTextRenderer,
		fx.Annotate(render.NewFrameRenderer, fx.As(new(domain.Renderer))),
		fx.Annotate(fetcher.NewArtFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(executor.NewCommandRefresher, fx.As(new(domain.Refresher))),
		newSource,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newExtractor(cfg domain.Config) (*palette.Extractor, error) {
	return palette.NewExtractor(cfg.GetPaletteSize())
}

// newSource picks the configured track source implementation.
func newSource(logger *zap.Logger, cfg domain.Config) (domain.Source, error) {
	switch cfg.GetSource() {
	case "spotify":
		client, err := spotify.NewClient(logger, cfg)
		if err != nil {
			return nil, err
		}
		return spotify.NewPoller(logger, client, cfg), nil
	case "mpris":
		return monitor.NewMprisSource(logger), nil
	default:
		return nil, fmt.Errorf("unknown track source %q", cfg.GetSource())
	}
}

// registerHooks ties the source and engine into the application lifecycle
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, source domain.Source, eng *engine.Engine) {
	appCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("trackframe daemon started")
			go func() {
				if err := source.Start(appCtx); err != nil && appCtx.Err() == nil {
					logger.Error("Track source terminated", zap.Error(err))
				}
			}()
			return eng.Start(appCtx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			cancel()
			if err := source.Stop(ctx); err != nil {
				logger.Warn("Failed to stop track source", zap.Error(err))
			}
			return eng.Stop(ctx)
		},
	})
}
