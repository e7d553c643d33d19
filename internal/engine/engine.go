// Package engine wires the track source to the render pipeline.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

// Debounce window between a track event and the render it triggers. Rapid
// skipping emits a burst of events; only the last one is worth a frame.
const debounceDuration = 500 * time.Millisecond

// Engine consumes track updates, fetches album art, renders the frame and
// triggers the display refresh.
type Engine struct {
	logger    *zap.Logger
	source    domain.Source
	fetcher   domain.Fetcher
	renderer  domain.Renderer
	refresher domain.Refresher
}

// NewEngine creates the orchestration engine
func NewEngine(
	logger *zap.Logger,
	source domain.Source,
	fetcher domain.Fetcher,
	renderer domain.Renderer,
	refresher domain.Refresher,
) *Engine {
	return &Engine{
		logger:    logger,
		source:    source,
		fetcher:   fetcher,
		renderer:  renderer,
		refresher: refresher,
	}
}

// Start launches the event loop in a goroutine and returns immediately.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting")
	go e.runLoop(ctx)
	return nil
}

// Stop logs shutdown; renders in flight run to completion.
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopped")
	return nil
}

func (e *Engine) runLoop(ctx context.Context) {
	events := e.source.Events()

	timer := time.NewTimer(debounceDuration)
	timer.Stop()

	var pending *domain.TrackUpdate

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case update, ok := <-events:
			if !ok {
				e.logger.Info("Source events channel closed")
				return
			}
			e.logger.Debug("Event received, debouncing",
				zap.String("title", update.Title),
				zap.String("artist", update.Artist))
			pending = &update
			timer.Reset(debounceDuration)

		case <-timer.C:
			if pending != nil {
				e.processTrack(ctx, *pending)
				pending = nil
			}
		}
	}
}

// processTrack runs one render for a single track update.
func (e *Engine) processTrack(ctx context.Context, update domain.TrackUpdate) {
	if update.Status != domain.StatusPlaying {
		e.logger.Info("Playback paused or stopped, keeping current frame",
			zap.String("status", string(update.Status)))
		return
	}
	if update.ArtURL == "" {
		e.logger.Warn("No artwork URL for track",
			zap.String("title", update.Title),
			zap.String("artist", update.Artist))
		return
	}

	e.logger.Info("Rendering frame",
		zap.String("title", update.Title),
		zap.String("artist", update.Artist))

	art, err := e.fetcher.Fetch(ctx, update.ArtURL)
	if err != nil {
		e.logger.Error("Failed to fetch artwork", zap.Error(err))
		return
	}

	path, err := e.renderer.Render(ctx, update, art)
	if err != nil {
		e.logger.Error("Failed to render frame", zap.Error(err))
		return
	}

	if err := e.refresher.Refresh(ctx, path); err != nil {
		e.logger.Error("Failed to refresh display", zap.Error(err))
		return
	}

	e.logger.Info("Frame updated", zap.String("path", path))
}
