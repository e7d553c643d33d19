package spotify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

// Poller turns the polling client into a domain.Source: it ticks on the
// configured interval and emits a TrackUpdate whenever the track or playback
// state changes.
type Poller struct {
	logger *zap.Logger
	client *Client
	cfg    domain.Config
	events chan domain.TrackUpdate

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastSongID  string
	lastPlaying bool
}

// NewPoller creates a Spotify-backed track source.
func NewPoller(logger *zap.Logger, client *Client, cfg domain.Config) *Poller {
	return &Poller{
		logger: logger,
		client: client,
		cfg:    cfg,
		events: make(chan domain.TrackUpdate, 10),
	}
}

// Start polls until the context is cancelled. It blocks, mirroring the
// behavior of the bus-based source.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Info("Spotify poller started",
		zap.Duration("interval", p.cfg.GetPollInterval()))

	p.wg.Add(1)
	go p.pollLoop(pollCtx)

	<-pollCtx.Done()
	return pollCtx.Err()
}

// Stop cancels polling and closes the events channel once the poll goroutine
// has drained.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.events)
	p.logger.Info("Spotify poller stopped")
	return nil
}

// Events returns the track update channel
func (p *Poller) Events() <-chan domain.TrackUpdate {
	return p.events
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	// First poll immediately so a restart repaints the display without
	// waiting a full interval
	p.poll(ctx)

	ticker := time.NewTicker(p.cfg.GetPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	now, err := p.client.CurrentTrack(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("Polling current track failed", zap.Error(err))
		}
		return
	}
	if now == nil {
		// Nothing playing; report a stop once
		if p.lastSongID != "" {
			p.lastSongID = ""
			p.lastPlaying = false
			p.emit(domain.TrackUpdate{Status: domain.StatusStopped})
		}
		return
	}

	if now.SongID == p.lastSongID && now.Playing == p.lastPlaying {
		return
	}
	p.lastSongID = now.SongID
	p.lastPlaying = now.Playing

	update := domain.TrackUpdate{
		Title:      now.SongTitle,
		Artist:     now.ArtistName,
		SongID:     now.SongID,
		ArtURL:     now.ImageURL,
		DurationMS: now.SongLength,
		Status:     domain.StatusPaused,
	}
	if now.Playing {
		update.Status = domain.StatusPlaying
	}
	p.emit(update)
}

func (p *Poller) emit(update domain.TrackUpdate) {
	select {
	case p.events <- update:
		p.logger.Info("Track change detected",
			zap.String("title", update.Title),
			zap.String("artist", update.Artist),
			zap.String("status", string(update.Status)))
	default:
		p.logger.Warn("Events channel full, dropping track update")
	}
}
