package domain

import (
	"context"
	"time"
)

// Source defines the interface for now-playing track sources.
// Implementations may poll a web API or listen on a local bus.
type Source interface {
	// Start begins emitting track updates.
	// It should block until context is cancelled or an error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the source
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits a TrackUpdate
	// whenever the playing track or playback state changes
	Events() <-chan TrackUpdate
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer defines the interface for the frame rendering pipeline.
type Renderer interface {
	// Render composites a display frame for the given track from raw album
	// art bytes and persists it. Returns the path of the written frame.
	Render(ctx context.Context, track TrackUpdate, art []byte) (string, error)
}

// Refresher defines the interface for post-render display refresh hooks
type Refresher interface {
	// Refresh notifies the display that a new frame is available at path
	Refresh(ctx context.Context, path string) error
}

// Config defines the interface for application configuration
type Config interface {
	// GetSource returns the configured track source name ("spotify" or "mpris")
	GetSource() string

	// GetOutputPath returns the full path of the frame cache file
	GetOutputPath() string

	// GetRefreshCommand returns the command template run after each frame,
	// empty if none is configured
	GetRefreshCommand() string

	// GetDisplaySpec returns the configured display size as "WIDTHxHEIGHT",
	// empty when the size should be autodetected
	GetDisplaySpec() string

	// GetTextPosition returns the top-left anchor of the text overlay
	GetTextPosition() (x, y int)

	// GetFontPath returns the path of the overlay typeface, empty for the
	// bundled default
	GetFontPath() string

	// GetFontSize returns the overlay point size
	GetFontSize() float64

	// GetCoverRatio returns the cover size as a fraction of display height
	GetCoverRatio() float64

	// GetPaletteSize returns the number of colors extracted from album art
	GetPaletteSize() int

	// GetPollInterval returns the polling period of the Spotify source
	GetPollInterval() time.Duration

	// SpotifyCredentials returns the client id, client secret and refresh
	// token used by the Spotify source
	SpotifyCredentials() (id, secret, refreshToken string)
}
