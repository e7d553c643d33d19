package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultSource       = "spotify"
	defaultOutputDir    = "ImageCache"
	frameFilename       = "finalImage.png"
	defaultTextX        = 50
	defaultTextY        = 50
	defaultFontSize     = 40.0
	defaultCoverRatio   = 0.5
	defaultPaletteSize  = 4
	defaultPollInterval = 5 * time.Second
)

// AppConfig holds application configuration
type AppConfig struct {
	logger         *zap.Logger
	source         string
	outputDir      string
	displaySpec    string
	textX          int
	textY          int
	fontPath       string
	fontSize       float64
	coverRatio     float64
	paletteSize    int
	pollInterval   time.Duration
	refreshCommand string
	spotifyID      string
	spotifySecret  string
	spotifyRefresh string
}

// NewAppConfig reads configuration from TRACKFRAME_* environment variables,
// falling back to defaults.
func NewAppConfig(logger *zap.Logger) *AppConfig {
	outputDir := envOr("TRACKFRAME_OUTPUT_DIR", defaultOutputDir)
	outputDir = os.ExpandEnv(outputDir)
	if len(outputDir) > 0 && outputDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			outputDir = filepath.Join(home, outputDir[1:])
		}
	}

	cfg := &AppConfig{
		logger:         logger,
		source:         envOr("TRACKFRAME_SOURCE", defaultSource),
		outputDir:      outputDir,
		displaySpec:    os.Getenv("TRACKFRAME_DISPLAY"),
		textX:          envInt("TRACKFRAME_TEXT_X", defaultTextX),
		textY:          envInt("TRACKFRAME_TEXT_Y", defaultTextY),
		fontPath:       os.Getenv("TRACKFRAME_FONT"),
		fontSize:       envFloat("TRACKFRAME_FONT_SIZE", defaultFontSize),
		coverRatio:     envFloat("TRACKFRAME_COVER_RATIO", defaultCoverRatio),
		paletteSize:    envInt("TRACKFRAME_PALETTE_SIZE", defaultPaletteSize),
		pollInterval:   envDuration("TRACKFRAME_POLL_INTERVAL", defaultPollInterval),
		refreshCommand: os.Getenv("TRACKFRAME_REFRESH_CMD"),
		spotifyID:      os.Getenv("SPOTIFY_CLIENT_ID"),
		spotifySecret:  os.Getenv("SPOTIFY_CLIENT_SECRET"),
		spotifyRefresh: os.Getenv("SPOTIFY_REFRESH_TOKEN"),
	}

	logger.Info("Configuration loaded",
		zap.String("source", cfg.source),
		zap.String("outputDir", cfg.outputDir),
		zap.String("display", cfg.displaySpec),
		zap.Duration("pollInterval", cfg.pollInterval))

	return cfg
}

// GetSource returns the configured track source name
func (c *AppConfig) GetSource() string {
	return c.source
}

// GetOutputPath returns the full path of the frame cache file
func (c *AppConfig) GetOutputPath() string {
	return filepath.Join(c.outputDir, frameFilename)
}

// GetRefreshCommand returns the post-render command template, empty if none
func (c *AppConfig) GetRefreshCommand() string {
	return c.refreshCommand
}

// GetDisplaySpec returns the configured display size as "WIDTHxHEIGHT"
func (c *AppConfig) GetDisplaySpec() string {
	return c.displaySpec
}

// GetTextPosition returns the top-left anchor of the text overlay
func (c *AppConfig) GetTextPosition() (int, int) {
	return c.textX, c.textY
}

// GetFontPath returns the overlay typeface path, empty for the bundled default
func (c *AppConfig) GetFontPath() string {
	return c.fontPath
}

// GetFontSize returns the overlay point size
func (c *AppConfig) GetFontSize() float64 {
	return c.fontSize
}

// GetCoverRatio returns the cover size as a fraction of display height
func (c *AppConfig) GetCoverRatio() float64 {
	return c.coverRatio
}

// GetPaletteSize returns the number of colors extracted from album art
func (c *AppConfig) GetPaletteSize() int {
	return c.paletteSize
}

// GetPollInterval returns the polling period of the Spotify source
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// SpotifyCredentials returns the client id, secret and refresh token
func (c *AppConfig) SpotifyCredentials() (string, string, string) {
	return c.spotifyID, c.spotifySecret, c.spotifyRefresh
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
