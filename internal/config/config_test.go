package config

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

// clearEnv unsets every variable the config reads so host values cannot
// leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRACKFRAME_SOURCE",
		"TRACKFRAME_OUTPUT_DIR",
		"TRACKFRAME_DISPLAY",
		"TRACKFRAME_TEXT_X",
		"TRACKFRAME_TEXT_Y",
		"TRACKFRAME_FONT",
		"TRACKFRAME_FONT_SIZE",
		"TRACKFRAME_COVER_RATIO",
		"TRACKFRAME_PALETTE_SIZE",
		"TRACKFRAME_POLL_INTERVAL",
		"TRACKFRAME_REFRESH_CMD",
		"SPOTIFY_CLIENT_ID",
		"SPOTIFY_CLIENT_SECRET",
		"SPOTIFY_REFRESH_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestNewAppConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewAppConfig(zap.NewNop())

	if got := cfg.GetSource(); got != "spotify" {
		t.Errorf("source = %q, want spotify", got)
	}
	if got := cfg.GetOutputPath(); got != filepath.Join("ImageCache", "finalImage.png") {
		t.Errorf("output path = %q", got)
	}
	if x, y := cfg.GetTextPosition(); x != 50 || y != 50 {
		t.Errorf("text position = (%d, %d), want (50, 50)", x, y)
	}
	if got := cfg.GetFontSize(); got != 40.0 {
		t.Errorf("font size = %v, want 40", got)
	}
	if got := cfg.GetCoverRatio(); got != 0.5 {
		t.Errorf("cover ratio = %v, want 0.5", got)
	}
	if got := cfg.GetPaletteSize(); got != 4 {
		t.Errorf("palette size = %d, want 4", got)
	}
	if got := cfg.GetPollInterval(); got != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s", got)
	}
	if got := cfg.GetDisplaySpec(); got != "" {
		t.Errorf("display spec = %q, want autodetect", got)
	}
	if got := cfg.GetRefreshCommand(); got != "" {
		t.Errorf("refresh command = %q, want none", got)
	}
	if got := cfg.GetFontPath(); got != "" {
		t.Errorf("font path = %q, want bundled default", got)
	}
}

func TestNewAppConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACKFRAME_SOURCE", "mpris")
	t.Setenv("TRACKFRAME_OUTPUT_DIR", "/var/cache/trackframe")
	t.Setenv("TRACKFRAME_DISPLAY", "1920x1080")
	t.Setenv("TRACKFRAME_TEXT_X", "20")
	t.Setenv("TRACKFRAME_TEXT_Y", "350")
	t.Setenv("TRACKFRAME_FONT", "/usr/share/fonts/custom.ttf")
	t.Setenv("TRACKFRAME_FONT_SIZE", "28.5")
	t.Setenv("TRACKFRAME_COVER_RATIO", "0.75")
	t.Setenv("TRACKFRAME_PALETTE_SIZE", "6")
	t.Setenv("TRACKFRAME_POLL_INTERVAL", "2s")
	t.Setenv("TRACKFRAME_REFRESH_CMD", "pkill -USR1 fbi")

	cfg := NewAppConfig(zap.NewNop())

	if got := cfg.GetSource(); got != "mpris" {
		t.Errorf("source = %q", got)
	}
	if got := cfg.GetOutputPath(); got != "/var/cache/trackframe/finalImage.png" {
		t.Errorf("output path = %q", got)
	}
	if got := cfg.GetDisplaySpec(); got != "1920x1080" {
		t.Errorf("display spec = %q", got)
	}
	if x, y := cfg.GetTextPosition(); x != 20 || y != 350 {
		t.Errorf("text position = (%d, %d)", x, y)
	}
	if got := cfg.GetFontPath(); got != "/usr/share/fonts/custom.ttf" {
		t.Errorf("font path = %q", got)
	}
	if got := cfg.GetFontSize(); got != 28.5 {
		t.Errorf("font size = %v", got)
	}
	if got := cfg.GetCoverRatio(); got != 0.75 {
		t.Errorf("cover ratio = %v", got)
	}
	if got := cfg.GetPaletteSize(); got != 6 {
		t.Errorf("palette size = %d", got)
	}
	if got := cfg.GetPollInterval(); got != 2*time.Second {
		t.Errorf("poll interval = %v", got)
	}
	if got := cfg.GetRefreshCommand(); got != "pkill -USR1 fbi" {
		t.Errorf("refresh command = %q", got)
	}
}

func TestNewAppConfig_SpotifyCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "id-123")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret-456")
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "refresh-789")

	id, secret, refresh := NewAppConfig(zap.NewNop()).SpotifyCredentials()
	if id != "id-123" || secret != "secret-456" || refresh != "refresh-789" {
		t.Errorf("credentials = (%q, %q, %q)", id, secret, refresh)
	}
}

func TestNewAppConfig_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACKFRAME_TEXT_X", "not-a-number")
	t.Setenv("TRACKFRAME_FONT_SIZE", "huge")
	t.Setenv("TRACKFRAME_POLL_INTERVAL", "sometimes")

	cfg := NewAppConfig(zap.NewNop())

	if x, _ := cfg.GetTextPosition(); x != 50 {
		t.Errorf("text x = %d, want default 50", x)
	}
	if got := cfg.GetFontSize(); got != 40.0 {
		t.Errorf("font size = %v, want default 40", got)
	}
	if got := cfg.GetPollInterval(); got != 5*time.Second {
		t.Errorf("poll interval = %v, want default 5s", got)
	}
}

func TestNewAppConfig_TildeExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACKFRAME_OUTPUT_DIR", "~/frames")

	cfg := NewAppConfig(zap.NewNop())

	path := cfg.GetOutputPath()
	if len(path) == 0 || path[0] == '~' {
		t.Errorf("tilde not expanded: %q", path)
	}
	if filepath.Base(filepath.Dir(path)) != "frames" {
		t.Errorf("output path = %q, want .../frames/finalImage.png", path)
	}
}
