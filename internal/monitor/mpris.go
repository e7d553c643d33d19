// Package monitor provides the MPRIS-based local track source and display
// size detection.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisObjectPath = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// MprisSource emits track updates from local media players over D-Bus.
type MprisSource struct {
	logger *zap.Logger
	events chan domain.TrackUpdate

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	conn    BusClient
	wg      sync.WaitGroup
}

// NewMprisSource creates an MPRIS-backed track source.
func NewMprisSource(logger *zap.Logger) *MprisSource {
	return &MprisSource{
		logger: logger,
		events: make(chan domain.TrackUpdate, 10),
	}
}

// Start connects to the session bus, emits the state of any player already
// running, then relays PropertiesChanged signals. It blocks until the
// context is cancelled.
func (m *MprisSource) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	busCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	conn, err := newSessionBusClient()
	if err != nil {
		m.mu.Lock()
		m.running = false
		m.cancel = nil
		m.mu.Unlock()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	if err := m.scanPlayers(); err != nil {
		m.logger.Warn("Initial player scan failed", zap.Error(err))
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisObjectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	m.logger.Info("MPRIS source started")

	m.wg.Add(1)
	go m.relaySignals(busCtx)

	<-busCtx.Done()
	return busCtx.Err()
}

// Stop cancels signal relaying, closes the events channel and the bus
// connection.
func (m *MprisSource) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	// All producers must exit before the channel closes
	m.wg.Wait()
	close(m.events)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.logger.Warn("Failed to close bus connection", zap.Error(err))
		}
	}
	m.logger.Info("MPRIS source stopped")
	return nil
}

// Events returns the track update channel
func (m *MprisSource) Events() <-chan domain.TrackUpdate {
	return m.events
}

// scanPlayers emits the current state of every MPRIS player on the bus.
func (m *MprisSource) scanPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	found := 0
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		found++
		if err := m.emitPlayerState(name); err != nil {
			m.logger.Warn("Failed to read player state",
				zap.String("player", name), zap.Error(err))
		}
	}
	m.logger.Info("Player scan complete", zap.Int("players", found))
	return nil
}

// emitPlayerState reads a player's metadata and playback status and emits a
// track update.
func (m *MprisSource) emitPlayerState(player string) error {
	metaVariant, err := m.conn.GetProperty(player, mprisObjectPath, playerInterface+".Metadata")
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}
	metadata, ok := metaVariant.Value().(map[string]dbus.Variant)
	if !ok {
		// Players report odd metadata types when idle; skip quietly
		m.logger.Debug("Metadata is not a map, skipping", zap.String("player", player))
		return nil
	}

	statusVariant, err := m.conn.GetProperty(player, mprisObjectPath, playerInterface+".PlaybackStatus")
	if err != nil {
		return fmt.Errorf("failed to get playback status: %w", err)
	}
	status, _ := statusVariant.Value().(string)

	m.emit(parseMetadata(metadata, status))
	return nil
}

// relaySignals forwards PropertiesChanged signals as track updates.
func (m *MprisSource) relaySignals(ctx context.Context) {
	defer m.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	m.conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			m.handleSignal(sig)
		}
	}
}

func (m *MprisSource) handleSignal(sig *dbus.Signal) {
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" || len(sig.Body) < 2 {
		return
	}
	iface, ok := sig.Body[0].(string)
	if !ok || iface != playerInterface {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	metaVariant, hasMetadata := changed["Metadata"]
	statusVariant, hasStatus := changed["PlaybackStatus"]
	if !hasMetadata && !hasStatus {
		return
	}

	var metadata map[string]dbus.Variant
	if hasMetadata {
		if metadata, ok = metaVariant.Value().(map[string]dbus.Variant); !ok {
			m.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
	} else {
		// Status-only change: fetch the metadata it refers to
		if v, err := m.conn.GetProperty(sig.Sender, mprisObjectPath, playerInterface+".Metadata"); err == nil {
			metadata, _ = v.Value().(map[string]dbus.Variant)
		}
	}

	var status string
	if hasStatus {
		if status, ok = statusVariant.Value().(string); !ok {
			m.logger.Warn("Invalid playback status in signal, ignoring")
			return
		}
	} else {
		if v, err := m.conn.GetProperty(sig.Sender, mprisObjectPath, playerInterface+".PlaybackStatus"); err == nil {
			status, _ = v.Value().(string)
		}
	}

	m.emit(parseMetadata(metadata, status))
}

func (m *MprisSource) emit(update domain.TrackUpdate) {
	select {
	case m.events <- update:
		m.logger.Info("Track change detected",
			zap.String("title", update.Title),
			zap.String("artist", update.Artist),
			zap.String("status", string(update.Status)))
	default:
		m.logger.Warn("Events channel full, dropping track update")
	}
}

// parseMetadata converts MPRIS metadata into a track update.
func parseMetadata(metadata map[string]dbus.Variant, status string) domain.TrackUpdate {
	var update domain.TrackUpdate

	switch status {
	case "Playing":
		update.Status = domain.StatusPlaying
	case "Paused":
		update.Status = domain.StatusPaused
	default:
		update.Status = domain.StatusStopped
	}

	if metadata == nil {
		return update
	}

	if v, ok := metadata["xesam:title"]; ok {
		if title, ok := v.Value().(string); ok {
			update.Title = title
		}
	}
	if v, ok := metadata["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				update.Artist = artists[0]
			}
		case string:
			update.Artist = artists
		}
	}
	if v, ok := metadata["mpris:trackid"]; ok {
		switch id := v.Value().(type) {
		case dbus.ObjectPath:
			update.SongID = string(id)
		case string:
			update.SongID = id
		}
	}
	if v, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := v.Value().(string); ok {
			update.ArtURL = artURL
		}
	}
	if v, ok := metadata["mpris:length"]; ok {
		// Length is reported in microseconds
		switch length := v.Value().(type) {
		case int64:
			update.DurationMS = int(length / 1000)
		case uint64:
			update.DurationMS = int(length / 1000)
		}
	}

	return update
}
