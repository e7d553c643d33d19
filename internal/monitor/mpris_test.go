package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
	"github.com/davoli/trackframe/internal/monitor/mocks"
)

func TestScanPlayers(t *testing.T) {
	player := "org.mpris.MediaPlayer2.spotify"
	metaProp := playerInterface + ".Metadata"
	statusProp := playerInterface + ".PlaybackStatus"

	tests := []struct {
		name          string
		setupMock     func(*mocks.MockBusClient)
		expectError   bool
		expectedEvent *domain.TrackUpdate
	}{
		{
			name: "Emits state of a running player",
			setupMock: func(m *mocks.MockBusClient) {
				m.EXPECT().ListNames().Return([]string{
					"org.freedesktop.DBus",
					player,
					"com.example.OtherApp",
				}, nil)
				m.EXPECT().GetProperty(player, mprisObjectPath, metaProp).
					Return(dbus.MakeVariant(map[string]dbus.Variant{
						"xesam:title":  dbus.MakeVariant("Karma Police"),
						"xesam:artist": dbus.MakeVariant([]string{"Radiohead"}),
						"mpris:artUrl": dbus.MakeVariant("file:///tmp/cover.png"),
					}), nil)
				m.EXPECT().GetProperty(player, mprisObjectPath, statusProp).
					Return(dbus.MakeVariant("Playing"), nil)
			},
			expectedEvent: &domain.TrackUpdate{
				Title:  "Karma Police",
				Artist: "Radiohead",
				ArtURL: "file:///tmp/cover.png",
				Status: domain.StatusPlaying,
			},
		},
		{
			name: "ListNames failure propagates",
			setupMock: func(m *mocks.MockBusClient) {
				m.EXPECT().ListNames().Return(nil, fmt.Errorf("bus gone"))
			},
			expectError: true,
		},
		{
			name: "Non-map metadata skipped quietly",
			setupMock: func(m *mocks.MockBusClient) {
				m.EXPECT().ListNames().Return([]string{player}, nil)
				m.EXPECT().GetProperty(player, mprisObjectPath, metaProp).
					Return(dbus.MakeVariant(42), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockBus := mocks.NewMockBusClient(ctrl)
			tt.setupMock(mockBus)

			src := NewMprisSource(zap.NewNop())
			src.conn = mockBus

			err := src.scanPlayers()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			select {
			case event := <-src.Events():
				if tt.expectedEvent == nil {
					t.Errorf("unexpected event: %+v", event)
					return
				}
				if event.Title != tt.expectedEvent.Title ||
					event.Artist != tt.expectedEvent.Artist ||
					event.ArtURL != tt.expectedEvent.ArtURL ||
					event.Status != tt.expectedEvent.Status {
					t.Errorf("event %+v, want %+v", event, *tt.expectedEvent)
				}
			default:
				if tt.expectedEvent != nil {
					t.Error("expected event was not emitted")
				}
			}
		})
	}
}

func TestHandleSignal(t *testing.T) {
	src := NewMprisSource(zap.NewNop())

	signal := &dbus.Signal{
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Sender: ":1.42",
		Body: []interface{}{
			playerInterface,
			map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:title":  dbus.MakeVariant("Reckoner"),
					"xesam:artist": dbus.MakeVariant([]string{"Radiohead"}),
					"mpris:length": dbus.MakeVariant(int64(290_000_000)),
				}),
				"PlaybackStatus": dbus.MakeVariant("Playing"),
			},
			[]string{},
		},
	}

	src.handleSignal(signal)

	select {
	case event := <-src.Events():
		if event.Title != "Reckoner" || event.Artist != "Radiohead" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event.DurationMS != 290_000 {
			t.Errorf("duration = %d ms, want 290000", event.DurationMS)
		}
		if event.Status != domain.StatusPlaying {
			t.Errorf("status = %v, want Playing", event.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no event emitted")
	}
}

func TestHandleSignal_Ignored(t *testing.T) {
	src := NewMprisSource(zap.NewNop())

	signals := []*dbus.Signal{
		// Wrong signal name
		{Name: "org.freedesktop.DBus.NameOwnerChanged", Body: []interface{}{"a", "b", "c"}},
		// Wrong interface
		{
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: []interface{}{"org.mpris.MediaPlayer2", map[string]dbus.Variant{}, []string{}},
		},
		// No relevant properties
		{
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: []interface{}{playerInterface, map[string]dbus.Variant{
				"Volume": dbus.MakeVariant(0.5),
			}, []string{}},
		},
		// Truncated body
		{Name: "org.freedesktop.DBus.Properties.PropertiesChanged", Body: []interface{}{playerInterface}},
	}

	for _, sig := range signals {
		src.handleSignal(sig)
	}

	select {
	case event := <-src.Events():
		t.Errorf("unexpected event: %+v", event)
	default:
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]dbus.Variant
		status   string
		expected domain.TrackUpdate
	}{
		{
			name:     "Nil metadata yields status only",
			metadata: nil,
			status:   "Paused",
			expected: domain.TrackUpdate{Status: domain.StatusPaused},
		},
		{
			name: "Artist as plain string",
			metadata: map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Nude"),
				"xesam:artist": dbus.MakeVariant("Radiohead"),
			},
			status:   "Playing",
			expected: domain.TrackUpdate{Title: "Nude", Artist: "Radiohead", Status: domain.StatusPlaying},
		},
		{
			name: "Track id from object path",
			metadata: map[string]dbus.Variant{
				"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/mpris/track/1")),
			},
			status:   "Stopped",
			expected: domain.TrackUpdate{SongID: "/org/mpris/track/1", Status: domain.StatusStopped},
		},
		{
			name:     "Unknown status maps to stopped",
			metadata: map[string]dbus.Variant{},
			status:   "Buffering",
			expected: domain.TrackUpdate{Status: domain.StatusStopped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMetadata(tt.metadata, tt.status)
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}
