package domain

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// TrackUpdate describes the currently playing track as reported by a Source.
type TrackUpdate struct {
	// Title of the track
	Title string
	// Artist name
	Artist string
	// SongID is the source-specific track identifier, used to detect changes
	SongID string
	// ArtURL is the URL or local path to the album artwork
	ArtURL string
	// DurationMS is the track length in milliseconds, 0 if unknown
	DurationMS int
	// Status is the current playback status
	Status PlayerStatus
}

// DisplaySize holds the target display dimensions in pixels.
type DisplaySize struct {
	Width  int
	Height int
}
