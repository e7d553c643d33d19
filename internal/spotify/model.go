package spotify

// trackItem mirrors the track object of the Spotify Web API.
type trackItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMs int    `json:"duration_ms"`
	Album      struct {
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

// currentlyPlaying mirrors the currently-playing response. Item is a pointer
// because it is null when nothing is playing.
type currentlyPlaying struct {
	IsPlaying bool       `json:"is_playing"`
	Item      *trackItem `json:"item"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NowPlaying is the track record returned by CurrentTrack.
type NowPlaying struct {
	SongTitle  string
	ArtistName string
	ImageURL   string
	SongID     string
	SongLength int
	Playing    bool
}

// AudioAnalysis holds the subset of the audio-analysis endpoint the display
// cares about.
type AudioAnalysis struct {
	Track    AnalysisTrack     `json:"track"`
	Sections []AnalysisSection `json:"sections"`
}

// AnalysisTrack summarizes the whole track.
type AnalysisTrack struct {
	Duration float64 `json:"duration"`
	Tempo    float64 `json:"tempo"`
	Loudness float64 `json:"loudness"`
	Key      int     `json:"key"`
	Mode     int     `json:"mode"`
}

// AnalysisSection is one contiguous section of the track.
type AnalysisSection struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Tempo    float64 `json:"tempo"`
	Loudness float64 `json:"loudness"`
}
