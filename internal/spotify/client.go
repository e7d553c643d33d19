// Package spotify implements the Spotify Web API collaborator: a thin
// authenticated client plus a polling source feeding the render engine.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIBaseURL  = "https://api.spotify.com/v1"

	maxTries   = 3
	retryDelay = 5 * time.Second
)

// ErrMissingCredentials is returned when the Spotify source is selected but
// no client credentials are configured.
var ErrMissingCredentials = errors.New("spotify: client id, secret and refresh token required")

// Client is an explicit capability holding the long-lived credentials and
// the current access token. It is passed by reference into the poller, never
// held as ambient global state.
type Client struct {
	logger       *zap.Logger
	httpClient   *http.Client
	clientID     string
	clientSecret string
	refreshToken string
	accessToken  string

	// Overridable in tests
	accountsURL string
	apiBaseURL  string
	maxTries    int
	retryDelay  time.Duration
}

// NewClient builds a client from the configured credentials. The access
// token is obtained lazily on the first request.
func NewClient(logger *zap.Logger, cfg domain.Config) (*Client, error) {
	id, secret, refresh := cfg.SpotifyCredentials()
	if id == "" || secret == "" || refresh == "" {
		return nil, ErrMissingCredentials
	}
	return &Client{
		logger:       logger,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		clientID:     id,
		clientSecret: secret,
		refreshToken: refresh,
		accountsURL:  defaultAccountsURL,
		apiBaseURL:   defaultAPIBaseURL,
		maxTries:     maxTries,
		retryDelay:   retryDelay,
	}, nil
}

// Authenticate exchanges the refresh token for a fresh access token.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("token request rejected: %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token response contained no access token")
	}

	c.accessToken = tok.AccessToken
	c.logger.Debug("Spotify access token refreshed", zap.Int("expiresIn", tok.ExpiresIn))
	return nil
}

// CurrentTrack fetches the currently playing track. It retries transient
// failures up to maxTries attempts with a fixed delay. A nil result with a
// nil error means nothing is playing.
func (c *Client) CurrentTrack(ctx context.Context) (*NowPlaying, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxTries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		now, err := c.currentTrackOnce(ctx)
		if err == nil {
			return now, nil
		}
		lastErr = err
		c.logger.Warn("Failed to fetch current track",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxTries, lastErr)
}

func (c *Client) currentTrackOnce(ctx context.Context) (*NowPlaying, error) {
	resp, err := c.get(ctx, "/me/player/currently-playing")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body currentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode currently-playing response: %w", err)
	}
	if body.Item == nil {
		return nil, nil
	}

	now := &NowPlaying{
		SongTitle:  body.Item.Name,
		SongID:     body.Item.ID,
		SongLength: body.Item.DurationMs,
		Playing:    body.IsPlaying,
	}
	if len(body.Item.Album.Artists) > 0 {
		now.ArtistName = body.Item.Album.Artists[0].Name
	}
	if len(body.Item.Album.Images) > 0 {
		now.ImageURL = body.Item.Album.Images[0].URL
	}
	return now, nil
}

// AudioAnalysis fetches the audio analysis of a track.
func (c *Client) AudioAnalysis(ctx context.Context, songID string) (*AudioAnalysis, error) {
	if songID == "" {
		return nil, fmt.Errorf("song id must not be empty")
	}

	resp, err := c.get(ctx, "/audio-analysis/"+songID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var analysis AudioAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode audio analysis: %w", err)
	}
	return &analysis, nil
}

// get performs an authenticated GET, refreshing the access token once on the
// first use or when the previous token has expired.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	if c.accessToken == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.doGet(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		return c.doGet(ctx, path)
	}
	return resp, nil
}

func (c *Client) doGet(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	return resp, nil
}
