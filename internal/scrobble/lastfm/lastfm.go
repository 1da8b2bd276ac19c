package lastfm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

const (
	DefaultAPIURL = "https://ws.audioscrobbler.com/2.0/"
	authURL       = "https://www.last.fm/api/auth/"
	profileURL    = "https://www.last.fm/user/"

	// track.scrobble accepts at most 50 tracks per request
	maxBatch = 50
)

// Config holds Last.fm scrobbler configuration.
type Config struct {
	APIKey     string
	APISecret  string
	SessionKey string
	Username   string
	APIURL     string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Now        func() time.Time
}

// Scrobbler implements scrobble.Scrobbler for Last.fm.
type Scrobbler struct {
	id         string
	apiKey     string
	apiSecret  string
	sessionKey string
	username   string
	apiURL     string
	client     *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ scrobble.Scrobbler = (*Scrobbler)(nil)

// New creates a new Last.fm scrobbler.
func New(id string, cfg Config) *Scrobbler {
	if id == "" {
		id = "lastfm"
	}
	s := &Scrobbler{
		id:         id,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		sessionKey: cfg.SessionKey,
		username:   cfg.Username,
		apiURL:     cfg.APIURL,
		client:     cfg.HTTPClient,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if s.apiURL == "" {
		s.apiURL = DefaultAPIURL
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 10 * time.Second}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Scrobbler) ID() string   { return s.id }
func (s *Scrobbler) Name() string { return "Last.fm" }

func (s *Scrobbler) IsEnabled() bool {
	return s.ReadyForGrantAccess() && s.sessionKey != ""
}

func (s *Scrobbler) Session(ctx context.Context) (scrobble.Session, error) {
	if !s.IsEnabled() {
		return scrobble.Session{}, scrobble.ErrAuthMissing
	}
	return scrobble.Session{Key: s.sessionKey, Name: s.username}, nil
}

// AuthURL is where a user grants this API key access to their account.
func (s *Scrobbler) AuthURL() string {
	if s.apiKey == "" {
		return ""
	}
	return authURL + "?api_key=" + url.QueryEscape(s.apiKey)
}

func (s *Scrobbler) ReadyForGrantAccess() bool {
	return s.apiKey != "" && s.apiSecret != ""
}

func (s *Scrobbler) ProfileURL() string {
	if s.username == "" {
		return ""
	}
	return profileURL + url.PathEscape(s.username)
}

func (s *Scrobbler) NowPlaying(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	params := map[string]string{
		"method": "track.updateNowPlaying",
		"track":  song.Track,
		"artist": song.Artist,
	}
	addOptional(params, "", song)
	return s.call(ctx, scrobble.EventNowPlaying, params)
}

// Paused has no Last.fm counterpart; only the session is checked.
func (s *Scrobbler) Paused(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	return s.local(scrobble.EventPaused)
}

// Resumed has no Last.fm counterpart; only the session is checked.
func (s *Scrobbler) Resumed(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	return s.local(scrobble.EventResumed)
}

// Scrobble submits songs in batches of 50. Each song gets its batch's outcome.
func (s *Scrobbler) Scrobble(ctx context.Context, songs []scrobble.Song, currentlyPlaying bool) []scrobble.Outcome {
	outcomes := make([]scrobble.Outcome, 0, len(songs))
	for start := 0; start < len(songs); start += maxBatch {
		end := min(start+maxBatch, len(songs))
		batch := songs[start:end]

		params := map[string]string{"method": "track.scrobble"}
		for i, song := range batch {
			suffix := "[" + strconv.Itoa(i) + "]"
			params["track"+suffix] = song.Track
			params["artist"+suffix] = song.Artist
			params["timestamp"+suffix] = strconv.FormatInt(s.startedAt(song), 10)
			addOptional(params, suffix, song)
		}
		outcomes = append(outcomes, scrobble.Replicate(s.call(ctx, scrobble.EventScrobble, params), len(batch))...)
	}
	return outcomes
}

func (s *Scrobbler) ToggleLove(ctx context.Context, song scrobble.Song, loved bool) scrobble.Outcome {
	method := "track.unlove"
	if loved {
		method = "track.love"
	}
	return s.call(ctx, scrobble.EventToggleLove, map[string]string{
		"method": method,
		"track":  song.Track,
		"artist": song.Artist,
	})
}

func (s *Scrobbler) local(event string) scrobble.Outcome {
	if !s.IsEnabled() {
		return scrobble.OutcomeAuthMissing
	}
	s.logger.Debug("lastfm event has no remote call", slog.String("event", event))
	return scrobble.OutcomeOK
}

func (s *Scrobbler) call(ctx context.Context, event string, params map[string]string) scrobble.Outcome {
	if !s.IsEnabled() {
		return scrobble.OutcomeAuthMissing
	}
	if err := s.signedPost(ctx, params); err != nil {
		s.logger.Warn("lastfm request failed", slog.String("event", event), slog.String("method", params["method"]), slog.Any("err", err))
		return scrobble.OutcomeFailed
	}
	return scrobble.OutcomeOK
}

// startedAt returns the play start in unix seconds, falling back to now.
func (s *Scrobbler) startedAt(song scrobble.Song) int64 {
	if song.StartedAt > 0 {
		return song.StartedAt / 1000
	}
	return s.now().Unix()
}

func addOptional(params map[string]string, suffix string, song scrobble.Song) {
	if song.Album != "" {
		params["album"+suffix] = song.Album
	}
	if song.AlbumArtist != "" {
		params["albumArtist"+suffix] = song.AlbumArtist
	}
	if song.Duration > 0 {
		params["duration"+suffix] = strconv.Itoa(song.Duration)
	}
	if song.TrackNumber > 0 {
		params["trackNumber"+suffix] = strconv.Itoa(song.TrackNumber)
	}
}

func (s *Scrobbler) signedPost(ctx context.Context, params map[string]string) error {
	params["api_key"] = s.apiKey
	params["sk"] = s.sessionKey
	params["api_sig"] = s.sign(params)
	params["format"] = "json"

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build lastfm request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return scrobble.ErrUnauthorized
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return scrobble.ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("lastfm error: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "read lastfm response")
	}
	var result struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(raw, &result); err == nil && result.Error != 0 {
		switch result.Error {
		case 9:
			return errors.Wrapf(scrobble.ErrUnauthorized, "lastfm error %d: %s", result.Error, result.Message)
		case 29:
			return errors.Wrapf(scrobble.ErrRateLimited, "lastfm error %d: %s", result.Error, result.Message)
		}
		return errors.Newf("lastfm error %d: %s", result.Error, result.Message)
	}

	return nil
}

func (s *Scrobbler) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "format" && k != "api_sig" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sig strings.Builder
	for _, k := range keys {
		sig.WriteString(k)
		sig.WriteString(params[k])
	}
	sig.WriteString(s.apiSecret)

	hash := md5.Sum([]byte(sig.String()))
	return hex.EncodeToString(hash[:])
}
