package lastfm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

type apiServer struct {
	*httptest.Server
	mu    sync.Mutex
	forms []url.Values
	reply string
}

func newAPIServer(t *testing.T, reply string) *apiServer {
	t.Helper()
	a := &apiServer{reply: reply}
	a.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		a.mu.Lock()
		a.forms = append(a.forms, r.PostForm)
		a.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, a.reply)
	}))
	t.Cleanup(a.Close)
	return a
}

func (a *apiServer) Forms() []url.Values {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]url.Values(nil), a.forms...)
}

func newTestScrobbler(a *apiServer) *Scrobbler {
	return New("test", Config{
		APIKey:     "key",
		APISecret:  "secret",
		SessionKey: "session",
		Username:   "rj",
		APIURL:     a.URL,
		HTTPClient: a.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return time.Unix(1700000000, 0) },
	})
}

var song = scrobble.Song{Artist: "Artist", Track: "Title", Album: "Album", Duration: 180}

func TestNew(t *testing.T) {
	s := New("test", Config{})
	if s.IsEnabled() {
		t.Error("expected disabled without api key")
	}

	s = New("test", Config{APIKey: "key", APISecret: "secret"})
	if s.IsEnabled() {
		t.Error("expected disabled without session key")
	}
	if !s.ReadyForGrantAccess() {
		t.Error("expected ready for grant access with key and secret")
	}

	s = New("test", Config{APIKey: "key", APISecret: "secret", SessionKey: "session"})
	if !s.IsEnabled() {
		t.Error("expected enabled with all keys")
	}
}

func TestDisabledReturnsAuthMissing(t *testing.T) {
	a := newAPIServer(t, `{}`)
	s := New("test", Config{APIURL: a.URL})
	ctx := context.Background()

	_, err := s.Session(ctx)
	assert.True(t, scrobble.IsAuthMissing(err))
	assert.Equal(t, scrobble.OutcomeAuthMissing, s.NowPlaying(ctx, song))
	assert.Equal(t, scrobble.OutcomeAuthMissing, s.Paused(ctx, song))
	assert.Equal(t, scrobble.OutcomeAuthMissing, s.ToggleLove(ctx, song, true))
	assert.Equal(t, []scrobble.Outcome{scrobble.OutcomeAuthMissing}, s.Scrobble(ctx, []scrobble.Song{song}, false))
	assert.Empty(t, a.Forms())
}

func TestURLs(t *testing.T) {
	s := New("test", Config{APIKey: "key", APISecret: "secret", Username: "rj"})
	assert.Equal(t, "https://www.last.fm/api/auth/?api_key=key", s.AuthURL())
	assert.Equal(t, "https://www.last.fm/user/rj", s.ProfileURL())

	s = New("test", Config{})
	assert.Empty(t, s.AuthURL())
	assert.Empty(t, s.ProfileURL())
}

func TestNowPlaying(t *testing.T) {
	a := newAPIServer(t, `{"nowplaying":{}}`)
	s := newTestScrobbler(a)

	require.Equal(t, scrobble.OutcomeOK, s.NowPlaying(context.Background(), song))

	forms := a.Forms()
	require.Len(t, forms, 1)
	assert.Equal(t, "track.updateNowPlaying", forms[0].Get("method"))
	assert.Equal(t, "Title", forms[0].Get("track"))
	assert.Equal(t, "180", forms[0].Get("duration"))
	assert.Equal(t, "session", forms[0].Get("sk"))
	assert.Len(t, forms[0].Get("api_sig"), 32)
}

func TestPausedMakesNoRequest(t *testing.T) {
	a := newAPIServer(t, `{}`)
	s := newTestScrobbler(a)

	assert.Equal(t, scrobble.OutcomeOK, s.Paused(context.Background(), song))
	assert.Equal(t, scrobble.OutcomeOK, s.Resumed(context.Background(), song))
	assert.Empty(t, a.Forms())
}

func TestScrobbleBatches(t *testing.T) {
	a := newAPIServer(t, `{"scrobbles":{}}`)
	s := newTestScrobbler(a)

	songs := make([]scrobble.Song, 60)
	for i := range songs {
		songs[i] = song
	}
	songs[0].StartedAt = 1699999000000

	outcomes := s.Scrobble(context.Background(), songs, false)
	assert.Equal(t, scrobble.Replicate(scrobble.OutcomeOK, 60), outcomes)

	forms := a.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "track.scrobble", forms[0].Get("method"))
	assert.Equal(t, "1699999000", forms[0].Get("timestamp[0]"))
	assert.Equal(t, "1700000000", forms[0].Get("timestamp[1]"))
	assert.NotEmpty(t, forms[0].Get("artist[49]"))
	assert.Empty(t, forms[0].Get("artist[50]"))
	assert.NotEmpty(t, forms[1].Get("artist[9]"))
}

func TestToggleLove(t *testing.T) {
	a := newAPIServer(t, `{}`)
	s := newTestScrobbler(a)

	require.Equal(t, scrobble.OutcomeOK, s.ToggleLove(context.Background(), song, true))
	require.Equal(t, scrobble.OutcomeOK, s.ToggleLove(context.Background(), song, false))

	forms := a.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "track.love", forms[0].Get("method"))
	assert.Equal(t, "track.unlove", forms[1].Get("method"))
}

func TestAPIErrorFails(t *testing.T) {
	a := newAPIServer(t, `{"error":9,"message":"Invalid session key"}`)
	s := newTestScrobbler(a)

	assert.Equal(t, scrobble.OutcomeFailed, s.NowPlaying(context.Background(), song))
}

func TestSignedPostErrors(t *testing.T) {
	a := newAPIServer(t, `{"error":29,"message":"Rate limit exceeded"}`)
	s := newTestScrobbler(a)

	err := s.signedPost(context.Background(), map[string]string{"method": "track.love"})
	assert.True(t, scrobble.IsRateLimited(err))
}

func TestSign(t *testing.T) {
	s := New("test", Config{APIKey: "key", APISecret: "secret", SessionKey: "session"})

	params := map[string]string{
		"method":  "track.scrobble",
		"track":   "Test",
		"artist":  "Artist",
		"api_key": "key",
	}

	sig := s.sign(params)
	if len(sig) != 32 {
		t.Errorf("expected 32 char MD5 hex, got %d", len(sig))
	}

	// Same params should produce same signature
	if sig2 := s.sign(params); sig != sig2 {
		t.Error("expected deterministic signature")
	}

	params["format"] = "json"
	if sig3 := s.sign(params); sig != sig3 {
		t.Error("format must not be signed")
	}
}
