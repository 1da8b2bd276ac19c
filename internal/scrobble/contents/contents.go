// Package contents archives scrobble events as JSON files written to remote
// content repositories through a PUT "contents" API.
package contents

import (
	"context"
	"time"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

// SessionKey is the sentinel session handed out when destinations exist.
const SessionKey = "contents"

// Config holds contents scrobbler configuration.
type Config struct {
	Destinations Destinations
	Dispatcher   DispatcherConfig
	// Now defaults to time.Now.
	Now func() time.Time
}

// Scrobbler implements scrobble.Scrobbler by archiving events to every destination.
type Scrobbler struct {
	id           string
	destinations Destinations
	dispatcher   *Dispatcher
	now          func() time.Time
}

var _ scrobble.Scrobbler = (*Scrobbler)(nil)

// New creates a contents scrobbler. The destination set is copied and never changes.
func New(id string, cfg Config) *Scrobbler {
	if id == "" {
		id = "contents"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scrobbler{
		id:           id,
		destinations: cfg.Destinations.Clone(),
		dispatcher:   NewDispatcher(cfg.Dispatcher),
		now:          now,
	}
}

func (s *Scrobbler) ID() string   { return s.id }
func (s *Scrobbler) Name() string { return "Repository contents" }

func (s *Scrobbler) IsEnabled() bool {
	return !s.destinations.IsEmpty()
}

// Destinations returns a copy of the configured destinations.
func (s *Scrobbler) Destinations() Destinations {
	return s.destinations.Clone()
}

// Session only checks that destinations exist; there is nothing to negotiate.
func (s *Scrobbler) Session(ctx context.Context) (scrobble.Session, error) {
	if s.destinations.IsEmpty() {
		return scrobble.Session{}, scrobble.ErrAuthMissing
	}
	return scrobble.Session{Key: SessionKey, Name: s.id}, nil
}

func (s *Scrobbler) AuthURL() string           { return "" }
func (s *Scrobbler) ReadyForGrantAccess() bool { return false }
func (s *Scrobbler) ProfileURL() string        { return "" }

func (s *Scrobbler) NowPlaying(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	return s.send(ctx, scrobble.EventNowPlaying, scrobble.SongPayload(song))
}

func (s *Scrobbler) Paused(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	return s.send(ctx, scrobble.EventPaused, scrobble.SongPayload(song))
}

func (s *Scrobbler) Resumed(ctx context.Context, song scrobble.Song) scrobble.Outcome {
	return s.send(ctx, scrobble.EventResumed, scrobble.SongPayload(song))
}

// Scrobble writes all songs as one event; every song shares that write's outcome.
func (s *Scrobbler) Scrobble(ctx context.Context, songs []scrobble.Song, currentlyPlaying bool) []scrobble.Outcome {
	if len(songs) == 0 {
		return []scrobble.Outcome{}
	}
	outcome := s.send(ctx, scrobble.EventScrobble, scrobble.ScrobblePayload(songs, currentlyPlaying))
	return scrobble.Replicate(outcome, len(songs))
}

func (s *Scrobbler) ToggleLove(ctx context.Context, song scrobble.Song, loved bool) scrobble.Outcome {
	return s.send(ctx, scrobble.EventToggleLove, scrobble.LovePayload(song, loved))
}

func (s *Scrobbler) send(ctx context.Context, name string, payload scrobble.Payload) scrobble.Outcome {
	if s.destinations.IsEmpty() {
		return scrobble.OutcomeAuthMissing
	}
	return s.dispatcher.Dispatch(ctx, scrobble.NewEvent(name, s.now(), payload), s.destinations)
}
