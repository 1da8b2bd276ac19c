package scrobble

import "time"

// Event names written by every scrobbler family.
const (
	EventNowPlaying = "nowplaying"
	EventPaused     = "paused"
	EventResumed    = "resumedplaying"
	EventScrobble   = "scrobble"
	EventToggleLove = "togglelove"
)

// Song represents a track for scrobbling.
type Song struct {
	Artist      string `json:"artist"`
	Track       string `json:"track"`
	Album       string `json:"album,omitempty"`
	AlbumArtist string `json:"albumArtist,omitempty"`
	// Duration in seconds, 0 when unknown.
	Duration    int    `json:"duration,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	OriginURL   string `json:"originUrl,omitempty"`
	// StartedAt is the epoch millis the song started playing.
	StartedAt int64 `json:"startTimestamp,omitempty"`
}

// Payload carries the event-specific data. Absent fields are omitted on the wire.
type Payload struct {
	Song             *Song  `json:"song,omitempty"`
	Songs            []Song `json:"songs,omitempty"`
	IsLoved          *bool  `json:"isLoved,omitempty"`
	CurrentlyPlaying *bool  `json:"currentlyPlaying,omitempty"`
}

// Event is a named, timestamped playback-state change.
type Event struct {
	Name      string  `json:"name"`
	Timestamp int64   `json:"timestamp"`
	Payload   Payload `json:"payload"`
}

// NewEvent builds an event stamped with at.
func NewEvent(name string, at time.Time, payload Payload) Event {
	return Event{Name: name, Timestamp: at.UnixMilli(), Payload: payload}
}

// Time returns the event timestamp as a UTC time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// Outcome is the aggregate result of one scrobbler operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeAuthMissing
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthMissing:
		return "auth_missing"
	case OutcomeFailed:
		return "transport_or_status_error"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{OutcomeOK, OutcomeAuthMissing, OutcomeFailed} {
		if o.String() == s {
			return o, true
		}
	}
	return OutcomeFailed, false
}

// Replicate returns n copies of o. Batched writes share one fate.
func Replicate(o Outcome, n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = o
	}
	return out
}

// Session identifies an authenticated scrobbler session.
type Session struct {
	Key  string
	Name string
}

func boolPtr(v bool) *bool { return &v }

// SongPayload is the payload for single-song events.
func SongPayload(song Song) Payload {
	return Payload{Song: &song}
}

// ScrobblePayload carries the first song plus the full list so consumers that
// expect a singular "song" field keep working.
func ScrobblePayload(songs []Song, currentlyPlaying bool) Payload {
	p := Payload{
		Songs:            append([]Song(nil), songs...),
		CurrentlyPlaying: boolPtr(currentlyPlaying),
	}
	if len(songs) > 0 {
		first := songs[0]
		p.Song = &first
	}
	return p
}

// LovePayload carries the song and its loved flag.
func LovePayload(song Song, loved bool) Payload {
	return Payload{Song: &song, IsLoved: boolPtr(loved)}
}
