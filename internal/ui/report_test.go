package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scrobstash/scrobstash/internal/journal"
	"github.com/scrobstash/scrobstash/internal/scrobble"
)

func TestSongLabel(t *testing.T) {
	assert.Equal(t, "Can - Vitamin C", SongLabel(scrobble.Song{Artist: "Can", Track: "Vitamin C"}))
	assert.Equal(t, "Vitamin C", SongLabel(scrobble.Song{Track: "Vitamin C"}))
	assert.Equal(t, "Can", SongLabel(scrobble.Song{Artist: "Can"}))
}

func TestReportTable(t *testing.T) {
	theme := NoColor()
	out := ReportTable(theme, []scrobble.Report{
		{
			ScrobblerID: "archive",
			Event:       scrobble.EventScrobble,
			Songs:       []scrobble.Song{{Artist: "Can", Track: "Mushroom"}, {Artist: "Can", Track: "Oh Yeah"}},
			Outcomes:    []scrobble.Outcome{scrobble.OutcomeOK, scrobble.OutcomeOK},
		},
		{
			ScrobblerID: "lastfm",
			Event:       scrobble.EventScrobble,
			Outcomes:    []scrobble.Outcome{scrobble.OutcomeAuthMissing},
		},
	})

	assert.Contains(t, out, "archive")
	assert.Contains(t, out, "Can - Mushroom (+1)")
	assert.Contains(t, out, "ok, ok")
	assert.Contains(t, out, "auth_missing")

	assert.Contains(t, ReportTable(theme, nil), "no scrobblers registered")
}

func TestHistoryTable(t *testing.T) {
	theme := NoColor()
	out := HistoryTable(theme, []journal.Entry{{
		ScrobblerID: "archive",
		Event:       scrobble.EventToggleLove,
		Songs:       []scrobble.Song{{Artist: "Faust", Track: "Jennifer"}},
		Outcome:     scrobble.OutcomeFailed,
		RecordedAt:  time.Now(),
	}})
	assert.Contains(t, out, "togglelove")
	assert.Contains(t, out, "Faust - Jennifer")
	assert.Contains(t, out, "transport_or_status_error")

	assert.Contains(t, HistoryTable(theme, nil), "journal is empty")
}

func TestStatusTable(t *testing.T) {
	out := StatusTable(NoColor(), []StatusRow{
		{ID: "archive", Name: "Repository contents", Enabled: true, Detail: "alice/scrobbles"},
		{ID: "lastfm", Name: "Last.fm", Detail: "not authorized"},
	})
	assert.Contains(t, out, "alice/scrobbles")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "false")
}
