package contents

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

func TestBuildRequestRoundTrip(t *testing.T) {
	songs := []scrobble.Song{
		{Artist: "Boards of Canada", Track: "Roygbiv", Album: "Music Has the Right to Children", Duration: 151},
		{Artist: "Aphex Twin", Track: "Xtal", Duration: 294, StartedAt: 1699999990000},
	}
	event := scrobble.Event{
		Name:      scrobble.EventScrobble,
		Timestamp: 1700000000000,
		Payload:   scrobble.ScrobblePayload(songs, true),
	}

	body, err := BuildRequest(event, DefaultCommitter())
	require.NoError(t, err)

	var decoded requestBody
	require.NoError(t, sonic.Unmarshal(body, &decoded))

	assert.Equal(t, "scrobble at 1700000000000", decoded.Message)
	assert.Equal(t, DefaultCommitter(), decoded.Committer)

	got, err := DecodeContent(decoded.Content)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestBuildRequestLovePayload(t *testing.T) {
	event := scrobble.Event{
		Name:      scrobble.EventToggleLove,
		Timestamp: 42,
		Payload:   scrobble.LovePayload(scrobble.Song{Artist: "Low", Track: "Words"}, false),
	}

	body, err := BuildRequest(event, Committer{Name: "bot", Email: "bot@example.com"})
	require.NoError(t, err)

	var decoded requestBody
	require.NoError(t, sonic.Unmarshal(body, &decoded))
	assert.Equal(t, "bot", decoded.Committer.Name)

	got, err := DecodeContent(decoded.Content)
	require.NoError(t, err)
	require.NotNil(t, got.Payload.IsLoved)
	assert.False(t, *got.Payload.IsLoved)
	assert.Nil(t, got.Payload.CurrentlyPlaying)
	assert.Equal(t, event, got)
}

func TestDecodeContentRejectsGarbage(t *testing.T) {
	_, err := DecodeContent("not base64!")
	assert.Error(t, err)
}
