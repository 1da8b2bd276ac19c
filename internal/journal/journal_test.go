package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	song := scrobble.Song{Artist: "Neu!", Track: "Hallogallo"}
	base := time.UnixMilli(1700000000000)

	require.NoError(t, store.Record(ctx, scrobble.Report{
		ScrobblerID: "archive",
		Event:       scrobble.EventNowPlaying,
		Songs:       []scrobble.Song{song},
		Outcomes:    []scrobble.Outcome{scrobble.OutcomeOK},
		At:          base,
	}))
	require.NoError(t, store.Record(ctx, scrobble.Report{
		ScrobblerID: "archive",
		Event:       scrobble.EventScrobble,
		Songs:       []scrobble.Song{song, song},
		Outcomes:    []scrobble.Outcome{scrobble.OutcomeFailed, scrobble.OutcomeFailed},
		At:          base.Add(time.Minute),
	}))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, scrobble.EventScrobble, entries[0].Event)
	assert.Equal(t, scrobble.OutcomeFailed, entries[0].Outcome)
	assert.Len(t, entries[0].Songs, 2)
	assert.Equal(t, base.Add(time.Minute).UnixMilli(), entries[0].RecordedAt.UnixMilli())
	assert.NotEmpty(t, entries[0].ID)

	assert.Equal(t, scrobble.EventNowPlaying, entries[1].Event)
	assert.Equal(t, []scrobble.Song{song}, entries[1].Songs)

	limited, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, o := range []scrobble.Outcome{scrobble.OutcomeOK, scrobble.OutcomeOK, scrobble.OutcomeAuthMissing} {
		require.NoError(t, store.Record(ctx, scrobble.Report{ScrobblerID: "a", Event: scrobble.EventPaused, Outcomes: []scrobble.Outcome{o}}))
	}

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[scrobble.Outcome]int{scrobble.OutcomeOK: 2, scrobble.OutcomeAuthMissing: 1}, counts)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, scrobble.Report{ScrobblerID: "a", Event: scrobble.EventPaused}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestManagerRecordsIntoJournal(t *testing.T) {
	store := openTestStore(t)
	mgr := scrobble.NewManager(scrobble.WithRecorder(store))

	mgr.NowPlaying(context.Background(), scrobble.Song{Artist: "Cluster", Track: "Hollywood"})

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "no scrobblers registered, nothing to record")
}
