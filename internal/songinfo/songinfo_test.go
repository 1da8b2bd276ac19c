package songinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFileFallsBackToPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Tago Mago")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "Halleluhwah.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0o644))

	song, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Halleluhwah", song.Track)
	assert.Equal(t, "Tago Mago", song.Album)
	assert.Equal(t, UnknownArtist, song.Artist)
	assert.Contains(t, song.OriginURL, "file://")
	assert.Contains(t, song.OriginURL, "Halleluhwah.mp3")
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.flac"))
	assert.Error(t, err)
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ogg")
	b := filepath.Join(dir, "b.ogg")
	require.NoError(t, os.WriteFile(a, nil, 0o644))
	require.NoError(t, os.WriteFile(b, nil, 0o644))

	songs, err := FromFiles([]string{b, a})
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "b", songs[0].Track)
	assert.Equal(t, "a", songs[1].Track)

	_, err = FromFiles([]string{a, filepath.Join(dir, "c.ogg")})
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("x.MP3"))
	assert.True(t, Supported("/music/y.flac"))
	assert.False(t, Supported("notes.txt"))
}
