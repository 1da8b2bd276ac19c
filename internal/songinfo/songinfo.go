// Package songinfo builds scrobble songs from local audio files.
package songinfo

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".wav":  true,
	".opus": true,
}

// Supported reports whether path has a known audio extension.
func Supported(path string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(path))]
}

// FromFile reads the tags of the file at path. Missing tags fall back to the
// file name for the title and the parent directory for the album.
func FromFile(path string) (scrobble.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return scrobble.Song{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var song scrobble.Song
	if meta, err := tag.ReadFrom(f); err == nil {
		song.Artist = strings.TrimSpace(meta.Artist())
		song.AlbumArtist = strings.TrimSpace(meta.AlbumArtist())
		song.Album = strings.TrimSpace(meta.Album())
		song.Track = strings.TrimSpace(meta.Title())
		song.TrackNumber, _ = meta.Track()
	}

	if song.Artist == "" {
		song.Artist = song.AlbumArtist
	}
	if song.Artist == "" {
		song.Artist = UnknownArtist
	}
	if song.Album == "" {
		song.Album = filepath.Base(filepath.Dir(path))
		if song.Album == "." || song.Album == "/" {
			song.Album = UnknownAlbum
		}
	}
	if song.Track == "" {
		song.Track = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if abs, err := filepath.Abs(path); err == nil {
		song.OriginURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return song, nil
}

// FromFiles reads every path in order, failing on the first unreadable file.
func FromFiles(paths []string) ([]scrobble.Song, error) {
	songs := make([]scrobble.Song, 0, len(paths))
	for _, p := range paths {
		song, err := FromFile(p)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, nil
}
