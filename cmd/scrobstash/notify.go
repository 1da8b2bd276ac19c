package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/scrobstash/scrobstash/internal/scrobble"
	"github.com/scrobstash/scrobstash/internal/songinfo"
	"github.com/scrobstash/scrobstash/internal/ui"
)

// songFlags describes a song on the command line.
type songFlags struct {
	artist      string
	track       string
	album       string
	albumArtist string
	duration    int
	trackNumber int
	startedAt   int64
	files       []string
}

func (f *songFlags) register(cmd *cobra.Command, multiFile bool) {
	cmd.Flags().StringVar(&f.artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&f.track, "track", "", "track title")
	cmd.Flags().StringVar(&f.album, "album", "", "album title")
	cmd.Flags().StringVar(&f.albumArtist, "album-artist", "", "album artist")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "duration in seconds")
	cmd.Flags().IntVar(&f.trackNumber, "track-number", 0, "track number")
	cmd.Flags().Int64Var(&f.startedAt, "started-at", 0, "epoch milliseconds the song started")
	usage := "read song tags from an audio file"
	if multiFile {
		usage += " (repeatable)"
	}
	cmd.Flags().StringArrayVar(&f.files, "file", nil, usage)
}

// songs resolves the flags into songs. Explicit flags override file tags.
func (f *songFlags) songs() ([]scrobble.Song, error) {
	if len(f.files) > 0 {
		songs, err := songinfo.FromFiles(f.files)
		if err != nil {
			return nil, err
		}
		for i := range songs {
			f.apply(&songs[i])
		}
		return songs, nil
	}

	var song scrobble.Song
	f.apply(&song)
	if song.Artist == "" || song.Track == "" {
		return nil, errors.New("--artist and --track are required without --file")
	}
	return []scrobble.Song{song}, nil
}

func (f *songFlags) song() (scrobble.Song, error) {
	songs, err := f.songs()
	if err != nil {
		return scrobble.Song{}, err
	}
	if len(songs) > 1 {
		return scrobble.Song{}, errors.New("only one --file is accepted")
	}
	return songs[0], nil
}

func (f *songFlags) apply(s *scrobble.Song) {
	if f.artist != "" {
		s.Artist = f.artist
	}
	if f.track != "" {
		s.Track = f.track
	}
	if f.album != "" {
		s.Album = f.album
	}
	if f.albumArtist != "" {
		s.AlbumArtist = f.albumArtist
	}
	if f.duration > 0 {
		s.Duration = f.duration
	}
	if f.trackNumber > 0 {
		s.TrackNumber = f.trackNumber
	}
	if f.startedAt > 0 {
		s.StartedAt = f.startedAt
	}
}

// songCommand builds a command that sends one song through op.
func songCommand(use, short string, op func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report) *cobra.Command {
	var flags songFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := flags.song()
			if err != nil {
				return err
			}
			return dispatch(cmd, func(ctx context.Context, m *scrobble.Manager) []scrobble.Report {
				return op(ctx, m, song)
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

var scrobbleFlags songFlags
var scrobblePlaying bool

var scrobbleCmd = &cobra.Command{
	Use:   "scrobble",
	Short: "Record one or more played songs",
	Long: `Record played songs with every scrobbler.

Example:
  scrobstash scrobble --artist "Can" --track "Vitamin C"
  scrobstash scrobble --file side-a/01.flac --file side-a/02.flac`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		songs, err := scrobbleFlags.songs()
		if err != nil {
			return err
		}
		return dispatch(cmd, func(ctx context.Context, m *scrobble.Manager) []scrobble.Report {
			return m.Scrobble(ctx, songs, scrobblePlaying)
		})
	},
}

// dispatch runs op against a fully configured manager and prints the reports.
// It fails when any scrobbler did not report ok.
func dispatch(cmd *cobra.Command, op func(ctx context.Context, m *scrobble.Manager) []scrobble.Report) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.cfg.DeadlineContext()
	defer cancel()

	reports := op(ctx, a.manager)
	fmt.Fprintln(cmd.OutOrStdout(), ui.ReportTable(a.theme, reports))

	failed := 0
	for _, r := range reports {
		if r.Outcome() != scrobble.OutcomeOK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scrobblers did not succeed", failed, len(reports))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(songCommand("now-playing", "Announce the song that just started",
		func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report {
			return m.NowPlaying(ctx, song)
		}))
	rootCmd.AddCommand(songCommand("paused", "Report that playback paused",
		func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report {
			return m.Paused(ctx, song)
		}))
	rootCmd.AddCommand(songCommand("resumed", "Report that playback resumed",
		func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report {
			return m.Resumed(ctx, song)
		}))
	rootCmd.AddCommand(songCommand("love", "Mark a song as loved",
		func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report {
			return m.ToggleLove(ctx, song, true)
		}))
	rootCmd.AddCommand(songCommand("unlove", "Remove the loved mark from a song",
		func(ctx context.Context, m *scrobble.Manager, song scrobble.Song) []scrobble.Report {
			return m.ToggleLove(ctx, song, false)
		}))

	scrobbleFlags.register(scrobbleCmd, true)
	scrobbleCmd.Flags().BoolVar(&scrobblePlaying, "playing", false, "playback is still in progress")
	rootCmd.AddCommand(scrobbleCmd)
}
