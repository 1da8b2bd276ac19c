package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/scrobstash/scrobstash/internal/journal"
	"github.com/scrobstash/scrobstash/internal/scrobble"
)

// StatusRow describes one configured scrobbler for the doctor command.
type StatusRow struct {
	ID      string
	Name    string
	Enabled bool
	Detail  string
}

// SongLabel renders "Artist - Track".
func SongLabel(s scrobble.Song) string {
	switch {
	case s.Artist == "":
		return s.Track
	case s.Track == "":
		return s.Artist
	default:
		return s.Artist + " - " + s.Track
	}
}

func songsLabel(songs []scrobble.Song) string {
	switch len(songs) {
	case 0:
		return "-"
	case 1:
		return SongLabel(songs[0])
	default:
		return fmt.Sprintf("%s (+%d)", SongLabel(songs[0]), len(songs)-1)
	}
}

func (t Theme) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.Border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func (t Theme) outcomes(outcomes []scrobble.Outcome) string {
	if len(outcomes) == 0 {
		return t.Dim.Render("-")
	}
	parts := make([]string, len(outcomes))
	for i, o := range outcomes {
		parts[i] = t.OutcomeStyle(o).Render(o.String())
	}
	return strings.Join(parts, ", ")
}

// ReportTable renders one row per scrobbler report.
func ReportTable(t Theme, reports []scrobble.Report) string {
	if len(reports) == 0 {
		return t.Warning.Render("no scrobblers registered")
	}
	tbl := t.table("Scrobbler", "Event", "Songs", "Outcome")
	for _, r := range reports {
		tbl.Row(r.ScrobblerID, r.Event, songsLabel(r.Songs), t.outcomes(r.Outcomes))
	}
	return tbl.String()
}

// HistoryTable renders journal entries.
func HistoryTable(t Theme, entries []journal.Entry) string {
	if len(entries) == 0 {
		return t.Dim.Render("journal is empty")
	}
	tbl := t.table("When", "Scrobbler", "Event", "Songs", "Outcome")
	for _, e := range entries {
		tbl.Row(
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.ScrobblerID,
			e.Event,
			songsLabel(e.Songs),
			t.OutcomeStyle(e.Outcome).Render(e.Outcome.String()),
		)
	}
	return tbl.String()
}

// StatusTable renders the configured scrobblers.
func StatusTable(t Theme, rows []StatusRow) string {
	tbl := t.table("ID", "Name", "Enabled", "Detail")
	for _, r := range rows {
		enabled := t.Warning.Render(strconv.FormatBool(r.Enabled))
		if r.Enabled {
			enabled = t.Success.Render(strconv.FormatBool(r.Enabled))
		}
		tbl.Row(r.ID, r.Name, enabled, r.Detail)
	}
	return tbl.String()
}
