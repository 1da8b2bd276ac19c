package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrobstash/scrobstash/internal/scrobble"
	"github.com/scrobstash/scrobstash/internal/scrobble/contents"
	"github.com/scrobstash/scrobstash/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and scrobbler readiness",
	Long:  `Check the configuration without sending any event.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, a.theme.Title.Render("scrobstash doctor"))
		fmt.Fprintf(out, "Config file: %s\n", a.cfgPath)
		if a.journal != nil {
			fmt.Fprintln(out, "Journal: "+a.theme.Success.Render("OK"))
		} else if a.cfg.Journal.Enabled {
			fmt.Fprintln(out, "Journal: "+a.theme.Error.Render("UNAVAILABLE"))
		} else {
			fmt.Fprintln(out, "Journal: "+a.theme.Dim.Render("disabled"))
		}

		ctx, cancel := a.cfg.DeadlineContext()
		defer cancel()

		var rows []ui.StatusRow
		for _, s := range a.manager.Scrobblers() {
			rows = append(rows, ui.StatusRow{
				ID:      s.ID(),
				Name:    s.Name(),
				Enabled: s.IsEnabled(),
				Detail:  scrobblerDetail(ctx, s),
			})
		}
		if len(rows) == 0 {
			fmt.Fprintln(out, a.theme.Warning.Render("No enabled scrobblers configured"))
			return nil
		}
		fmt.Fprintln(out, ui.StatusTable(a.theme, rows))
		return nil
	},
}

func scrobblerDetail(ctx context.Context, s scrobble.Scrobbler) string {
	if c, ok := s.(*contents.Scrobbler); ok {
		var locators []string
		for _, d := range c.Destinations() {
			locators = append(locators, d.Locator())
		}
		if len(locators) == 0 {
			return "no destinations"
		}
		return strings.Join(locators, ", ")
	}
	if _, err := s.Session(ctx); err != nil {
		if scrobble.IsAuthMissing(err) && s.ReadyForGrantAccess() {
			return "not authorized, run: scrobstash session"
		}
		return err.Error()
	}
	if url := s.ProfileURL(); url != "" {
		return url
	}
	return "authorized"
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
