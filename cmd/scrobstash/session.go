package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

var sessionCmd = &cobra.Command{
	Use:   "session [scrobbler-id]",
	Short: "Show session state and authorization links",
	Long: `Show the session of every scrobbler, or of the one given.

Scrobblers that need authorization print the URL to grant access.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.cfg.DeadlineContext()
		defer cancel()

		out := cmd.OutOrStdout()
		found := false
		for _, s := range a.manager.Scrobblers() {
			if len(args) == 1 && s.ID() != args[0] {
				continue
			}
			found = true

			fmt.Fprintln(out, a.theme.Title.Render(s.Name())+" "+a.theme.Dim.Render("("+s.ID()+")"))
			session, err := s.Session(ctx)
			switch {
			case err == nil:
				name := session.Name
				if name == "" {
					name = "active"
				}
				fmt.Fprintf(out, "  session: %s\n", a.theme.Success.Render(name))
				if url := s.ProfileURL(); url != "" {
					fmt.Fprintf(out, "  profile: %s\n", url)
				}
			case scrobble.IsAuthMissing(err):
				fmt.Fprintf(out, "  session: %s\n", a.theme.Warning.Render("missing"))
				if s.ReadyForGrantAccess() {
					fmt.Fprintf(out, "  grant access: %s\n", a.theme.Accent.Render(s.AuthURL()))
				}
			default:
				fmt.Fprintf(out, "  session: %s\n", a.theme.Error.Render(err.Error()))
			}
		}
		if len(args) == 1 && !found {
			return fmt.Errorf("no enabled scrobbler with id %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
