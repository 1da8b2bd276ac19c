package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/scrobstash/scrobstash/internal/scrobble"
	"github.com/scrobstash/scrobstash/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent scrobble reports from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.journal == nil {
			return errors.New("journal is disabled, set journal.enabled = true")
		}

		ctx := context.Background()
		entries, err := a.journal.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		counts, err := a.journal.Counts(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.HistoryTable(a.theme, entries))

		var totals []string
		for _, o := range []scrobble.Outcome{scrobble.OutcomeOK, scrobble.OutcomeAuthMissing, scrobble.OutcomeFailed} {
			totals = append(totals, a.theme.OutcomeStyle(o).Render(fmt.Sprintf("%s: %d", o, counts[o])))
		}
		fmt.Fprintln(out, strings.Join(totals, "  "))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
