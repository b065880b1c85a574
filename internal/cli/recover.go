package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// NewRecoverCommand creates the recover command.
func NewRecoverCommand(rootOpts *RootOptions) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "recover <date>",
		Short: "Show the selections orphaned by the last structural edit",
		Long: `Show the songs and readings that the most recent structural edit of a
service removed, so they can be put back by hand.

With --history, list every archived orphan event for the date instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts.Config, rootOpts.logger())
			if err != nil {
				return err
			}
			defer a.Close()

			out := &outputFormatter{format: rootOpts.Format, w: cmd.OutOrStdout()}

			if history > 0 {
				records, err := a.planning.OrphanHistory(cmd.Context(), args[0], history)
				if err != nil {
					return err
				}
				return out.Print(records, func(w io.Writer) { printOrphanHistory(w, args[0], records) })
			}

			recovery, err := a.planning.RecoverOrphans(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("no orphaned selections recorded for %s", args[0])
			}
			if err != nil {
				return err
			}
			return out.Print(recovery, func(w io.Writer) { printRecovery(w, recovery) })
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "list up to N archived orphan events instead of the latest")

	return cmd
}

func printRecovery(w io.Writer, r *domain.OrphanRecovery) {
	fmt.Fprintf(w, "%s: %d selection(s) orphaned by %s at %s\n",
		r.Date, r.Count, r.OrphanedBy, r.OrphanedAt.Format("2006-01-02 15:04 MST"))
	printOrphans(w, r.OrphanedSongs)
}

func printOrphanHistory(w io.Writer, date string, records []*domain.OrphanRecord) {
	if len(records) == 0 {
		fmt.Fprintf(w, "%s: no orphan events\n", date)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %s  %d -> %d elements  %d orphaned\n",
			rec.Timestamp.Format("2006-01-02 15:04 MST"), rec.OrphanedBy,
			rec.OriginalElementCount, rec.NewElementCount, len(rec.OrphanedSongs))
		printOrphans(w, rec.OrphanedSongs)
	}
}

func printOrphans(w io.Writer, orphans []domain.OrphanedSelection) {
	for _, o := range orphans {
		fmt.Fprintf(w, "  #%d %-16s %s (was %q)\n", o.OriginalIndex+1, o.ElementType, o.Title, o.OriginalContent)
	}
}
