package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// NewCalendarCommand creates the calendar command.
func NewCalendarCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar <date>",
		Short: "Show the liturgical season and color for a date",
		Long: `Resolve a service date against the liturgical calendar.

Uses --calendar-file when set, otherwise the built-in calendar. Does not
need a database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseServiceDate(args[0])
			if err != nil {
				return err
			}
			cal, err := loadCalendar(rootOpts.Config.CalendarFile)
			if err != nil {
				return err
			}
			info, err := cal.Lookup(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := &outputFormatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return out.Print(info, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %s (%s)", date, info.SeasonName, info.Color)
				if info.SpecialDayName != "" {
					fmt.Fprintf(w, ", %s", info.SpecialDayName)
				}
				fmt.Fprintln(w)
			})
		},
	}
}
