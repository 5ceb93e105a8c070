package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abarbosa-dev/vinexport/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tYEARS\tSTATUS\tROWS\tCREATED")
		for _, r := range runs {
			fmt.Fprintln(tw, formatRunLine(r))
		}
		return tw.Flush()
	},
}

func formatRunLine(r store.Run) string {
	return fmt.Sprintf("%s\t%d-%d\t%s\t%d\t%s",
		r.ID, r.StartYear, r.EndYear, r.Status, r.RowsTotal,
		r.CreatedAt.Format("2006-01-02 15:04"))
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
