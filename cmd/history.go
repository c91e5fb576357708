package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/abhisek/statsheet/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent exports",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of exports to list (0 = all)")
	historyCmd.Flags().Int("prune", -1, "Delete all but the N most recent exports")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := openHistory(cfg)
	if st == nil {
		return errors.New("export history is unavailable")
	}
	defer st.Close()
	repo := st.ExportRepo()

	if keep, _ := cmd.Flags().GetInt("prune"); keep >= 0 {
		if err := repo.Prune(cmd.Context(), keep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Kept the %d most recent exports.\n", keep)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := repo.Recent(cmd.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exports yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFAMILY\tN\tSTATUS\tHEADER\tPDF")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Family, r.ProblemCount,
			status(r), r.Header, r.PDFPath)
	}
	return tw.Flush()
}

func status(r store.ExportRecord) string {
	switch {
	case !r.Success:
		return "failed"
	case r.Degraded:
		return "degraded"
	default:
		return "ok"
	}
}
