package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/spf13/cobra"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the available problem families",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FAMILY\tVALUES\tRANGE")
		for _, f := range problemgen.Families() {
			spec := problemgen.DefaultSpec(f)
			fmt.Fprintf(tw, "%s\t%d\t%d-%d\n", f, spec.Count, spec.Min, spec.Max)
		}
		tw.Flush()
	},
}
