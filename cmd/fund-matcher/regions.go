package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fund-matcher/internal/prompt"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions and their credit guarantee foundation pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tREGION\tFOUNDATION")
		for _, r := range types.Regions() {
			foundation, ok := prompt.RegionalURL(r)
			if !ok {
				foundation = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Code(), r, foundation)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
