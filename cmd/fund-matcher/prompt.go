package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fund-matcher/internal/prompt"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the instruction that match would send",
	Long: `Prompt renders the instruction for the given business profile in the
configured response format without calling the API. With --fallback it
also appends the notice used when web search is refused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := businessInfoFromFlags(cmd)
		if err != nil {
			return err
		}
		text, err := prompt.Build(info, appConfig.Format)
		if err != nil {
			return err
		}
		if fallback, _ := cmd.Flags().GetBool("fallback"); fallback {
			text += "\n\n" + prompt.FallbackNotice(info.Region)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	promptCmd.Flags().String("biz-number", "", "business registration number (10 digits, hyphens optional)")
	promptCmd.Flags().String("region", "", "region name or code")
	promptCmd.Flags().String("industry", "", "line of business")
	promptCmd.Flags().String("biz-type", types.DefaultBizType, "business type")
	promptCmd.Flags().Bool("fallback", false, "append the no-search fallback notice")

	rootCmd.AddCommand(promptCmd)
}
