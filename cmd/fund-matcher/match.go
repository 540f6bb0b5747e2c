package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/fund-matcher/internal/bizno"
	"github.com/pdiddy/fund-matcher/internal/match"
	"github.com/pdiddy/fund-matcher/internal/render"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Search for policy funds available to a business",
	Long: `Match sends the business profile to Gemini with live web search enabled and
prints the funds the business can apply for now. If web search is refused
for the key, the request is repeated once without it.

Interrupting the command (Ctrl-C) cancels the search.`,
	Example: `  fund-matcher match --biz-number 123-45-67890 --region 서울 --industry 카페
  fund-matcher match --biz-number 1234567890 --region gangwon --industry 숙박업 --format json --yaml`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("biz-number", "", "business registration number (10 digits, hyphens optional)")
	matchCmd.Flags().String("region", "", "region name or code (see 'fund-matcher regions')")
	matchCmd.Flags().String("industry", "", "line of business, e.g. 음식점")
	matchCmd.Flags().String("biz-type", types.DefaultBizType, "business type: 개인사업자 or 법인사업자")
	matchCmd.Flags().Bool("json", false, "output the result as JSON")
	matchCmd.Flags().Bool("yaml", false, "output the result as YAML")

	rootCmd.AddCommand(matchCmd)
}

// businessInfoFromFlags reads and validates the profile flags.
func businessInfoFromFlags(cmd *cobra.Command) (types.BusinessInfo, error) {
	number, _ := cmd.Flags().GetString("biz-number")
	regionArg, _ := cmd.Flags().GetString("region")
	industry, _ := cmd.Flags().GetString("industry")
	bizType, _ := cmd.Flags().GetString("biz-type")

	if err := bizno.Validate(number); err != nil {
		return types.BusinessInfo{}, err
	}
	region, ok := types.ParseRegion(regionArg)
	if !ok {
		return types.BusinessInfo{}, fmt.Errorf("unknown region %q (see 'fund-matcher regions')", regionArg)
	}
	return types.BusinessInfo{
		BizNumber: bizno.Format(number),
		Region:    region,
		Industry:  industry,
		BizType:   bizType,
	}, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	info, err := businessInfoFromFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	if asJSON && asYAML {
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := newService().Match(ctx, info, apiKey)
	if err != nil {
		return fmt.Errorf("%s: %w", match.Message(err), err)
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case asYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	}
	return writeResult(out, result)
}

// writeResult prints result for a terminal.
func writeResult(w io.Writer, result types.SearchResult) error {
	if result.UsedFallback {
		fmt.Fprintln(w, "(실시간 웹 검색 없이 생성된 결과입니다)")
		fmt.Fprintln(w)
	}

	var err error
	if result.Format == types.FormatJSON {
		err = render.WritePlainCards(w, render.GroupByAgency(result.Funds))
	} else {
		err = render.WritePlain(w, render.ParseMarkdown(result.Text))
	}
	if err != nil {
		return err
	}

	var sources []types.GroundingWeb
	for _, c := range result.GroundingChunks {
		if c.Web != nil {
			sources = append(sources, *c.Web)
		}
	}
	if len(sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "참고 출처:")
		for _, s := range sources {
			fmt.Fprintf(w, "  - %s %s\n", s.Title, s.URI)
		}
	}
	return nil
}
