package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fund-matcher/pkg/types"
)

func profileCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("biz-number", "", "")
	cmd.Flags().String("region", "", "")
	cmd.Flags().String("industry", "", "")
	cmd.Flags().String("biz-type", types.DefaultBizType, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestBusinessInfoFromFlags(t *testing.T) {
	info, err := businessInfoFromFlags(profileCmd(t, "--biz-number", "1234567890", "--region", "gyeongnam", "--industry", "제조업"))
	require.NoError(t, err)

	assert.Equal(t, types.BusinessInfo{
		BizNumber: "123-45-67890",
		Region:    types.RegionGyeongnam,
		Industry:  "제조업",
		BizType:   types.DefaultBizType,
	}, info)
}

func TestBusinessInfoFromFlags_Errors(t *testing.T) {
	_, err := businessInfoFromFlags(profileCmd(t, "--biz-number", "123", "--region", "서울", "--industry", "x"))
	assert.Error(t, err)

	_, err = businessInfoFromFlags(profileCmd(t, "--biz-number", "1234567890", "--region", "atlantis", "--industry", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atlantis")
}

func TestWriteResult_Cards(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, types.SearchResult{
		Format:       types.FormatJSON,
		UsedFallback: true,
		Funds: []types.Fund{
			{Agency: "기술보증기금", Category: "보증", Title: "창업기업 보증", URL: "https://www.kibo.or.kr/1"},
		},
		GroundingChunks: []types.GroundingChunk{{Web: &types.GroundingWeb{URI: "https://www.kibo.or.kr/", Title: "kibo"}}, {}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "실시간 웹 검색 없이")
	assert.Contains(t, out, "기술보증기금 (1)")
	assert.Contains(t, out, "공고확인: https://www.kibo.or.kr/1")
	assert.Contains(t, out, "참고 출처:\n  - kibo https://www.kibo.or.kr/\n")
}

func TestWriteResult_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, types.SearchResult{
		Format: types.FormatMarkdown,
		Text:   "## 결과\n- [자금](https://x)",
	}))

	assert.Equal(t, "결과\n===\n  • 자금 (https://x)\n", buf.String())
}
