// cmd/immigria/recommend.go
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"immigria-site/internal/assessment"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print the pathways the assessment would recommend",
	Long: `Run the recommendation rules for a purpose and job-offer answer, the only
two answers the rules read.

Examples:
  immigria recommend --purpose work --job-offer yes
  immigria recommend --purpose family --format json`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("purpose", "", "Purpose answer (work|study|family|business)")
	recommendCmd.Flags().String("job-offer", "", "Job offer answer (yes|no)")
	recommendCmd.Flags().String("format", "text", "Output format (text|json)")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	purpose, _ := cmd.Flags().GetString("purpose")
	jobOffer, _ := cmd.Flags().GetString("job-offer")
	format, _ := cmd.Flags().GetString("format")

	recs := assessment.Resolve(assessment.Answers{
		Purpose:     purpose,
		HasJobOffer: jobOffer,
	})
	out := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "text":
		for i, r := range recs {
			fmt.Fprintf(out, "%d. %s [%s]\n   %s\n", i+1, r.Title, r.Match.Label(), r.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
