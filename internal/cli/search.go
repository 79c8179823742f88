package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tideline/tideline/internal/query"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search events with free-text and chip syntax",
	Long: `Search compiles query (free-text terms plus field:value, term:value,
and datetime:start,end chips, "*" leaving a bound open; a leading "-"
negates any of them) into a matcher and runs it against the record
store, optionally scoped to one upload.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("upload", "", "restrict the search to one upload id")
	searchCmd.Flags().Int("size", 20, "maximum number of hits to return")
	searchCmd.Flags().Int("from", 0, "offset into the matched result set")
	searchCmd.Flags().Bool("asc", false, "order hits oldest first")
	searchCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	uploadID, _ := cmd.Flags().GetString("upload")
	size, _ := cmd.Flags().GetInt("size")
	from, _ := cmd.Flags().GetInt("from")
	asc, _ := cmd.Flags().GetBool("asc")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := Adapter()
	if err != nil {
		return err
	}

	result, err := a.SearchEvents(cmd.Context(), query.Request{
		UploadID: uploadID,
		Query:    args[0],
		Size:     size,
		From:     from,
		OrderAsc: asc,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d total\n", result.Total)
	for _, hit := range result.Hits {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %v\n", hit.ID, hit.Source)
	}
	return nil
}
