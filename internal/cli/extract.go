package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <platform> <staging-dir>",
	Short: "Extract raw records from a staging directory",
	Long: `Extract walks staging-dir, resolves each entry against the named
platform's manifest, decodes matched files with their declared parser,
and persists the resulting raw records under a new upload.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	platform, stagingDir := args[0], args[1]

	a, err := Adapter()
	if err != nil {
		return err
	}

	result, err := a.Extract(cmd.Context(), platform, stagingDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upload %s (%s): %d/%d files matched, %d skipped\n",
		result.Upload.ID, result.Upload.GivenName, result.FilesMatched, result.FilesWalked, result.FilesSkipped)
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  warning: %v\n", w)
	}
	return nil
}
