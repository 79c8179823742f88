package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map <platform> <upload-id>",
	Short: "Map an extracted upload's raw records into events and entities",
	Long: `Map replays every raw record belonging to upload-id through the
named platform's manifest views, dispatches the projected fields to a
typed event or entity, deduplicates the resulting events, and persists
everything in a single transaction.`,
	Args: cobra.ExactArgs(2),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	platform, uploadID := args[0], args[1]

	a, err := Adapter()
	if err != nil {
		return err
	}

	result, err := a.Map(cmd.Context(), platform, uploadID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "events: %d, entities: %d, skipped: %d\n",
		result.EventsProduced, result.EntitiesProduced, result.RecordsSkipped)
	return nil
}
