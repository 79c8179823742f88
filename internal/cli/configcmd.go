package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tideline/tideline/internal/hostconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect resolved host configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the fully resolved host configuration and where each value came from",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	resolved, err := hostconfig.Resolve(hostconfig.ResolveOptions{
		Flags: flagOverrides(flagValues),
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), hostconfig.Show(resolved))
	return nil
}
