// Package cli implements the Cobra command hierarchy for the tideline CLI
// tool. The root command defined here is the entry point for all
// subcommands and handles cross-cutting concerns like logging
// initialization, host config resolution, and error handling.
package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tideline/tideline/internal/apperr"
	"github.com/tideline/tideline/internal/hostadapter"
	"github.com/tideline/tideline/internal/hostconfig"
)

// flagValues holds the parsed global flag values, populated during command
// initialization and resolved into host config by Adapter() and
// `config show`.
var flagValues *globalFlags

// adapter is the live hostadapter.Adapter for this process, opened by the
// first Adapter() call after it resolves host config. Subcommands reach it
// via Adapter().
var adapter *hostadapter.Adapter

type globalFlags struct {
	DBPath      string
	ManifestDir string
	StagingRoot string
	Verbose     bool
	Quiet       bool
}

var rootCmd = &cobra.Command{
	Use:   "tideline",
	Short: "Ingest and search forensic timeline exports.",
	Long: `Tideline extracts raw records from a consumer-export staging
directory, maps them into typed events and entities using a
platform-specific manifest, and serves a chip-and-free-text search
surface over the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := resolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		setupLogging(level)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if adapter != nil {
			return adapter.Close()
		}
		return nil
	},
}

func init() {
	flagValues = &globalFlags{}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagValues.DBPath, "db-path", "", "path to the record store (overrides config file/env)")
	pf.StringVar(&flagValues.ManifestDir, "manifest-dir", "", "directory of platform manifests (overrides config file/env)")
	pf.StringVar(&flagValues.StagingRoot, "staging-root", "", "default root for staging directories (overrides config file/env)")
	pf.BoolVarP(&flagValues.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&flagValues.Quiet, "quiet", "q", false, "suppress all output except errors")
}

// flagOverrides converts non-blank global flags into the flat map
// hostconfig.ResolveOptions.Flags expects.
func flagOverrides(fv *globalFlags) map[string]any {
	m := make(map[string]any)
	if fv.DBPath != "" {
		m["db_path"] = fv.DBPath
	}
	if fv.ManifestDir != "" {
		m["manifest_dir"] = fv.ManifestDir
	}
	if fv.StagingRoot != "" {
		m["staging_root"] = fv.StagingRoot
	}
	return m
}

// Execute runs the root command and returns an appropriate exit code.
// Errors whose *apperr.Error severity is below Fatal are logged but do not
// fail the process; everything else exits 1.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return 0
}

func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Level != apperr.Fatal {
		return 0
	}
	return 1
}

// RootCmd returns the root cobra.Command, for testing and subcommand
// registration.
func RootCmd() *cobra.Command {
	return rootCmd
}

// Adapter lazily resolves host config and opens the record store on first
// use, caching the result for the rest of the process. Commands that don't
// touch the store (version, completion) never pay this cost.
func Adapter() (*hostadapter.Adapter, error) {
	if adapter != nil {
		return adapter, nil
	}

	resolved, err := hostconfig.Resolve(hostconfig.ResolveOptions{
		Flags: flagOverrides(flagValues),
	})
	if err != nil {
		return nil, err
	}

	a, err := hostadapter.Open(resolved.Config)
	if err != nil {
		return nil, err
	}
	adapter = a

	slog.Debug("host config resolved",
		"db_path", resolved.Config.DBPath,
		"manifest_dir", resolved.Config.ManifestDir,
	)
	return adapter, nil
}
