// Package hostconfig resolves the small set of host-level settings every
// tideline entry point needs -- where the record store lives, and where
// the manifest directory is -- from defaults, optional global and
// repo-local TOML config files, environment variables, and CLI flags, in
// that increasing order of
// precedence. Resolution happens once, in the CLI; the pipeline packages
// themselves never read this package, per the explicit host-config
// boundary: they take their configuration as plain struct arguments.
package hostconfig

// Config is the fully resolved host configuration.
type Config struct {
	DBPath      string
	ManifestDir string
	StagingRoot string
}

// Source identifies which layer produced a resolved field's value, for
// `tideline config show`-style diagnostics.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceRepo    Source = "repo"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Resolved pairs a Config with per-field provenance.
type Resolved struct {
	Config  Config
	Sources map[string]Source
}
