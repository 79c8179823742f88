package hostconfig

import "fmt"

// Validate checks a resolved Config for the minimal invariants every entry
// point depends on: all three paths must be set to something non-blank.
// It does not require the paths to exist yet -- the store creates its
// database file and parent directory on open.
func Validate(c Config) error {
	if blank(c.DBPath) {
		return fmt.Errorf("db_path is not set (default, config file, %s, or --db-path)", EnvDBPath)
	}
	if blank(c.ManifestDir) {
		return fmt.Errorf("manifest_dir is not set (default, config file, %s, or --manifest-dir)", EnvManifestDir)
	}
	if blank(c.StagingRoot) {
		return fmt.Errorf("staging_root is not set (default, config file, %s, or --staging-root)", EnvStagingRoot)
	}
	return nil
}

func blank(s string) bool {
	return s == ""
}
