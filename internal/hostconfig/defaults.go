package hostconfig

import (
	"os"
	"path/filepath"
)

// Default returns the built-in fallback configuration, rooted under the
// user's home directory when it can be determined.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DBPath:      filepath.Join(home, ".local", "share", "tideline", "tideline.db"),
		ManifestDir: filepath.Join(home, ".config", "tideline", "manifests"),
		StagingRoot: filepath.Join(home, ".local", "share", "tideline", "staging"),
	}
}

func defaultFlatMap(c Config) map[string]any {
	return map[string]any{
		"db_path":      c.DBPath,
		"manifest_dir": c.ManifestDir,
		"staging_root": c.StagingRoot,
	}
}
