package hostconfig

import "os"

// Environment variable names for TIDELINE_ prefixed overrides.
const (
	EnvDBPath      = "TIDELINE_DB_PATH"
	EnvManifestDir = "TIDELINE_MANIFEST_DIR"
	EnvStagingRoot = "TIDELINE_STAGING_ROOT"
)

// envFlatMap reads TIDELINE_* environment variables into a flat map suitable
// for a koanf confmap provider. Only non-empty vars are included.
func envFlatMap() map[string]any {
	m := make(map[string]any)
	if v := os.Getenv(EnvDBPath); v != "" {
		m["db_path"] = v
	}
	if v := os.Getenv(EnvManifestDir); v != "" {
		m["manifest_dir"] = v
	}
	if v := os.Getenv(EnvStagingRoot); v != "" {
		m["staging_root"] = v
	}
	return m
}
