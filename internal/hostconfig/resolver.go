package hostconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	koanf "github.com/knadh/koanf/v2"
	"github.com/knadh/koanf/providers/confmap"
)

// ResolveOptions configures the layered resolution in Resolve.
type ResolveOptions struct {
	// GlobalConfigPath overrides the default ~/.config/tideline/config.toml.
	GlobalConfigPath string

	// RepoConfigPath overrides the default ./tideline.toml.
	RepoConfigPath string

	// Flags holds explicit CLI flag overrides, highest precedence. Keys are
	// the flat field names: "db_path", "manifest_dir", "staging_root".
	Flags map[string]any
}

// Resolve runs the 5-layer resolution pipeline: built-in defaults, the
// user's global config file, a repo-local config file, TIDELINE_*
// environment variables, then CLI flags, each layer overriding only the
// fields it explicitly sets.
func Resolve(opts ResolveOptions) (Resolved, error) {
	k := koanf.New(".")
	sources := make(map[string]Source)

	if err := loadLayer(k, defaultFlatMap(Default()), sources, SourceDefault); err != nil {
		return Resolved{}, fmt.Errorf("loading defaults: %w", err)
	}

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			globalPath = filepath.Join(home, ".config", "tideline", "config.toml")
		}
	}
	if globalPath != "" {
		flat, err := loadTOMLFile(globalPath)
		if err != nil {
			return Resolved{}, err
		}
		if flat != nil {
			if err := loadLayer(k, flat, sources, SourceGlobal); err != nil {
				return Resolved{}, err
			}
		}
	}

	repoPath := opts.RepoConfigPath
	if repoPath == "" {
		repoPath = "tideline.toml"
	}
	flat, err := loadTOMLFile(repoPath)
	if err != nil {
		return Resolved{}, err
	}
	if flat != nil {
		if err := loadLayer(k, flat, sources, SourceRepo); err != nil {
			return Resolved{}, err
		}
	}

	if env := envFlatMap(); len(env) > 0 {
		if err := loadLayer(k, env, sources, SourceEnv); err != nil {
			return Resolved{}, fmt.Errorf("loading env vars: %w", err)
		}
	}

	if len(opts.Flags) > 0 {
		if err := loadLayer(k, opts.Flags, sources, SourceFlag); err != nil {
			return Resolved{}, fmt.Errorf("loading CLI flags: %w", err)
		}
	}

	cfg := Config{
		DBPath:      k.String("db_path"),
		ManifestDir: k.String("manifest_dir"),
		StagingRoot: k.String("staging_root"),
	}

	slog.Debug("host config resolved",
		"db_path", cfg.DBPath,
		"manifest_dir", cfg.ManifestDir,
		"staging_root", cfg.StagingRoot,
	)

	return Resolved{Config: cfg, Sources: sources}, nil
}

// loadTOMLFile parses a TOML file into a flat map of only the fields it
// explicitly sets. A missing file is not an error; it yields (nil, nil).
func loadTOMLFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	flat := make(map[string]any)
	for _, key := range []string{"db_path", "manifest_dir", "staging_root"} {
		if v, ok := raw[key]; ok {
			flat[key] = v
		}
	}
	return flat, nil
}

// loadLayer merges a flat map into k and attributes every key it sets to
// src, so a later layer reasserting the same value still gets the right
// provenance for `tideline config show`.
func loadLayer(k *koanf.Koanf, m map[string]any, sources map[string]Source, src Source) error {
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return fmt.Errorf("merge layer %s: %w", src, err)
	}
	for key := range m {
		sources[key] = src
	}
	return nil
}
