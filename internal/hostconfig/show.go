package hostconfig

import (
	"fmt"
	"strings"
)

// Show renders a Resolved config as annotated TOML, one line per field with
// an inline comment naming the layer that supplied its value. Used by the
// `tideline config show` command.
func Show(r Resolved) string {
	var b strings.Builder
	writeField(&b, "db_path", r.Config.DBPath, sourceLabel(r.Sources, "db_path"))
	writeField(&b, "manifest_dir", r.Config.ManifestDir, sourceLabel(r.Sources, "manifest_dir"))
	writeField(&b, "staging_root", r.Config.StagingRoot, sourceLabel(r.Sources, "staging_root"))
	return b.String()
}

func sourceLabel(sources map[string]Source, key string) string {
	if s, ok := sources[key]; ok {
		return string(s)
	}
	return string(SourceDefault)
}

func writeField(b *strings.Builder, key, value, source string) {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	fmt.Fprintf(b, "%-14s = %-40s # %s\n", key, `"`+escaped+`"`, source)
}
