package manifest

import "strings"

// ResolveFileEntry finds the first declared file entry whose Path matches
// stagingPath, the path of a file discovered under the staging root.
//
// Staging archives are frequently unpacked with nested directories
// flattened into a single filename using "___" as the path separator
// (e.g. "Messages___chat.db" for what was originally "Messages/chat.db").
// ResolveFileEntry reverses that flattening before matching, then compares
// case-insensitively as a path suffix: a manifest path "Messages/chat.db"
// matches any staging path ending in that suffix, so the same manifest
// works regardless of how deep the export nests the file.
//
// The first file entry (in manifest declaration order) whose path matches
// wins; later entries are not considered even if they would also match.
func (m *Manifest) ResolveFileEntry(stagingPath string) (FileEntry, bool) {
	unflattened := strings.ReplaceAll(stagingPath, "___", "/")
	normalized := strings.ToLower(unflattened)

	for _, f := range m.Files {
		candidate := strings.ToLower(f.Path)
		if strings.HasSuffix(normalized, candidate) {
			return f, true
		}
	}

	return FileEntry{}, false
}
