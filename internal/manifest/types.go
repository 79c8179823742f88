// Package manifest loads and indexes the YAML manifest that drives
// extraction and semantic mapping: which staging files to decode with
// which parser, and which views (filter + projection pairs) apply to the
// raw records each file produces.
package manifest

import (
	"github.com/tideline/tideline/internal/filterexpr"
	"github.com/tideline/tideline/internal/project"
)

// ParserConfig names a decoder (the manifest's `parser.format`) and
// carries its decoder-specific options, both taken verbatim from the
// manifest YAML.
type ParserConfig struct {
	Type    string
	Options map[string]any
}

// FileEntry declares one staging-directory file the manifest knows how to
// decode. Path is matched against staging entries case-insensitively as a
// path suffix, after reversing the "___" staging-flatten convention (see
// ResolveFileEntry).
type FileEntry struct {
	ID     string
	Path   string
	Parser ParserConfig
}

// ViewConfig is one manifest view exactly as authored: a reference to the
// file it reads from, an optional filter, and a projection.
type ViewConfig struct {
	FileID string
	Where  any
	Static map[string]any
	Fields []project.FieldSpec
}

// View is a ViewConfig with its Where clause precompiled into a Predicate,
// per Design Notes: the manifest keeps matcher and projection together on
// the wire, but the in-memory model splits them.
type View struct {
	FileID  string
	Matcher filterexpr.Predicate
	Static  map[string]any
	Fields  []project.FieldSpec
}

// Manifest is the fully loaded and indexed manifest: the raw file
// declarations plus views grouped by the file they read from.
type Manifest struct {
	Files         []FileEntry
	viewsByFileID map[string][]View
}

// FileEntries returns every declared file entry in manifest order.
func (m *Manifest) FileEntries() []FileEntry {
	return m.Files
}

// ViewsForFileID returns the views that read from the given manifest file
// id, in manifest declaration order. Returns nil if no views reference
// that file.
func (m *Manifest) ViewsForFileID(fileID string) []View {
	return m.viewsByFileID[fileID]
}
