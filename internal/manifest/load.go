package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tideline/tideline/internal/apperr"
	"github.com/tideline/tideline/internal/filterexpr"
	"github.com/tideline/tideline/internal/project"
)

// wireManifest is the shape the YAML decodes into before validation and
// indexing; yaml.v3 gives us map[string]any-shaped nodes directly via
// this intermediate struct.
type wireManifest struct {
	Files []wireFile `yaml:"files"`
	Views []wireView `yaml:"views"`
}

type wireFile struct {
	ID     string     `yaml:"id"`
	Path   string     `yaml:"path"`
	Parser wireParser `yaml:"parser"`
}

type wireParser struct {
	Format  string         `yaml:"format"`
	Options map[string]any `yaml:",inline"`
}

// wireFileRef is the `file: {id: ...}` object a view uses to name the
// manifest file it reads from.
type wireFileRef struct {
	ID string `yaml:"id"`
}

type wireView struct {
	File   wireFileRef    `yaml:"file"`
	Where  any            `yaml:"where"`
	Static map[string]any `yaml:"static"`
	Fields []wireField    `yaml:"fields"`
}

type wireField struct {
	Target    string `yaml:"target"`
	Source    any    `yaml:"source"`
	Type      string `yaml:"type"`
	Transform string `yaml:"transform"`
}

// LoadFromFile reads and parses the manifest YAML file at path.
func LoadFromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Fatalf("manifest_read_failed", fmt.Sprintf("reading manifest %s", path), err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses manifest YAML already in memory.
func LoadFromBytes(data []byte) (*Manifest, error) {
	var wire wireManifest
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, apperr.Fatalf("manifest_parse_failed", "manifest is not valid YAML", err)
	}

	if err := validateWire(wire); err != nil {
		return nil, err
	}

	m := &Manifest{
		Files:         make([]FileEntry, 0, len(wire.Files)),
		viewsByFileID: make(map[string][]View),
	}

	for _, f := range wire.Files {
		m.Files = append(m.Files, FileEntry{
			ID:   f.ID,
			Path: f.Path,
			Parser: ParserConfig{
				Type:    f.Parser.Format,
				Options: f.Parser.Options,
			},
		})
	}

	for _, v := range wire.Views {
		fields := make([]project.FieldSpec, 0, len(v.Fields))
		for _, wf := range v.Fields {
			fields = append(fields, project.FieldSpec{
				Target:    wf.Target,
				Source:    wf.Source,
				Type:      wf.Type,
				Transform: wf.Transform,
			})
		}

		compiled := View{
			FileID:  v.File.ID,
			Matcher: filterexpr.Compile(v.Where),
			Static:  v.Static,
			Fields:  fields,
		}
		m.viewsByFileID[v.File.ID] = append(m.viewsByFileID[v.File.ID], compiled)
	}

	return m, nil
}

// validateWire applies the manifest's best-effort-fatal validation: a file
// entry missing id/path/parser format, or a view missing its file.id
// reference, is a manifest-level fatal error -- the same
// fail-the-whole-file posture as the original, since a half-loaded
// manifest produces silently wrong extraction results.
func validateWire(wire wireManifest) error {
	seen := make(map[string]bool, len(wire.Files))
	for i, f := range wire.Files {
		if f.ID == "" {
			return apperr.Fatalf("manifest_invalid", fmt.Sprintf("files[%d] missing id", i), nil)
		}
		if f.Path == "" {
			return apperr.Fatalf("manifest_invalid", fmt.Sprintf("files[%d] (%s) missing path", i, f.ID), nil)
		}
		if f.Parser.Format == "" {
			return apperr.Fatalf("manifest_invalid", fmt.Sprintf("files[%d] (%s) missing parser.format", i, f.ID), nil)
		}
		if seen[f.ID] {
			return apperr.Fatalf("manifest_invalid", fmt.Sprintf("duplicate file id %q", f.ID), nil)
		}
		seen[f.ID] = true
	}

	for i, v := range wire.Views {
		if v.File.ID == "" {
			return apperr.Fatalf("manifest_invalid", fmt.Sprintf("views[%d] missing file.id reference", i), nil)
		}
	}

	return nil
}
