package ingest

import (
	"fmt"
	"strings"

	"github.com/tideline/tideline/internal/decode"
	"github.com/tideline/tideline/internal/manifest"
)

// buildDecoder constructs the decoder named by entry.Parser.Type (the
// manifest's `parser.format`), wiring its manifest-declared options
// through to the matching decode.*Options struct. An unrecognized parser
// format is returned as an error; Extract then records that file as
// failed, adds a warning, and goes on with the remaining files.
func buildDecoder(entry manifest.FileEntry) (decode.Decoder, error) {
	opts := entry.Parser.Options

	switch entry.Parser.Type {
	case "json":
		root, _ := opts["json_root"].(string)
		root = strings.TrimSuffix(root, "[]")
		return decode.NewJSONDecoder(decode.JSONOptions{Root: root}), nil

	case "jsonl":
		return decode.NewJSONLDecoder(decode.JSONLOptions{Where: opts["where"]}), nil

	case "csv":
		csvOpts := decode.CSVOptions{}
		if dd, ok := opts["drop_duplicates"]; ok {
			switch v := dd.(type) {
			case bool:
				csvOpts.DropDuplicates = v
			case map[string]any:
				csvOpts.DropDuplicates = true
				if subset, ok := v["subset"].([]any); ok {
					for _, s := range subset {
						if str, ok := s.(string); ok {
							csvOpts.Subset = append(csvOpts.Subset, str)
						}
					}
				}
				if keep, ok := v["keep"].(string); ok {
					csvOpts.Keep = keep
				}
			}
		}
		return decode.NewCSVDecoder(csvOpts), nil

	case "json_label_values":
		return decode.NewLabelValuesDecoder(decode.LabelValuesOptions{}), nil

	case "csv_multi":
		return decode.NewCSVMultiDecoder(), nil

	default:
		return nil, fmt.Errorf("unknown parser type %q for manifest file %q", entry.Parser.Type, entry.ID)
	}
}
