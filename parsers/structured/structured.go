// Package structured registers a built-in full-file parser for TOML-shaped
// configuration dumps, reusing github.com/BurntSushi/toml (already wired
// for the manifest loader in config/) so a trackable can point straight at
// a TOML file without a custom parser.
package structured

import (
	"github.com/BurntSushi/toml"

	"github.com/ukaea/multiparser"
)

func init() {
	multiparser.RegisterParser("toml", Parser())
	multiparser.RegisterSuffix(".toml", "toml")
}

// Parser returns a file parser that decodes the whole file as TOML into a
// single nested record, suitable for multiparser's flatten step.
func Parser() multiparser.Parser {
	return multiparser.NewFileParser(parse)
}

func parse(path string, args map[string]any) (multiparser.Metadata, any, error) {
	var record multiparser.Record
	if _, err := toml.DecodeFile(path, &record); err != nil {
		return nil, nil, err
	}
	return nil, record, nil
}
