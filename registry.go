package multiparser

import (
	"path/filepath"
	"strings"
	"sync"
)

// registry is the suffix/file-type -> Parser dispatch table used when a
// FullFileTrackable does not carry its own Parser, overridable with an
// explicit file-type tag. Built-in file parser packages (parsers/delimited,
// parsers/structured) register themselves here from an init() func; only
// FileParserKind parsers belong in this table, since it is consulted
// exclusively from the full-file path.
var registry = struct {
	mu      sync.RWMutex
	byType  map[string]Parser
	bySufix map[string]string
}{
	byType:  make(map[string]Parser),
	bySufix: make(map[string]string),
}

// RegisterParser makes a built-in Parser available for suffix-based or
// file-type-tag dispatch under fileType (e.g. "csv", "tsv", "toml").
func RegisterParser(fileType string, p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.byType[fileType] = p
}

// RegisterSuffix associates a filename suffix (e.g. ".csv", no leading dot
// also accepted) with a previously or subsequently registered file type.
func RegisterSuffix(suffix, fileType string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.bySufix[normalizeSuffix(suffix)] = fileType
}

func normalizeSuffix(suffix string) string {
	return strings.ToLower(strings.TrimPrefix(suffix, "."))
}

// resolveParser picks the Parser for a full-file trackable: the trackable's
// own Parser always wins; otherwise an explicit FileType tag is looked up;
// otherwise the path's suffix is looked up. The caller is responsible for
// rejecting a resolved Parser of the wrong Kind — this function only
// performs the lookup.
func resolveParser(path string, explicit *Parser, fileType string) (Parser, bool) {
	if explicit != nil {
		return *explicit, true
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if fileType != "" {
		if p, ok := registry.byType[fileType]; ok {
			return p, true
		}
		return Parser{}, false
	}

	suffix := normalizeSuffix(filepath.Ext(path))
	if ft, ok := registry.bySufix[suffix]; ok {
		if p, ok := registry.byType[ft]; ok {
			return p, true
		}
	}
	return Parser{}, false
}
