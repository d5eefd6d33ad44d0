package multiparser

// Record is a parsed value delivered to a callback: a flat or nested
// mapping of field names to values.
type Record = map[string]any

// Metadata accompanies every Record. It must carry at least a "timestamp"
// key (see the Parser contract in parser.go); workers also add "path".
type Metadata = map[string]any

// delivery pairs one Record with its Metadata, the unit the workers push
// through to callbacks.
type delivery struct {
	record   Record
	metadata Metadata
}
