package multiparser

import (
	"fmt"
	"os"
	"time"
)

// ParserKind distinguishes the two parser contracts: a file parser (reads
// a whole file) and a log parser (reads newly appended tail content).
type ParserKind int

const (
	// FileParserKind parsers take a file path and opaque keyword arguments
	// and return (Metadata, value) where value is a Record or []Record.
	FileParserKind ParserKind = iota
	// LogParserKind parsers take the newly appended string content and
	// opaque keyword arguments and return (Metadata, []Record).
	LogParserKind
)

// FileParserFunc is the file-parser shape: read a whole file, return its
// metadata and parsed value.
type FileParserFunc func(path string, args map[string]any) (Metadata, any, error)

// LogParserFunc is the log (tail) parser shape: parse newly appended
// content, return metadata and zero or more records.
type LogParserFunc func(content string, args map[string]any) (Metadata, []Record, error)

// Parser is a tagged capability: a small value carrying a function and a
// kind enum, constructed by a factory that is the only way to obtain a
// valid one. The kind field is unexported, so the only way to produce a
// Parser is through NewFileParser or NewLogParser; validate() then
// degenerates to a type check plus a cheap smoke-test invocation.
type Parser struct {
	kind ParserKind
	file FileParserFunc
	log  LogParserFunc
}

// NewFileParser builds a Parser carrying a file-parser function.
func NewFileParser(fn FileParserFunc) Parser {
	return Parser{kind: FileParserKind, file: fn}
}

// NewLogParser builds a Parser carrying a log-parser function.
func NewLogParser(fn LogParserFunc) Parser {
	return Parser{kind: LogParserKind, log: fn}
}

// Kind reports which shape this Parser carries.
func (p Parser) Kind() ParserKind { return p.kind }

// isZero reports whether p was never constructed via NewFileParser/NewLogParser.
func (p Parser) isZero() bool {
	return p.file == nil && p.log == nil
}

// validate smoke-tests a parser: invoke it once against synthetic input
// and require it not to error or panic. Go's static typing already
// guarantees return arity and shape, so this only needs to guard against
// a misbehaving function body.
func (p Parser) validate(op string) (err error) {
	if p.isZero() {
		return configErrorf(op, "parser was not constructed via NewFileParser or NewLogParser")
	}

	defer func() {
		if r := recover(); r != nil {
			err = configErrorf(op, "parser panicked during validation: %v", r)
		}
	}()

	switch p.kind {
	case FileParserKind:
		tmp, terr := os.CreateTemp("", "multiparser-smoketest-*")
		if terr != nil {
			// Cannot build synthetic input; do not fail configuration for an
			// environment problem unrelated to the parser itself.
			return nil
		}
		defer os.Remove(tmp.Name())
		_, _ = tmp.WriteString("multiparser-smoke-test\n")
		tmp.Close()

		meta, _, perr := p.file(tmp.Name(), nil)
		if perr != nil {
			return configErrorf(op, "custom parser failed validation: %v", perr)
		}
		if meta != nil {
			if _, ok := meta["timestamp"]; !ok {
				meta["timestamp"] = time.Now()
			}
		}
	case LogParserKind:
		_, _, perr := p.log("multiparser smoke test line\n", nil)
		if perr != nil {
			return configErrorf(op, "custom parser failed validation: %v", perr)
		}
	default:
		return configErrorf(op, "unknown parser kind %d", p.kind)
	}
	return nil
}

// invokeFile calls the bound file parser and normalizes its result into a
// slice of deliveries: the parser may return a single (metadata, mapping),
// a single (metadata, sequence-of-mappings), or a sequence of (metadata,
// mapping) pairs.
func (p Parser) invokeFile(path string, args map[string]any) ([]delivery, error) {
	meta, value, err := p.file(path, args)
	if err != nil {
		return nil, err
	}
	return normalizeFileResult(meta, value)
}

func normalizeFileResult(meta Metadata, value any) ([]delivery, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Record:
		return []delivery{{record: v, metadata: meta}}, nil
	case []Record:
		out := make([]delivery, 0, len(v))
		for _, rec := range v {
			out = append(out, delivery{record: rec, metadata: meta})
		}
		return out, nil
	case []delivery:
		return v, nil
	case []any:
		out := make([]delivery, 0, len(v))
		for _, item := range v {
			rec, ok := item.(Record)
			if !ok {
				return nil, fmt.Errorf("parser returned a sequence element of type %T, want map[string]any", item)
			}
			out = append(out, delivery{record: rec, metadata: meta})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parser returned value of type %T, want map[string]any or []map[string]any", value)
	}
}

// invokeLog calls the bound log parser.
func (p Parser) invokeLog(content string, args map[string]any) (Metadata, []Record, error) {
	return p.log(content, args)
}
