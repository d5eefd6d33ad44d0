// Package kv provides a built-in log parser for simple "key=value"
// formatted lines, for use as a TailTrackable.Parser. It is tail-only and
// is not registered in the full-file suffix/file-type registry, since a
// log parser has no well-formed meaning there.
package kv

import (
	"strconv"
	"strings"

	"github.com/ukaea/multiparser"
)

// Parser returns a log parser that splits each non-blank line on the first
// "=" and delivers one record per line, converting numeric values the same
// way the core tail extractor does. Bind it directly to
// TailTrackable.Parser; there is no suffix-based dispatch for tail
// parsers.
func Parser() multiparser.Parser {
	return multiparser.NewLogParser(parse)
}

func parse(content string, args map[string]any) (multiparser.Metadata, []multiparser.Record, error) {
	sep := "="
	if v, ok := args["separator"]; ok {
		if s, ok := v.(string); ok && s != "" {
			sep = s
		}
	}

	var records []multiparser.Record
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, sep)
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+len(sep):])
		if key == "" {
			continue
		}
		records = append(records, multiparser.Record{key: convert(value)})
	}
	return nil, records, nil
}

func convert(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
