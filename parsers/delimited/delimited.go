// Package delimited registers a built-in full-file parser for CSV/TSV-style
// tables, using the standard library encoding/csv. No third-party CSV
// decoder in the retrieved pack adds anything encoding/csv does not already
// provide for this row-to-map shape, so this one builtin is justified on
// the standard library (see DESIGN.md).
package delimited

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ukaea/multiparser"
)

func init() {
	multiparser.RegisterParser("csv", Parser())
	multiparser.RegisterSuffix(".csv", "csv")
	multiparser.RegisterParser("tsv", Parser())
	multiparser.RegisterSuffix(".tsv", "tsv")
}

// Parser returns a file parser that reads the whole delimited file,
// treating the first row as a header, and delivers one record per data row.
// The "delimiter" arg overrides the default comma (single rune, e.g. "\t").
func Parser() multiparser.Parser {
	return multiparser.NewFileParser(parse)
}

func parse(path string, args map[string]any) (multiparser.Metadata, any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if v, ok := args["delimiter"]; ok {
		if s, ok := v.(string); ok && len(s) == 1 {
			r.Comma = rune(s[0])
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, []multiparser.Record{}, nil
	}

	header := rows[0]
	records := make([]multiparser.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(multiparser.Record, len(header))
		for i, col := range header {
			if i >= len(row) {
				continue
			}
			rec[col] = convert(row[i])
		}
		records = append(records, rec)
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
