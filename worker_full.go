package multiparser

import (
	"fmt"
	"os"
	"time"
)

// runFullWorker is the per-file poll loop for a full-file trackable. It
// owns path exclusively: stat, and on a modification-time change, parse
// the whole file and deliver the result.
func runFullWorker(s *Session, path string, t *FullFileTrackable) error {
	var lastMod time.Time
	var haveLast bool

	for {
		if s.term.IsSet() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			// Transient I/O: the file may have momentarily disappeared or be
			// locked by the writer. Swallow and retry next poll.
			sleepInterval(s.term, s.interval)
			continue
		}

		if haveLast && !info.ModTime().After(lastMod) {
			sleepInterval(s.term, s.interval)
			continue
		}

		deliveries, perr := parseFullFile(path, t, info.ModTime())
		if perr != nil {
			return parserError("track", perr)
		}

		for _, d := range deliveries {
			if derr := deliverFullFile(s, t, d); derr != nil {
				return derr
			}
		}

		lastMod = info.ModTime()
		haveLast = true

		if t.Static {
			return nil
		}

		sleepInterval(s.term, s.interval)
	}
}

// parseFullFile dispatches to the trackable's bound parser (or the
// suffix/file-type registry) and normalizes the result.
func parseFullFile(path string, t *FullFileTrackable, modTime time.Time) ([]delivery, error) {
	parser, ok := resolveParser(path, t.Parser, t.FileType)
	if !ok {
		return nil, &Error{Kind: KindConfiguration, Op: "track", Err: errNoParser(path)}
	}
	if parser.Kind() != FileParserKind {
		return nil, &Error{Kind: KindConfiguration, Op: "track", Err: errWrongParserKind(path)}
	}

	deliveries, err := parser.invokeFile(path, t.ParserArgs)
	if err != nil {
		return nil, err
	}

	for i := range deliveries {
		if deliveries[i].metadata == nil {
			deliveries[i].metadata = Metadata{}
		}
		if _, ok := deliveries[i].metadata["timestamp"]; !ok {
			deliveries[i].metadata["timestamp"] = modTime
		}
		deliveries[i].metadata["path"] = path
	}
	return deliveries, nil
}

func errNoParser(path string) error {
	return fmt.Errorf("no parser registered for %q and none was bound on the trackable", path)
}

func errWrongParserKind(path string) error {
	return fmt.Errorf("parser resolved for %q is a log parser, not a file parser; full-file trackables require a FileParserKind parser", path)
}

func deliverFullFile(s *Session, t *FullFileTrackable, d delivery) error {
	record := filterFullFile(d.record, t.Selectors)
	if s.flattenData {
		record = flatten(record)
	}
	return deliver(s, record, d.metadata)
}
