package multiparser

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"
)

// runTailWorker is the per-file poll loop for a tail trackable: it owns
// path's read offset exclusively, driving an explicit stat/seek/read cycle
// rather than an inotify/poll-driven tailer so the byte-exact
// first-poll-anchor and truncation-reset semantics below stay under
// direct control.
func runTailWorker(s *Session, path string, t *TailTrackable) error {
	var offset int64 = -1
	var lastSize int64
	var lastMod time.Time

	for {
		if s.term.IsSet() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			// Transient: file briefly missing or locked by the writer.
			sleepInterval(s.term, s.interval)
			continue
		}

		if offset == -1 {
			data, rerr := readWholeFile(path)
			if rerr != nil {
				sleepInterval(s.term, s.interval)
				continue
			}
			anchor := lastLineOffset(data)
			lastSize = info.Size()
			lastMod = info.ModTime()
			if anchor < int64(len(data)) {
				if perr := processTailChunk(s, path, t, data[anchor:], info.ModTime()); perr != nil {
					return parserError("tail", perr)
				}
			}
			offset = int64(len(data))
			sleepInterval(s.term, s.interval)
			continue
		}

		if info.Size() < lastSize {
			// Truncation or rotation: restart from the beginning next poll.
			offset = 0
			lastSize = 0
			lastMod = info.ModTime()
			sleepInterval(s.term, s.interval)
			continue
		}

		if info.Size() == lastSize && info.ModTime().Equal(lastMod) {
			sleepInterval(s.term, s.interval)
			continue
		}

		data, rerr := readFrom(path, offset)
		if rerr != nil {
			// Transient unreadable file: retry next poll.
			sleepInterval(s.term, s.interval)
			continue
		}

		if len(data) > 0 {
			if perr := processTailChunk(s, path, t, data, info.ModTime()); perr != nil {
				return parserError("tail", perr)
			}
		}

		offset += int64(len(data))
		lastSize = info.Size()
		lastMod = info.ModTime()
		sleepInterval(s.term, s.interval)
	}
}

func readWholeFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func readFrom(path string, offset int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}

// lastLineOffset returns the byte offset of the start of the final line in
// data: on first observation of a file only its final line is parsed, so
// earlier history already on disk is not replayed. For an empty file it
// returns 0, so no delivery happens until new bytes actually arrive.
func lastLineOffset(data []byte) int64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	end := n
	if data[end-1] == '\n' {
		end--
	}
	idx := bytes.LastIndexByte(data[:end], '\n')
	if idx == -1 {
		return 0
	}
	return int64(idx + 1)
}

// processTailChunk splits newly read bytes into lines, drops any line
// matching a skip-regex, and either hands the joined remainder to a custom
// log parser or extracts labeled values line by line.
func processTailChunk(s *Session, path string, t *TailTrackable, data []byte, modTime time.Time) error {
	lines := splitLines(string(data))

	var kept []string
	for _, ln := range lines {
		ln = strings.TrimRight(ln, "\r")
		if lineSkipped(t, ln) {
			continue
		}
		kept = append(kept, ln)
	}
	if len(kept) == 0 {
		return nil
	}

	if t.Parser != nil {
		joined := strings.Join(kept, "\n")
		meta, records, err := t.Parser.invokeLog(joined, t.ParserArgs)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if derr := deliverTail(s, path, meta, rec, modTime); derr != nil {
				return derr
			}
		}
		return nil
	}

	for _, ln := range kept {
		rec, err := extractTailLine("tail", t, ln)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		if derr := deliverTail(s, path, nil, rec, modTime); derr != nil {
			return derr
		}
	}
	return nil
}

func lineSkipped(t *TailTrackable, line string) bool {
	for _, re := range t.SkipPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// splitLines splits content on "\n" and drops a single trailing empty
// element produced when content ends with a newline, so a fully
// newline-terminated chunk of N lines yields exactly N elements.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func deliverTail(s *Session, path string, meta Metadata, record Record, modTime time.Time) error {
	if meta == nil {
		meta = Metadata{}
	}
	if _, ok := meta["timestamp"]; !ok {
		meta["timestamp"] = modTime
	}
	meta["path"] = path

	if s.flattenData {
		record = flatten(record)
	}
	return deliver(s, record, meta)
}
