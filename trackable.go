package multiparser

import "regexp"

// Selector identifies which top-level keys of a parsed full-file record
// are delivered. Construct with Literal or Pattern.
type Selector struct {
	literal string
	regex   *regexp.Regexp
}

// Literal matches a top-level key by exact equality.
func Literal(name string) Selector {
	return Selector{literal: name}
}

// Pattern matches a top-level key by a full-string regular-expression match.
func Pattern(re *regexp.Regexp) Selector {
	return Selector{regex: re}
}

func (s Selector) matches(key string) bool {
	if s.regex != nil {
		loc := s.regex.FindStringIndex(key)
		return loc != nil && loc[0] == 0 && loc[1] == len(key)
	}
	return s.literal == key
}

// LabeledPattern is a (optional label, regex) pair used by tail
// trackables.
type LabeledPattern struct {
	Label string
	Regex *regexp.Regexp
}

// Value builds a LabeledPattern with no label override; the label is
// taken from the capture groups at extraction time.
func Value(re *regexp.Regexp) LabeledPattern {
	return LabeledPattern{Regex: re}
}

// LabeledValue builds a LabeledPattern with an explicit label.
func LabeledValue(label string, re *regexp.Regexp) LabeledPattern {
	return LabeledPattern{Label: label, Regex: re}
}

// FullFileTrackable declares a class of files to monitor as whole units.
// Re-read on every modification unless Static is set, in which case the
// worker exits after its first successful read.
type FullFileTrackable struct {
	// Pattern is a single glob pattern (doublestar-compatible, "**" allowed).
	Pattern string
	// Selectors optionally restricts delivered top-level keys; empty means
	// all keys pass.
	Selectors []Selector
	// Parser overrides suffix-based dispatch when set.
	Parser *Parser
	// ParserArgs is passed through unchanged to the parser.
	ParserArgs map[string]any
	// Static marks a file that is written once; the worker exits cleanly
	// after one successful read.
	Static bool
	// FileType overrides suffix-based parser dispatch with an explicit tag
	// (e.g. "toml", "csv") when Parser is nil.
	FileType string
}

// TailTrackable declares a class of files to monitor incrementally, read
// only the bytes appended since the last poll.
type TailTrackable struct {
	// Pattern is a single glob pattern.
	Pattern string
	// Values extracts labeled values via regex, line by line. Mutually
	// exclusive with Parser.
	Values []LabeledPattern
	// Parser, if set, receives the joined newly-read lines as a single
	// string. Mutually exclusive with Values.
	Parser *Parser
	// ParserArgs is passed through unchanged to the parser.
	ParserArgs map[string]any
	// SkipPatterns are applied to each newly read line before parsing;
	// matching lines are dropped.
	SkipPatterns []*regexp.Regexp
	// Convert disables numeric conversion of extracted values when false.
	// Defaults to true when nil (see convertEnabled).
	Convert *bool
}

func (t TailTrackable) convertEnabled() bool {
	if t.Convert == nil {
		return true
	}
	return *t.Convert
}
