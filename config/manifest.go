// Package config adds a declarative TOML manifest on top of the
// programmatic multiparser.Session/Option surface.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/ukaea/multiparser"
)

// Manifest is the TOML shape of a multiparser configuration file. A
// Parser-bound trackable cannot be expressed declaratively (there is no
// way to name a Go function in TOML), so the manifest only reaches
// built-in parsers dispatched by suffix or FileType.
type Manifest struct {
	Interval           string `toml:"interval"`
	Timeout            string `toml:"timeout"`
	FlattenData        bool   `toml:"flatten_data"`
	TerminateAllOnFail bool   `toml:"terminate_all_on_fail"`
	LockCallbacks      *bool  `toml:"lock_callbacks"`
	LogLevel           string `toml:"log_level"`

	Exclude []string `toml:"exclude"`

	Track []TrackEntry `toml:"track"`
	Tail  []TailEntry  `toml:"tail"`
}

// TrackEntry declares one full-file trackable.
type TrackEntry struct {
	Pattern   string   `toml:"pattern"`
	Selectors []string `toml:"selectors"`
	FileType  string   `toml:"file_type"`
	Static    bool     `toml:"static"`
}

// TailEntry declares one tail trackable.
type TailEntry struct {
	Pattern      string       `toml:"pattern"`
	Values       []ValueEntry `toml:"values"`
	SkipPatterns []string     `toml:"skip_patterns"`
	Convert      *bool        `toml:"convert"`
}

// ValueEntry declares one labeled tail-extraction regex.
type ValueEntry struct {
	Label string `toml:"label"`
	Regex string `toml:"regex"`
}

// Load decodes a manifest file. It does not validate trackable patterns or
// regexes; call Apply for that.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return &m, nil
}

// Options builds the Session construction options implied by the
// manifest's top-level settings (everything except trackables, which
// Apply registers after the Session exists).
func (m *Manifest) Options() ([]multiparser.Option, error) {
	var opts []multiparser.Option
	var errs error

	if m.Interval != "" {
		d, err := time.ParseDuration(m.Interval)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("config: interval: %w", err))
		} else {
			opts = append(opts, multiparser.WithInterval(d))
		}
	}
	if m.Timeout != "" {
		d, err := time.ParseDuration(m.Timeout)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("config: timeout: %w", err))
		} else {
			opts = append(opts, multiparser.WithTimeout(d))
		}
	}
	if m.LogLevel != "" {
		opts = append(opts, multiparser.WithLogLevel(m.LogLevel))
	}
	if m.LockCallbacks != nil {
		opts = append(opts, multiparser.WithLockCallbacks(*m.LockCallbacks))
	}
	opts = append(opts, multiparser.WithFlattenData(m.FlattenData))
	opts = append(opts, multiparser.WithTerminateAllOnFail(m.TerminateAllOnFail))

	return opts, errs
}

// Apply registers the manifest's excludes and trackables against an
// already-constructed Session, aggregating every validation failure (bad
// pattern, bad regex, conflicting tail fields) into a single
// *multierror.Error instead of stopping at the first one.
func Apply(s *multiparser.Session, m *Manifest) error {
	var errs error

	if len(m.Exclude) > 0 {
		if err := s.Exclude(m.Exclude...); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	for _, te := range m.Track {
		selectors := make([]multiparser.Selector, 0, len(te.Selectors))
		for _, sel := range te.Selectors {
			selectors = append(selectors, multiparser.Literal(sel))
		}
		err := s.Track(multiparser.FullFileTrackable{
			Pattern:   te.Pattern,
			Selectors: selectors,
			FileType:  te.FileType,
			Static:    te.Static,
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	for _, tl := range m.Tail {
		values := make([]multiparser.LabeledPattern, 0, len(tl.Values))
		for _, ve := range tl.Values {
			re, err := regexp.Compile(ve.Regex)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("config: tail %q: value regex %q: %w", tl.Pattern, ve.Regex, err))
				continue
			}
			if ve.Label != "" {
				values = append(values, multiparser.LabeledValue(ve.Label, re))
			} else {
				values = append(values, multiparser.Value(re))
			}
		}

		skips := make([]*regexp.Regexp, 0, len(tl.SkipPatterns))
		for _, sp := range tl.SkipPatterns {
			re, err := regexp.Compile(sp)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("config: tail %q: skip pattern %q: %w", tl.Pattern, sp, err))
				continue
			}
			skips = append(skips, re)
		}

		err := s.Tail(multiparser.TailTrackable{
			Pattern:      tl.Pattern,
			Values:       values,
			SkipPatterns: skips,
			Convert:      tl.Convert,
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs
}
