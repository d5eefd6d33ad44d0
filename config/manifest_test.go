package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ukaea/multiparser"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDecodesTopLevelSettings(t *testing.T) {
	path := writeManifest(t, `
interval = "10ms"
timeout = "1s"
flatten_data = true
log_level = "debug"
`)

	m, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, "10ms", m.Interval)
	require.True(t, m.FlattenData)
}

func TestOptionsParsesDurations(t *testing.T) {
	m := &Manifest{Interval: "10ms", Timeout: "1s"}

	opts, err := m.Options()

	require.NoError(t, err)
	require.NotEmpty(t, opts)
}

func TestOptionsRejectsBadDuration(t *testing.T) {
	m := &Manifest{Interval: "not-a-duration"}

	_, err := m.Options()

	require.Error(t, err)
}

func TestApplyRegistersTrackAndTail(t *testing.T) {
	dir := t.TempDir()
	trackPath := filepath.Join(dir, "config.csv")
	require.NoError(t, os.WriteFile(trackPath, []byte("a,b\n1,2\n"), 0o644))
	tailPath := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(tailPath, []byte(""), 0o644))

	m := &Manifest{
		Track: []TrackEntry{{Pattern: trackPath, FileType: "csv"}},
		Tail: []TailEntry{{
			Pattern: tailPath,
			Values:  []ValueEntry{{Label: "status", Regex: "ready"}},
		}},
	}

	s := multiparser.New(multiparser.WithPerThreadCallback(func(multiparser.Record, multiparser.Metadata) {}))

	err := Apply(s, m)

	require.NoError(t, err)
}

func TestApplyAggregatesMultipleErrors(t *testing.T) {
	m := &Manifest{
		Track: []TrackEntry{{Pattern: "["}},
		Tail: []TailEntry{{
			Pattern: "valid-literal-path-not-required-to-exist",
			Values:  []ValueEntry{{Label: "x", Regex: "("}},
		}},
	}

	s := multiparser.New(multiparser.WithPerThreadCallback(func(multiparser.Record, multiparser.Metadata) {}))

	err := Apply(s, m)

	require.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	require.Error(t, err)
}
