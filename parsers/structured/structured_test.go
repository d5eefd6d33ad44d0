package structured

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecodesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "title = \"demo\"\n\n[server]\nport = 8080\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, value, err := parse(path, nil)

	require.NoError(t, err)
	record, ok := value.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "demo", record["title"])

	server, ok := record["server"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 8080, server["port"])
}

func TestParseInvalidTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = valid = toml"), 0o644))

	_, _, err := parse(path, nil)

	require.Error(t, err)
}
