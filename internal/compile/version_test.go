package compile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpPatch(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.0.0", "1.0.1", false},
		{"0.9.41", "0.9.42", false},
		{"2.10.99", "2.10.100", false},
		{"1.0", "", true},
		{"1.0.0.0", "", true},
		{"1.0.x", "", true},
		{"1.0.-1", "", true},
	}

	for _, tc := range tests {
		got, err := BumpPatch(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			assert.IsType(t, &VersionError{}, err)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

const metaJSON = `{
  "name": "ClickHouse Best Practices",
  "version": "1.4.2",
  "organization": "ClickHouse",
  "abstract": "Curated rules.",
  "sections": [
    {"name": "Schema Design", "prefix": "schema-", "impact": "high", "rank": 1}
  ]
}`

func writeMeta(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skill.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestUpgradeVersion_ReadModifyWrite(t *testing.T) {
	path := writeMeta(t, metaJSON)

	next, err := UpgradeVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "1.4.3", next)

	// The bump re-reads from disk each time, so repeated calls keep
	// advancing instead of acting on a stale value.
	next, err = UpgradeVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "1.4.4", next)

	meta, err := LoadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "1.4.4", meta.Version)
}

func TestLoadMeta_SchemaRejectsBadMetadata(t *testing.T) {
	path := writeMeta(t, `{"name": "x", "version": "not-semver", "sections": [{"name": "s", "prefix": "p", "impact": "low", "rank": 1}]}`)

	_, err := LoadMeta(path)
	require.Error(t, err)
	assert.IsType(t, &MetaError{}, err)
}

func TestLoadMeta_MissingFile(t *testing.T) {
	_, err := LoadMeta(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.IsType(t, &MetaError{}, err)
}

func TestSaveMeta_RoundTrip(t *testing.T) {
	path := writeMeta(t, metaJSON)

	meta, err := LoadMeta(path)
	require.NoError(t, err)

	meta.Version = "2.0.0"
	require.NoError(t, SaveMeta(path, meta))

	reloaded, err := LoadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reloaded.Version)
	assert.Equal(t, meta.Sections, reloaded.Sections)
}
