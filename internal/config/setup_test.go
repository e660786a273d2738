package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "monctrl.setup")

	s := &Setup{Style: "both", HistoryLength: 6, Rows: 25}
	s.SetClosedGroups([]string{"south", "north"})
	require.NoError(t, s.SaveSetup(path))

	loaded, err := LoadSetup(path)
	require.NoError(t, err)
	assert.Equal(t, "both", loaded.Style)
	assert.Equal(t, 6, loaded.HistoryLength)
	assert.Equal(t, 25, loaded.Rows)
	assert.Equal(t, "south|north", loaded.ClosedGroups)
	assert.Equal(t, []string{"south", "north"}, loaded.ClosedGroupList())
}

func TestLoadSetupMissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSetup(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, s.ClosedGroups)
	assert.Nil(t, s.ClosedGroupList())
}

func TestLoadSetupRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup")
	require.NoError(t, os.WriteFile(path, []byte("\tnot: [valid: yaml"), 0o644))

	_, err := LoadSetup(path)
	assert.Error(t, err)
}
