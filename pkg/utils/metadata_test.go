package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNftMetadata_Inline(t *testing.T) {
	meta, err := ParseNftMetadata(`{"name":"My Clip","traits":{"mood":"calm"}}`)
	require.NoError(t, err)
	assert.Equal(t, "My Clip", meta["name"])
}

func TestParseNftMetadata_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"description":"from file"}`), 0644))

	meta, err := ParseNftMetadata("@" + file)
	require.NoError(t, err)
	assert.Equal(t, "from file", meta["description"])
}

func TestParseNftMetadata_Empty(t *testing.T) {
	meta, err := ParseNftMetadata("")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestParseNftMetadata_Invalid(t *testing.T) {
	_, err := ParseNftMetadata(`["not","an","object"]`)
	require.Error(t, err)

	_, err = ParseNftMetadata("@" + filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
