package filesource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(file, []byte("video-bytes"), 0644))

	rc, name, err := PathSource{Path: file}.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "clip.mp4", name)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(content))
}

func TestPathSource_Missing(t *testing.T) {
	_, _, err := PathSource{Path: filepath.Join(t.TempDir(), "nope.mp4")}.Open(context.Background())
	require.Error(t, err)
}

func TestReaderSource(t *testing.T) {
	rc, name, err := ReaderSource{
		Name:   "stream.mp4",
		Reader: io.NopCloser(strings.NewReader("data")),
	}.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "stream.mp4", name)
}

func TestReaderSource_NilStream(t *testing.T) {
	_, _, err := ReaderSource{Name: "stream.mp4"}.Open(context.Background())
	require.Error(t, err)
}

func TestFromString_LocalPath(t *testing.T) {
	src, err := FromString("/videos/clip.mp4", nil)
	require.NoError(t, err)
	assert.Equal(t, PathSource{Path: "/videos/clip.mp4"}, src)
}

func TestFromString_S3(t *testing.T) {
	_, err := FromString("s3://bucket/path/clip.mp4", nil)
	require.Error(t, err, "s3 input without a client must be rejected")

	for _, raw := range []string{"s3://", "s3://bucket", "s3://bucket/"} {
		_, err := FromString(raw, nil)
		assert.Error(t, err, raw)
	}
}
