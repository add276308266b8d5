package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/vidgrade/fs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyFrames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jpg := filepath.Join(dir, "first.JPG")
	png := filepath.Join(dir, "mid.png")
	raw := filepath.Join(dir, "last.vgframe")
	empty := filepath.Join(dir, "empty.jpg")
	require.NoError(t, os.WriteFile(jpg, []byte("\xff\xd8\xff\xe0jpeg"), 0o644))
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\npng"), 0o644))
	require.NoError(t, os.WriteFile(raw, []byte("\x89PNG\r\n\x1a\nraw"), 0o644))
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	frames := fs.LoadKeyFrames([]string{jpg, filepath.Join(dir, "missing.jpg"), png, empty, raw}, zerolog.Nop())

	require.Len(t, frames, 3)
	assert.Equal(t, jpg, frames[0].Name)
	assert.Equal(t, "image/jpeg", frames[0].MIMEType)
	assert.Equal(t, "image/png", frames[1].MIMEType)
	assert.Equal(t, "image/png", frames[2].MIMEType, "unknown extension falls back to sniffing")
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nraw"), frames[2].Data)
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	assert.Equal(t, filepath.Join("/tmp/xdg", fs.AppName), fs.DefaultCacheDir())
}
