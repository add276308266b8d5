// Package fs provides filesystem-backed helpers: a caching AIEvaluator
// decorator, key frame loading and the default cache location.
package fs

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/vidgrade"
	"github.com/rs/zerolog"
)

// AppName names the per-user cache directory.
const AppName = "vidgrade"

// DefaultCacheDir returns the default cache directory for vidgrade.
// Uses XDG_CACHE_HOME if set, otherwise falls back to ~/.cache/vidgrade,
// or system temp directory if home is unavailable.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// LoadKeyFrames reads the images at paths. Unreadable or empty files are
// logged and skipped. The MIME type comes from the file extension, falling
// back to content sniffing.
func LoadKeyFrames(paths []string, log zerolog.Logger) []vidgrade.KeyFrame {
	frames := make([]vidgrade.KeyFrame, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable key frame")
			continue
		}
		if len(data) == 0 {
			log.Warn().Str("path", path).Msg("skipping empty key frame")
			continue
		}
		frames = append(frames, vidgrade.KeyFrame{
			Name:     path,
			MIMEType: mimeType(path, data),
			Data:     data,
		})
	}
	return frames
}

func mimeType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return http.DetectContentType(data)
}
