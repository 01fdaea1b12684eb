// Package tempfile materializes analysis payloads as uniquely named files
// under the platform temp directory and guarantees their removal.
package tempfile

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const prefix = "scanbridge"

// keeps long client names from blowing past file name limits while still
// preserving the extension at the tail
const maxNameLen = 64

// ResourceError reports a temp file creation or removal failure. Removal
// failures are only logged, they must never mask an analysis result.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("temp file %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Spill writes payload to a freshly named temp file and returns its path
// together with a cleanup closure. The UUID in the name keeps simultaneous
// requests collision free where a wall clock timestamp would not. When
// originalName is given, a sanitized form of it is appended so engines
// relying on extension cues still see them.
func Spill(payload []byte, originalName string) (string, func(), error) {
	name := prefix + "-" + uuid.NewString()
	if sanitized := SanitizeName(originalName); sanitized != "" {
		name = name + "-" + sanitized
	}

	tmpPath := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(tmpPath, payload, 0600); err != nil {
		return "", func() {}, &ResourceError{Path: tmpPath, Err: err}
	}

	cleanup := func() {
		err := os.Remove(tmpPath)
		if err != nil && !os.IsNotExist(err) {
			log.Error().Err(&ResourceError{Path: tmpPath, Err: err}).Msg("Failed removing temp file")
		}
	}

	return tmpPath, cleanup, nil
}

// SanitizeName reduces a client supplied file name to a safe base name:
// no directory separators, no traversal, conservative character set.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if len(out) > maxNameLen {
		out = out[len(out)-maxNameLen:]
	}

	return out
}
