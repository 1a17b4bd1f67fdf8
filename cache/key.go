package cache

import (
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Key identifies one revision of a document.
type Key struct {
	// ID is the hex blake3 digest of the lower-cased relative path.
	ID string `json:"id" yaml:"id"`
	// ModTime is the last-write time in Unix nanoseconds.
	ModTime int64 `json:"modTime" yaml:"modTime"`
	Size    int64 `json:"size"    yaml:"size"`
}

// NewKey returns the key of the file at relPath with the given metadata.
// Path separators are normalized so the key is stable across platforms.
func NewKey(relPath string, modTime time.Time, size int64) Key {
	norm := strings.ToLower(strings.ReplaceAll(relPath, `\`, "/"))
	sum := blake3.Sum256([]byte(norm))

	return Key{
		ID:      hex.EncodeToString(sum[:]),
		ModTime: modTime.UnixNano(),
		Size:    size,
	}
}

func (k Key) String() string { return k.ID }

// LogValue implements [slog.LogValuer].
func (k Key) LogValue() slog.Value {
	id := k.ID
	if len(id) > 12 {
		id = id[:12]
	}

	return slog.GroupValue(
		slog.String("id", id),
		slog.Int64("mtime", k.ModTime),
		slog.Int64("size", k.Size),
	)
}
