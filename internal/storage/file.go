package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores each key as a JSON file under a base directory.
type FileKV struct {
	basePath string
}

// Compile-time check that FileKV implements KV.
var _ KV = (*FileKV)(nil)

// NewFileKV creates a store rooted at basePath. The directory is created on
// the first Put.
func NewFileKV(basePath string) *FileKV {
	return &FileKV{basePath: basePath}
}

// FilePath returns the path the value for key is stored at.
func (f *FileKV) FilePath(key string) string {
	return filepath.Join(f.basePath, SanitizeKey(key)+".json")
}

// Get reads the value stored under key.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.FilePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

// Put writes value under key. The write goes to a temporary file that is
// renamed into place, so readers never see a partial value.
func (f *FileKV) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.basePath, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := os.Rename(tmpName, f.FilePath(key)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// SanitizeKey maps a key to a safe file name. Letters, digits, '-', '_' and
// '.' are kept and every other byte becomes %XX, so distinct keys never share
// a file. Keys made only of dots are fully escaped, and the empty key maps to
// "%", which no other key produces.
func SanitizeKey(key string) string {
	if key == "" {
		return "%"
	}
	dotsOnly := strings.Trim(key, ".") == ""
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '.' && !dotsOnly,
			c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
