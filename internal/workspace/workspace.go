package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultDirName  = "uploads"
	DefaultMaxBytes = 20 << 20
	copyBufferSize  = 32 << 10
)

var ErrTooLarge = errors.New("upload exceeds size limit")

// Uploads is a scratch directory for documents awaiting extraction. Files
// are short lived: the caller deletes each one after use.
type Uploads struct {
	Dir      string
	MaxBytes int64
}

func EnsureAt(base string, maxBytes int64) (*Uploads, error) {
	if strings.TrimSpace(base) == "" {
		base = DefaultDirName
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", base, err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploads{Dir: base, MaxBytes: maxBytes}, nil
}

// Save streams r into a new file named after the sanitized original name
// with a random prefix, so concurrent uploads of the same name never collide.
// The original extension is preserved for format dispatch.
func (u *Uploads) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(u.Dir, uuid.NewString()+"_"+sanitizeSourceName(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	// read one byte past the limit to detect oversized bodies
	limited := io.LimitReader(r, u.MaxBytes+1)
	n, copyErr := io.CopyBuffer(f, limited, make([]byte, copyBufferSize))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload: %w", closeErr)
	case n > u.MaxBytes:
		_ = os.Remove(path)
		return "", ErrTooLarge
	}
	return path, nil
}

// Delete removes a saved upload. A file that is already gone is not an error.
func (u *Uploads) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func sanitizeSourceName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := filepath.Base(name)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "upload"
	}
	return base
}
