// Package files stores attachment content on disk, addressed by opaque
// references handed out at save time.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store provides store/retrieve/delete for attachment binary content.
// References are opaque to callers and must not be guessed.
type Store interface {
	// Save writes the content of r and returns the reference for the
	// stored blob along with the number of bytes written. The original
	// filename only contributes its extension.
	Save(filename string, r io.Reader) (ref string, size int64, err error)

	// Open returns a reader over a stored blob.
	Open(ref string) (io.ReadCloser, error)

	// Remove deletes a stored blob. Callers treat failures as
	// best-effort: the error is logged, never fatal.
	Remove(ref string) error
}

// Local is a Store backed by a directory tree. Blobs are laid out under
// attachments/YYYY/MM/ with UUID names, so references never collide and
// never leak the original filename.
type Local struct {
	root string
}

// NewLocal returns a Local store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating attachment root %s: %w", dir, err)
	}
	return &Local{root: dir}, nil
}

func (l *Local) Save(filename string, r io.Reader) (string, int64, error) {
	now := time.Now().UTC()
	dir := filepath.Join("attachments", now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(filepath.Join(l.root, dir), 0o755); err != nil {
		return "", 0, fmt.Errorf("creating attachment directory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	ref := filepath.ToSlash(filepath.Join(dir, name))

	f, err := os.Create(filepath.Join(l.root, dir, name))
	if err != nil {
		return "", 0, fmt.Errorf("creating attachment file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("writing attachment: %w", err)
	}

	return ref, size, nil
}

func (l *Local) Open(ref string) (io.ReadCloser, error) {
	path, err := l.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening attachment %s: %w", ref, err)
	}
	return f, nil
}

func (l *Local) Remove(ref string) error {
	path, err := l.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing attachment %s: %w", ref, err)
	}
	return nil
}

// path resolves a reference inside the root, rejecting anything that
// would escape it.
func (l *Local) path(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid attachment ref %q", ref)
	}
	return filepath.Join(l.root, clean), nil
}
