// Package fs provides file-based storage for document contents.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Ensure ContentStore implements segsocial.ContentStore at compile time.
var _ segsocial.ContentStore = (*ContentStore)(nil)

// ContentStore keeps full document texts as files under a base
// directory. Refs are relative paths like "ley_24241.md".
type ContentStore struct {
	baseDir string
}

// NewContentStore creates a new ContentStore rooted at baseDir.
func NewContentStore(baseDir string) *ContentStore {
	return &ContentStore{baseDir: baseDir}
}

// ReadContent returns the full text stored under ref.
func (s *ContentStore) ReadContent(ctx context.Context, ref string) (string, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", segsocial.Errorf(segsocial.ENOTFOUND, "content %q not found", ref)
	}
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WriteContent stores content under ref, replacing any previous
// version. The write goes through a temporary file and a rename so
// readers never observe a partial file.
func (s *ContentStore) WriteContent(ctx context.Context, ref, content string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".content-*")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// RemoveContent deletes the content stored under ref. Removing a ref
// that does not exist is not an error.
func (s *ContentStore) RemoveContent(ctx context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve maps a ref to an absolute path, rejecting refs that would
// escape the base directory.
func (s *ContentStore) resolve(ref string) (string, error) {
	if ref == "" {
		return "", segsocial.Errorf(segsocial.EINVALID, "content ref required")
	}
	if filepath.IsAbs(ref) || strings.Contains(ref, "..") {
		return "", segsocial.Errorf(segsocial.EINVALID, "invalid content ref %q", ref)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(ref)), nil
}
