// Package filesystem reads configuration files and writes them back
// atomically. All access goes through an afero.Fs so callers and tests can
// swap the real disk for memory.
package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sagarc03/tomato"
	"github.com/spf13/afero"
)

// ErrNotFound is returned by Read when the file does not exist.
var ErrNotFound = errors.New("file not found")

// SaveResult describes a completed write.
type SaveResult struct {
	BytesWritten int64
	// Checksum is the hex SHA256 of the written content.
	Checksum string
}

// Store provides file operations on top of an afero.Fs.
type Store struct {
	fs afero.Fs
}

// New creates a Store on fs.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOsStore creates a Store on the real file system.
func NewOsStore() *Store {
	return New(afero.NewOsFs())
}

// Fs returns the underlying file system.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Read returns the content of path. A missing file gives ErrNotFound and a
// file that cannot be opened for reading gives tomato.ErrPermissionDenied.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, classify(path, err)
	}
	return data, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", tomato.ErrPermissionDenied, path)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// CheckWritable verifies that path could be written: an existing file must
// be writable, otherwise its directory must exist and accept new files.
// Nothing is left behind on disk.
func (s *Store) CheckWritable(path string) error {
	if err := s.checkTarget(path); err != nil {
		return err
	}

	tmp, err := s.createTemp(filepath.Dir(path), 0o600)
	if err != nil {
		return err
	}
	name := tmp.Name()
	if closeErr := tmp.Close(); closeErr != nil {
		slog.Warn("failed to close tmp file", "err", closeErr)
	}
	if rmErr := s.fs.Remove(name); rmErr != nil {
		slog.Warn("failed to remove tmp file", "err", rmErr)
	}
	return nil
}

// checkTarget validates path itself and its directory without creating
// anything.
func (s *Store) checkTarget(path string) error {
	dir := filepath.Dir(path)
	info, err := s.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", tomato.ErrDirectoryNotFound, dir)
	}

	info, err = s.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s is a directory", tomato.ErrPermissionDenied, path)
	}

	f, err := s.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", tomato.ErrPermissionDenied, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	if closeErr := f.Close(); closeErr != nil {
		slog.Warn("failed to close file", "path", path, "err", closeErr)
	}
	return nil
}

func (s *Store) createTemp(dir string, perm os.FileMode) (afero.File, error) {
	name := filepath.Join(dir, tmpFileName())
	t, err := s.fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: cannot create files in %s", tomato.ErrPermissionDenied, dir)
		}
		return nil, fmt.Errorf("could not open temp file: %w", err)
	}
	return t, nil
}

// Write atomically replaces path with content using a temp file in the same
// directory and a rename. The directory must already exist; Write never
// creates directories. An existing file keeps its permission bits.
func (s *Store) Write(path string, content io.Reader) (SaveResult, error) {
	if err := s.checkTarget(path); err != nil {
		return SaveResult{}, err
	}

	perm := os.FileMode(0o644)
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	t, err := s.createTemp(filepath.Dir(path), perm)
	if err != nil {
		return SaveResult{}, err
	}
	tmpFile := t.Name()

	success := false
	closed := false
	defer func() {
		if !closed {
			if closeErr := t.Close(); closeErr != nil {
				slog.Warn("failed to close tmp file", "err", closeErr)
			}
		}
		if !success {
			if rmErr := s.fs.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	fileSizeBytes, err := io.Copy(w, content)
	if err != nil {
		return SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	closed = true
	if err := t.Close(); err != nil {
		return SaveResult{}, fmt.Errorf("could not close temp file: %w", err)
	}

	if renameErr := s.fs.Rename(tmpFile, path); renameErr != nil {
		return SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return SaveResult{BytesWritten: fileSizeBytes, Checksum: hex.EncodeToString(h.Sum(nil))}, nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
