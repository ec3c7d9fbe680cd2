package media

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	audioDir = "vocab_audio"
	imageDir = "vocab_images"
)

// LocalStore keeps assets on the local filesystem under a base directory,
// split into vocab_audio/ and vocab_images/ subdirectories.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the storage directories if missing.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	for _, sub := range []string{audioDir, imageDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create media dir: %w", err)
		}
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Store validates the asset and then writes it atomically (temp file plus
// rename) so a failed write never leaves a partial asset behind.
func (s *LocalStore) Store(data []byte, kind Kind, filename string) (Ref, error) {
	if err := Validate(kind, filename, int64(len(data))); err != nil {
		return "", err
	}

	sub := audioDir
	if kind == KindImage {
		sub = imageDir
	}

	name := assetFilename(data, filename)
	finalPath := filepath.Join(s.baseDir, sub, name)

	tmpFile, err := os.CreateTemp(filepath.Join(s.baseDir, sub), "upload_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("commit asset: %w", err)
	}

	return Ref(filepath.ToSlash(filepath.Join(sub, name))), nil
}

// Release deletes the physical asset. A vanished file answers ErrNotFound;
// anything else is reported as ErrReleaseFailed for the audit trail.
func (s *LocalStore) Release(ref Ref) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return fmt.Errorf("%w: %v", ErrReleaseFailed, err)
	}
	return nil
}

// Open returns a reader over the stored asset.
func (s *LocalStore) Open(ref Ref) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, err
	}
	return f, nil
}

// resolve maps a ref back to a path, rejecting anything that escapes the
// base directory.
func (s *LocalStore) resolve(ref Ref) (string, error) {
	clean := filepath.Clean(string(ref))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: invalid ref %q", ErrReleaseFailed, ref)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// assetFilename derives a stable unique name from the content hash,
// preserving the original extension.
func assetFilename(data []byte, original string) string {
	hash := sha256.Sum256(data)
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%x%s", hash[:12], ext)
}
