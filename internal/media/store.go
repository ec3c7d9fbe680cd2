// Package media owns the contract for storing, replacing and deleting the
// binary assets (audio and image) attached to vocabulary entries. The core
// depends on the Store interface only; physical storage is injected.
package media

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// Ref is an opaque handle identifying a stored asset.
type Ref string

const (
	MaxAudioSize = 10 << 20 // 10MB
	MaxImageSize = 5 << 20  // 5MB
)

var (
	// ErrTooLarge is returned before any bytes are persisted.
	ErrTooLarge = errors.New("media: asset exceeds size limit")
	// ErrUnsupportedFormat is returned before any bytes are persisted.
	ErrUnsupportedFormat = errors.New("media: unsupported format")
	// ErrReleaseFailed reports an inconsistent delete (permission error,
	// storage fault). Non-fatal to the caller's overall operation.
	ErrReleaseFailed = errors.New("media: release failed")
	// ErrNotFound reports a ref with no asset behind it. A release that
	// finds nothing to delete is treated as already done.
	ErrNotFound = errors.New("media: asset not found")
)

var audioFormats = map[string]bool{
	"mp3": true,
	"wav": true,
	"ogg": true,
	"m4a": true,
}

var imageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// Store is the media store adapter consumed by the entry repository.
// Release is always invoked for the previous ref, never the newly stored
// one, and only after the new ref is committed.
type Store interface {
	// Store validates and persists an asset, returning its ref.
	// Validation failures occur before any write.
	Store(data []byte, kind Kind, filename string) (Ref, error)
	// Release deletes the physical asset behind ref.
	Release(ref Ref) error
	// Open returns a reader over the stored asset, for serving.
	Open(ref Ref) (io.ReadCloser, error)
}

// Validate checks size and format limits for an asset without touching
// storage. Format is judged by the file extension, matching how uploads
// are named by the contributing client.
func Validate(kind Kind, filename string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	switch kind {
	case KindAudio:
		if !audioFormats[ext] {
			return fmt.Errorf("%w: audio %q", ErrUnsupportedFormat, ext)
		}
		if size > MaxAudioSize {
			return fmt.Errorf("%w: audio %d bytes (max %d)", ErrTooLarge, size, MaxAudioSize)
		}
	case KindImage:
		if !imageFormats[ext] {
			return fmt.Errorf("%w: image %q", ErrUnsupportedFormat, ext)
		}
		if size > MaxImageSize {
			return fmt.Errorf("%w: image %d bytes (max %d)", ErrTooLarge, size, MaxImageSize)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrUnsupportedFormat, kind)
	}
	return nil
}
