package media

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		filename string
		size     int64
		wantErr  error
	}{
		{"valid mp3", KindAudio, "word.mp3", 1024, nil},
		{"valid wav uppercase", KindAudio, "WORD.WAV", 1024, nil},
		{"valid jpeg", KindImage, "photo.jpeg", 1024, nil},
		{"valid webp", KindImage, "photo.webp", 1024, nil},
		{"audio too large", KindAudio, "word.mp3", MaxAudioSize + 1, ErrTooLarge},
		{"audio at limit", KindAudio, "word.mp3", MaxAudioSize, nil},
		{"image too large", KindImage, "photo.png", MaxImageSize + 1, ErrTooLarge},
		{"wrong format for kind", KindAudio, "word.png", 1024, ErrUnsupportedFormat},
		{"unknown extension", KindImage, "photo.tiff", 1024, ErrUnsupportedFormat},
		{"no extension", KindAudio, "word", 1024, ErrUnsupportedFormat},
		{"unknown kind", Kind("video"), "clip.mp4", 1024, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLocalStore_StoreAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("fake audio bytes")
	ref, err := store.Store(data, KindAudio, "wimwega.mp3")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(ref), "vocab_audio/"))
	assert.True(t, strings.HasSuffix(string(ref), ".mp3"))

	reader, err := store.Open(ref)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStore_ImagesGoToImageDir(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Store([]byte("png bytes"), KindImage, "photo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ref), "vocab_images/"))
}

func TestLocalStore_ValidationBeforeWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	big := make([]byte, MaxImageSize+1)
	_, err = store.Store(big, KindImage, "huge.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Store([]byte("data"), KindAudio, "word.exe")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// Rejected uploads leave nothing behind, not even temp files.
	for _, sub := range []string{"vocab_audio", "vocab_images"} {
		files, err := os.ReadDir(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.Empty(t, files)
	}
}

func TestLocalStore_SameContentSameRef(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Store([]byte("identical"), KindAudio, "a.mp3")
	require.NoError(t, err)
	second, err := store.Store([]byte("identical"), KindAudio, "b.mp3")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLocalStore_Release(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Store([]byte("bytes"), KindAudio, "word.ogg")
	require.NoError(t, err)

	require.NoError(t, store.Release(ref))

	_, err = store.Open(ref)
	assert.ErrorIs(t, err, ErrNotFound)

	// Releasing again finds nothing.
	err = store.Release(ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsEscapingRefs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []Ref{"../outside.mp3", "/etc/passwd", "vocab_audio/../../outside.mp3"} {
		err := store.Release(ref)
		assert.ErrorIs(t, err, ErrReleaseFailed, "ref %q", ref)

		_, err = store.Open(ref)
		assert.Error(t, err, "ref %q", ref)
	}
}
