package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)

	key := ObjectKey("resumes", "u1", "abc", ".PDF")
	assert.Equal(t, "resumes/u1/abc.pdf", key)

	url, err := store.Put(ctx, key, "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/resumes/u1/abc.pdf", url)

	data, err := os.ReadFile(filepath.Join(root, "resumes", "u1", "abc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	gotKey, ok := store.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, key, gotKey)

	_, ok = store.KeyFromURL("https://elsewhere.example.com/x.pdf")
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Put(ctx, "../escape.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCompressImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1024, 256))
	for x := 0; x < 1024; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := CompressImage(buf.Bytes(), 512, 80)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, decoded.Bounds().Dx())
	assert.Equal(t, 128, decoded.Bounds().Dy())

	_, err = CompressImage([]byte("not an image"), 512, 80)
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(100, 50, 512)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	w, h = fitWithin(300, 1200, 600)
	assert.Equal(t, 150, w)
	assert.Equal(t, 600, h)
}
