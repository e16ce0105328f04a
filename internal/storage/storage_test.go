package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "payment_proofs", "receipt.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "payment_proofs/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	rc, err := store.Open(ctx, ref)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Open(ctx, ref)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStore_Rejects(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "documents", "script.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("documents/a.pdf"))
	assert.Equal(t, "image/jpeg", ContentType("x.JPG"))
	assert.Equal(t, "application/octet-stream", ContentType("x.bin"))
}

func TestPublicID(t *testing.T) {
	id, err := PublicID("https://res.cloudinary.com/demo/image/upload/v1712345678/payment_proofs/abc123.png")
	require.NoError(t, err)
	assert.Equal(t, "payment_proofs/abc123", id)

	id, err = PublicID("https://res.cloudinary.com/demo/raw/upload/documents/deed.pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/deed", id)

	_, err = PublicID("https://example.com/nothing-here.png")
	assert.Error(t, err)
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "s3"})
	assert.Error(t, err)
}
