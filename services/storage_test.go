package services

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())
	content := []byte("evidence payload")

	result, err := storage.UploadReader(context.Background(),
		bytes.NewReader(content), "evidence/photo.jpg", "image/jpeg", int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, "evidence/photo.jpg", result.Key)
	assert.Equal(t, "photo.jpg", result.FileName)
	assert.Equal(t, int64(len(content)), result.FileSize)

	reader, contentType, err := storage.Get(context.Background(), "evidence/photo.jpg")
	require.NoError(t, err)
	defer reader.Close()

	read, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, read)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestLocalStorageGetRejectsTraversal(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())

	_, _, err := storage.Get(context.Background(), "../outside.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestLocalStorageDelete(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())

	_, err := storage.UploadReader(context.Background(),
		bytes.NewReader([]byte("x")), "evidence/gone.pdf", "application/pdf", 1)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(context.Background(), "evidence/gone.pdf"))
	_, _, err = storage.Get(context.Background(), "evidence/gone.pdf")
	assert.Error(t, err)

	// Deleting a missing key is not an error
	assert.NoError(t, storage.Delete(context.Background(), "evidence/never-existed.pdf"))
}

func TestGenerateEvidenceKey(t *testing.T) {
	key := GenerateEvidenceKey("report-photo.PNG")
	assert.Regexp(t, regexp.MustCompile(`^evidence/[0-9a-f-]{36}_\d+\.PNG$`), key)

	// Keys are unique across calls for the same filename
	assert.NotEqual(t, key, GenerateEvidenceKey("report-photo.PNG"))
}

func TestEvidenceKey(t *testing.T) {
	assert.Equal(t, "evidence/camera_1718486400000_0.jpg", EvidenceKey("camera_1718486400000_0.jpg"))
}

func TestContentTypeForKey(t *testing.T) {
	assert.Equal(t, "application/pdf", contentTypeForKey("evidence/doc.pdf"))
	assert.Equal(t, "image/jpeg", contentTypeForKey("evidence/shot.JPG"))
	assert.Equal(t, "application/octet-stream", contentTypeForKey("evidence/blob.bin"))
}
