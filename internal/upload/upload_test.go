package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// smallest valid PNG header is enough for sniffing
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"][0]
}

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, 1<<20)
	require.NoError(t, err)

	p, err := s.Save(fileHeader(t, "front.png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, PathPrefix))
	assert.True(t, strings.HasSuffix(p, ".png"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(p, PathPrefix))
	got, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)

	require.NoError(t, s.Remove(p))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// second remove is a no-op
	require.NoError(t, s.Remove(p))
}

func TestSaveRejectsNonImage(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "notes.txt", []byte("just text")))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestSaveRejectsOversize(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), 8)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "big.png", pngBytes))
	assert.True(t, apperr.IsValidation(err))
}

func TestRemoveRejectsForeignPath(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Error(t, s.Remove("/etc/passwd"))
}

func TestPublicURL(t *testing.T) {
	const origin = "http://localhost:5000/"
	assert.Equal(t, "http://localhost:5000/uploads/a.png", PublicURL(origin, "/uploads/a.png", "/placeholder.png"))
	assert.Equal(t, "https://cdn.example.com/b.jpg", PublicURL(origin, "https://cdn.example.com/b.jpg", "/placeholder.png"))
	assert.Equal(t, "/placeholder.png", PublicURL(origin, "", "/placeholder.png"))

	assert.Equal(t, "/placeholder.png", FirstImageURL(origin, nil, "/placeholder.png"))
	assert.Equal(t, "http://localhost:5000/uploads/x.jpg", FirstImageURL(origin, []string{"/uploads/x.jpg", "/uploads/y.jpg"}, ""))
}
