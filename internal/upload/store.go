package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// PathPrefix marks a server-relative upload path. Static files are served under it.
const PathPrefix = "/uploads/"

// DiskStore keeps uploaded images in a local directory.
type DiskStore struct {
	Dir      string
	MaxBytes int64
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save writes fh under a generated name and returns its public path.
// Parts that are not images, or exceed MaxBytes, are rejected.
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", apperr.Validation("image %q exceeds %d bytes", fh.Filename, s.MaxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperr.Validation("file %q is not an image", fh.Filename)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.New().String() + mtype.Extension()
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close upload: %w", err)
	}
	return PathPrefix + name, nil
}

// Remove deletes a file previously returned by Save. Missing files are not an error.
func (s *DiskStore) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PathPrefix) {
		return fmt.Errorf("not an upload path: %q", publicPath)
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, PathPrefix))
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
