// Package upload stores product images on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Laptop-Academy1999/store/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var allowedTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadError reports a rejected file.
type UploadError struct {
	Filename string
	Message  string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s", e.Filename, e.Message)
}

func IsUploadError(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

type LocalStore struct {
	dir      string
	prefix   string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:      cfg.Dir,
		prefix:   strings.TrimSuffix(cfg.PublicPrefix, "/"),
		maxBytes: cfg.MaxBytes,
		now:      time.Now,
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save checks fh and writes it under a fresh name, returning its public URL.
// Extension, declared content type and sniffed content must all agree on a
// supported image type.
func (s *LocalStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", &UploadError{Filename: fh.Filename, Message: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := allowedTypes[ext]
	if !ok {
		return "", &UploadError{Filename: fh.Filename, Message: "unsupported file type, use JPEG, JPG, PNG or WEBP"}
	}
	if declared := fh.Header.Get("Content-Type"); declared != "" && !strings.HasPrefix(declared, want) {
		return "", &UploadError{Filename: fh.Filename, Message: fmt.Sprintf("content type %q does not match %s", declared, ext)}
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if !detected.Is(want) {
		return "", &UploadError{Filename: fh.Filename, Message: fmt.Sprintf("file content is %s, not %s", detected.String(), want)}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.maxBytes {
		err = &UploadError{Filename: fh.Filename, Message: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", err
	}

	return path.Join(s.prefix, name), nil
}
