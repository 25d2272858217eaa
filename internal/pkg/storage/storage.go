package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when the stored object no longer exists.
var ErrNotFound = errors.New("stored object not found")

// Storage persists uploaded payloads and returns the path they can be read
// back from. Paths are opaque to callers.
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

type Config struct {
	Backend string
	// local
	UploadDir string
	// cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	// gcs
	GCSBucket          string
	GCSCredentialsJSON []byte
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
}

// File validation constants
var (
	AllowedImageTypes    = []string{".jpg", ".jpeg", ".png", ".gif"}
	AllowedDocumentTypes = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".txt"}
	AllowedMediaTypes    = []string{".mp4", ".mov", ".mp3", ".wav", ".m4a"}
)

// ValidateFile checks an uploaded file's size and extension.
func ValidateFile(header *multipart.FileHeader, maxSize int64) error {
	if header.Size <= 0 {
		return fmt.Errorf("file %s is empty", header.Filename)
	}
	if maxSize > 0 && header.Size > maxSize {
		return fmt.Errorf("file %s exceeds maximum allowed size of %d MB", header.Filename, maxSize/(1024*1024))
	}

	ext := Extension(header.Filename)
	if !isAllowedExtension(ext, AllowedImageTypes) &&
		!isAllowedExtension(ext, AllowedDocumentTypes) &&
		!isAllowedExtension(ext, AllowedMediaTypes) {
		return fmt.Errorf("invalid file type: %s", ext)
	}
	return nil
}

// IsImage reports whether filename has an image extension.
func IsImage(filename string) bool {
	return isAllowedExtension(Extension(filename), AllowedImageTypes)
}

// ObjectName returns a collision-free name under dir keeping the extension.
func ObjectName(dir, filename string) string {
	return dir + "/" + uuid.NewString() + Extension(filename)
}

// Extension returns the lowercase file extension including the dot
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func isAllowedExtension(ext string, allowedTypes []string) bool {
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
