// Package storage keeps uploaded payment proofs, ID documents and member documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// FileStore saves uploads and returns an opaque reference that is stored on the entity.
type FileStore interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// Config holds storage configuration
type Config struct {
	Type                string // "local" or "cloudinary"
	UploadDir           string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// New builds the FileStore selected by cfg.Type.
func New(cfg Config) (FileStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.UploadDir)
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// CheckExtension accepts the image and PDF uploads members may attach.
func CheckExtension(filename string) error {
	if _, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
	return nil
}

// ContentType determines the MIME type from a reference's extension.
func ContentType(ref string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(ref))]; ok {
		return ct
	}
	return "application/octet-stream"
}
