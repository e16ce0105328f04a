package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pamoja-backend/internal/logger"

	"github.com/google/uuid"
)

// LocalStore keeps files under a directory on the server's filesystem.
// References are paths relative to that directory, e.g. "payment_proofs/<uuid>.png".
type LocalStore struct {
	uploadsDir string
}

func NewLocalStore(uploadsDir string) (*LocalStore, error) {
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{uploadsDir: uploadsDir}, nil
}

func (s *LocalStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := CheckExtension(filename); err != nil {
		return "", err
	}

	dir := filepath.Join(s.uploadsDir, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ref := filepath.ToSlash(filepath.Join(strings.Trim(filepath.Clean("/"+folder), "/"),
		uuid.New().String()+strings.ToLower(filepath.Ext(filename))))
	file, err := os.Create(filepath.Join(s.uploadsDir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, r)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	logger.Debug("Stored upload", "ref", ref, "bytes", n)
	return ref, nil
}

func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	return file, err
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// path resolves ref inside the uploads directory and refuses traversal.
func (s *LocalStore) path(ref string) (string, error) {
	if ref == "" {
		return "", ErrFileNotFound
	}
	cleaned := filepath.Clean("/" + ref)
	if strings.Contains(ref, "..") {
		return "", ErrFileNotFound
	}
	return filepath.Join(s.uploadsDir, cleaned), nil
}
