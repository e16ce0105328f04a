package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"pamoja-backend/internal/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore uploads files to Cloudinary. References are the secure delivery URLs.
type CloudinaryStore struct {
	cld        *cloudinary.Cloudinary
	httpClient *http.Client
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryStore{cld: cld, httpClient: &http.Client{Timeout: 60 * time.Second}}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := CheckExtension(filename); err != nil {
		return "", err
	}

	logger.ExternalServiceCall("cloudinary", "Upload", "folder", folder)
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.New().String(),
		ResourceType: "auto",
	})
	logger.ExternalServiceResult("cloudinary", "Upload", err)
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, ErrFileNotFound
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download error: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrFileNotFound
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("download error: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID, err := PublicID(ref)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("cloudinary", "Destroy", "publicID", publicID)
	_, err = s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	logger.ExternalServiceResult("cloudinary", "Destroy", err)
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicID extracts the Cloudinary public ID from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/payment_proofs/abc.png.
func PublicID(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 1 && versionSegment.MatchString(parts[0]) {
		parts = parts[1:]
	}
	joined := path.Join(parts...)
	return strings.TrimSuffix(joined, path.Ext(joined)), nil
}
