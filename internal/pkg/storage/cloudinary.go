package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores files as raw assets. The stored path is the asset's
// secure URL.
type Cloudinary struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
	httpClient   *http.Client
}

// NewCloudinary creates a new Cloudinary backend
func NewCloudinary(cloudName, apiKey, apiSecret, uploadFolder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "whistleblow"
	}

	return &Cloudinary{
		cld:          cld,
		uploadFolder: uploadFolder,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *Cloudinary) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     s.publicID(name),
		ResourceType: "raw",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload file: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

func (s *Cloudinary) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary returned %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Delete removes an asset from Cloudinary
func (s *Cloudinary) Delete(ctx context.Context, url string) error {
	publicID := s.publicIDFromURL(url)
	if publicID == "" {
		return errors.New("publicID is required")
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func (s *Cloudinary) publicID(name string) string {
	return s.uploadFolder + "/" + strings.TrimPrefix(name, "/")
}

// publicIDFromURL recovers "<folder>/<dir>/<file>" from a delivery URL of the
// form .../raw/upload/v123/<folder>/<dir>/<file>.
func (s *Cloudinary) publicIDFromURL(url string) string {
	idx := strings.Index(url, "/"+s.uploadFolder+"/")
	if idx < 0 {
		return ""
	}
	return path.Clean(url[idx+1:])
}
