package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
)

// Acquirer obtains raw image bytes and writes them into the content store
// under a freshly generated identifier.
type Acquirer interface {
	// AcquireFromUpload writes an uploaded byte stream to the content store.
	AcquireFromUpload(r io.Reader, originalFilename, contentType string) (*ImageRecord, error)

	// AcquireFromURL downloads an image with a single streaming GET.
	// A non-200 status or transfer error is terminal; there is no retry.
	AcquireFromURL(ctx context.Context, imageURL string) (*ImageRecord, error)

	// Delete removes a stored artifact. Callers invoke it when a downstream
	// stage rejects the image, so no orphan file survives that path.
	Delete(record *ImageRecord) error
}

// LocalAcquirer stores acquired images in a local data directory.
type LocalAcquirer struct {
	dataDir      string
	client       *http.Client
	fetchTimeout time.Duration
}

// NewLocalAcquirer creates the data directory if needed and builds an HTTP
// client tuned for one-shot image downloads.
func NewLocalAcquirer(dataDir string, fetchTimeout time.Duration) (*LocalAcquirer, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w", dataDir, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &LocalAcquirer{
		dataDir: dataDir,
		client: &http.Client{
			Transport: transport,
			Timeout:   fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		fetchTimeout: fetchTimeout,
	}, nil
}

// newIdentifier generates the opaque stored filename. Every artifact is
// re-encoded to JPEG during normalization, hence the fixed extension.
func newIdentifier() string {
	return uuid.New().String() + ".jpg"
}

func (a *LocalAcquirer) AcquireFromUpload(r io.Reader, originalFilename, contentType string) (*ImageRecord, error) {
	id := newIdentifier()
	path := filepath.Join(a.dataDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewAcquisitionError("failed to create image file", err)
	}

	size, err := io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, apperrors.NewAcquisitionError("failed to store uploaded image", err)
	}

	logger.WithFields(logrus.Fields{
		"original_filename": originalFilename,
		"stored_as":         id,
		"size_bytes":        size,
	}).Info("Saved uploaded image")

	return &ImageRecord{
		ID:          id,
		Path:        path,
		Origin:      OriginUpload,
		Source:      originalFilename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (a *LocalAcquirer) AcquireFromURL(ctx context.Context, imageURL string) (*ImageRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewAcquisitionError("invalid image URL", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, */*")
	req.Header.Set("User-Agent", "Pixalate-BrandSafety/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, apperrors.NewAcquisitionError("failed to download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewAcquisitionError(
			fmt.Sprintf("failed to download image: status code %d", resp.StatusCode), nil)
	}

	id := newIdentifier()
	path := filepath.Join(a.dataDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewAcquisitionError("failed to create image file", err)
	}

	size, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, apperrors.NewAcquisitionError("failed to store downloaded image", err)
	}

	logger.WithFields(logrus.Fields{
		"url":        imageURL,
		"stored_as":  id,
		"size_bytes": size,
	}).Info("Saved image from URL")

	return &ImageRecord{
		ID:          id,
		Path:        path,
		Origin:      OriginRemoteURL,
		Source:      imageURL,
		Size:        size,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (a *LocalAcquirer) Delete(record *ImageRecord) error {
	if err := os.Remove(record.Path); err != nil {
		return apperrors.NewAcquisitionError("failed to delete image artifact", err)
	}
	logger.WithField("stored_as", record.ID).Debug("Deleted image artifact")
	return nil
}
