package resultstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

// AzureResultStore writes classification results to an Azure blob container
// instead of the local data directory.
type AzureResultStore struct {
	client    *azblob.Client
	container string
}

func NewAzureResultStore(accountName, accountKey, container string) (*AzureResultStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureResultStore{client: client, container: container}, nil
}

func (s *AzureResultStore) Save(ctx context.Context, result *models.Result, record *storage.ImageRecord) (string, error) {
	blobName := ResultsFilename(record)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to serialize classification result", err)
	}
	if _, err := s.client.UploadBuffer(ctx, s.container, blobName, data, nil); err != nil {
		return "", apperrors.NewPersistenceError("failed to upload classification result", err)
	}

	logger.WithFields(logrus.Fields{
		"container":  s.container,
		"blob":       blobName,
		"size_bytes": len(data),
	}).Info("Uploaded classification results")
	return blobName, nil
}
