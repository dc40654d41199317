package resultstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

const resultsSuffix = "_results.json"

// ResultStore persists classification results keyed by the image identifier.
// A save failure never fails the classification; callers log it and return
// the in-memory result anyway.
type ResultStore interface {
	Save(ctx context.Context, result *models.Result, record *storage.ImageRecord) (string, error)
}

// ResultsFilename derives the results filename deterministically from the
// stored image identifier: extension stripped, fixed suffix appended.
func ResultsFilename(record *storage.ImageRecord) string {
	name := strings.TrimSuffix(record.ID, filepath.Ext(record.ID))
	return name + resultsSuffix
}

// LocalResultStore writes one indented JSON file per classified image into
// the data directory.
type LocalResultStore struct {
	dataDir string
}

func NewLocalResultStore(dataDir string) (*LocalResultStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalResultStore{dataDir: dataDir}, nil
}

func (s *LocalResultStore) Save(ctx context.Context, result *models.Result, record *storage.ImageRecord) (string, error) {
	path := filepath.Join(s.dataDir, ResultsFilename(record))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to serialize classification result", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.NewPersistenceError("failed to write classification result", err)
	}

	logger.WithFields(logrus.Fields{
		"path":       path,
		"size_bytes": len(data),
	}).Info("Saved classification results")
	return path, nil
}
