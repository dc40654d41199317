package factory

import (
	"fmt"

	"github.com/noman024/pixalate-brandsafety/internal/config"
	"github.com/noman024/pixalate-brandsafety/internal/resultstore"
)

// StorageType represents different result store backends
type StorageType string

const (
	// LocalStorage writes result files to the data directory
	LocalStorage StorageType = config.ResultsBackendLocal
	// AzureStorage uploads result files to an Azure blob container
	AzureStorage StorageType = config.ResultsBackendAzure
)

// ResultStoreFactory creates result store implementations
type ResultStoreFactory interface {
	CreateResultStore(storageType StorageType) (resultstore.ResultStore, error)
}

type resultStoreFactory struct {
	cfg *config.Config
}

// NewResultStoreFactory creates a new result store factory
func NewResultStoreFactory(cfg *config.Config) ResultStoreFactory {
	return &resultStoreFactory{cfg: cfg}
}

// CreateResultStore creates a result store based on the specified backend
func (f *resultStoreFactory) CreateResultStore(storageType StorageType) (resultstore.ResultStore, error) {
	switch storageType {
	case LocalStorage:
		return resultstore.NewLocalResultStore(f.cfg.DataDir)
	case AzureStorage:
		return resultstore.NewAzureResultStore(
			f.cfg.AzureStorageAccount,
			f.cfg.AzureStorageKey,
			f.cfg.AzureResultsContainer,
		)
	default:
		return nil, fmt.Errorf("unsupported result store backend: %s", storageType)
	}
}
