package container

import (
	"fmt"
	"net/http"

	"github.com/noman024/pixalate-brandsafety/internal/classifier"
	"github.com/noman024/pixalate-brandsafety/internal/config"
	"github.com/noman024/pixalate-brandsafety/internal/factory"
	"github.com/noman024/pixalate-brandsafety/internal/normalizer"
	"github.com/noman024/pixalate-brandsafety/internal/resultstore"
	"github.com/noman024/pixalate-brandsafety/internal/service"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config                *config.Config
	acquirer              storage.Acquirer
	normalizer            normalizer.Normalizer
	classifier            classifier.Classifier
	resultStore           resultstore.ResultStore
	classificationService service.ClassificationService
	handler               http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Build dependency graph
	acquirer, err := storage.NewLocalAcquirer(cfg.DataDir, cfg.ImageFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize acquirer: %w", err)
	}

	imageNormalizer := normalizer.NewImageNormalizer(cfg)

	visionModel := classifier.NewOpenAIVisionModel(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	imageClassifier := classifier.NewVisionClassifier(visionModel)

	resultStore, err := factory.NewResultStoreFactory(cfg).CreateResultStore(factory.StorageType(cfg.ResultsBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize result store: %w", err)
	}

	classificationService := service.NewClassificationService(acquirer, imageNormalizer, imageClassifier, resultStore)
	handler := transport.NewHandler(classificationService, cfg)

	return &Container{
		config:                cfg,
		acquirer:              acquirer,
		normalizer:            imageNormalizer,
		classifier:            imageClassifier,
		resultStore:           resultStore,
		classificationService: classificationService,
		handler:               handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
