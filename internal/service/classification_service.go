package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/noman024/pixalate-brandsafety/internal/classifier"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/normalizer"
	"github.com/noman024/pixalate-brandsafety/internal/resultstore"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

// ClassificationService orchestrates the pipeline
// ACQUIRE → VALIDATE+NORMALIZE → CLASSIFY → PERSIST and always resolves to a
// result value; no failure crosses this boundary as an error.
type ClassificationService interface {
	ClassifyUpload(ctx context.Context, r io.Reader, originalFilename, contentType string) *models.Result
	ClassifyURL(ctx context.Context, imageURL string) *models.Result
}

type classificationService struct {
	acquirer   storage.Acquirer
	normalizer normalizer.Normalizer
	classifier classifier.Classifier
	results    resultstore.ResultStore
}

// NewClassificationService wires the pipeline stages together.
func NewClassificationService(
	acquirer storage.Acquirer,
	imageNormalizer normalizer.Normalizer,
	imageClassifier classifier.Classifier,
	results resultstore.ResultStore,
) ClassificationService {
	return &classificationService{
		acquirer:   acquirer,
		normalizer: imageNormalizer,
		classifier: imageClassifier,
		results:    results,
	}
}

// ClassifyUpload runs the pipeline for an uploaded byte stream.
func (s *classificationService) ClassifyUpload(ctx context.Context, r io.Reader, originalFilename, contentType string) *models.Result {
	start := time.Now()
	logger.WithField("filename", originalFilename).Info("Classifying uploaded image")

	processStart := time.Now()
	record, err := s.acquirer.AcquireFromUpload(r, originalFilename, contentType)
	if err != nil {
		logger.WithError(err).WithField("filename", originalFilename).Error("Failed to acquire uploaded image")
		return models.NewErrorResult(fmt.Sprintf("Failed to process the uploaded image: %s", originalFilename))
	}
	if err := s.prepare(record); err != nil {
		return models.NewErrorResult(fmt.Sprintf("Failed to process the uploaded image: %s", originalFilename))
	}
	processTime := time.Since(processStart)

	result, err := s.classifier.Classify(ctx, record)
	if err != nil {
		// The normalized artifact stays on disk so the failed call can be
		// replayed against it.
		logger.WithError(err).WithField("stored_as", record.ID).Error("Classification failed")
		return models.NewErrorResult(fmt.Sprintf("Error classifying uploaded image: %v", err))
	}

	saveTime := s.persist(ctx, result, record)
	s.mergeTimings(result, time.Since(start), processTime, saveTime)

	logger.WithFields(logrus.Fields{
		"filename":      originalFilename,
		"stored_as":     record.ID,
		"total_seconds": models.RoundSeconds(time.Since(start)),
	}).Info("Successfully classified uploaded image")
	return result
}

// ClassifyURL runs the pipeline for a remote image URL.
func (s *classificationService) ClassifyURL(ctx context.Context, imageURL string) *models.Result {
	start := time.Now()
	logger.WithField("url", imageURL).Info("Classifying image URL")

	processStart := time.Now()
	record, err := s.acquirer.AcquireFromURL(ctx, imageURL)
	if err != nil {
		logger.WithError(err).WithField("url", imageURL).Error("Failed to acquire image from URL")
		return models.NewErrorResult(fmt.Sprintf("Failed to process the image URL: %s", imageURL))
	}
	if err := s.prepare(record); err != nil {
		return models.NewErrorResult(fmt.Sprintf("Failed to process the image URL: %s", imageURL))
	}
	processTime := time.Since(processStart)

	result, err := s.classifier.Classify(ctx, record)
	if err != nil {
		logger.WithError(err).WithField("stored_as", record.ID).Error("Classification failed")
		return models.NewErrorResult(fmt.Sprintf("Error classifying image URL: %v", err))
	}

	saveTime := s.persist(ctx, result, record)
	s.mergeTimings(result, time.Since(start), processTime, saveTime)

	logger.WithFields(logrus.Fields{
		"url":           imageURL,
		"stored_as":     record.ID,
		"total_seconds": models.RoundSeconds(time.Since(start)),
	}).Info("Successfully classified image URL")
	return result
}

// prepare validates then normalizes the stored artifact. On either failure
// the artifact is deleted so no orphan file is left behind.
func (s *classificationService) prepare(record *storage.ImageRecord) error {
	if err := s.normalizer.Validate(record); err != nil {
		logger.WithError(err).WithField("stored_as", record.ID).Error("Image failed validation")
		s.discard(record)
		return err
	}

	if info, err := s.normalizer.Info(record); err == nil {
		logger.WithFields(logrus.Fields{
			"stored_as": record.ID,
			"width":     info.Width,
			"height":    info.Height,
			"format":    info.Format,
		}).Debug("Image info before normalization")
	}

	if err := s.normalizer.Normalize(record); err != nil {
		logger.WithError(err).WithField("stored_as", record.ID).Error("Failed to normalize image")
		s.discard(record)
		return err
	}
	return nil
}

func (s *classificationService) discard(record *storage.ImageRecord) {
	if err := s.acquirer.Delete(record); err != nil {
		logger.WithError(err).WithField("stored_as", record.ID).Warn("Failed to delete rejected artifact")
	}
}

// persist saves the result and returns the time spent doing so. A save
// failure is logged and otherwise ignored; the in-memory result still goes
// back to the caller.
func (s *classificationService) persist(ctx context.Context, result *models.Result, record *storage.ImageRecord) time.Duration {
	saveStart := time.Now()
	if _, err := s.results.Save(ctx, result, record); err != nil {
		logger.WithError(err).WithField("stored_as", record.ID).Error("Failed to save classification results")
	}
	return time.Since(saveStart)
}

// mergeTimings annotates the result with service-level timings, additive with
// the classifier's own breakdown. The persisted file keeps the pre-merge
// timings; only the response carries these.
func (s *classificationService) mergeTimings(result *models.Result, total, process, save time.Duration) {
	if result.ProcessingTime == nil {
		result.ProcessingTime = &models.ProcessingTime{}
	}
	serviceTotal := models.RoundSeconds(total)
	imageProcessing := models.RoundSeconds(process)
	saveResults := models.RoundSeconds(save)
	result.ProcessingTime.ServiceTotalSeconds = &serviceTotal
	result.ProcessingTime.ImageProcessingSeconds = &imageProcessing
	result.ProcessingTime.SaveResultsSeconds = &saveResults
}
