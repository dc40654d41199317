package classifier

import (
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

// Classifier invokes the remote vision model against a stored image or a
// direct URL and returns a structured result. Transport failures propagate
// as errors; unparseable model output does not.
type Classifier interface {
	Classify(ctx context.Context, record *storage.ImageRecord) (*models.Result, error)
	ClassifyURL(ctx context.Context, imageURL string) (*models.Result, error)
}

// VisionClassifier implements Classifier on top of the VisionModel seam.
type VisionClassifier struct {
	model VisionModel
}

func NewVisionClassifier(model VisionModel) *VisionClassifier {
	return &VisionClassifier{model: model}
}

// Classify base64-inlines the stored bytes and sends them as a data URL.
// Timing covers encoding, the remote call and response parsing separately.
func (c *VisionClassifier) Classify(ctx context.Context, record *storage.ImageRecord) (*models.Result, error) {
	start := time.Now()

	encodeStart := time.Now()
	data, err := os.ReadFile(record.Path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read image for encoding", err)
	}
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	encodeTime := time.Since(encodeStart)

	apiStart := time.Now()
	content, err := c.model.Complete(ctx, classificationPrompt, userInstruction, imageURL)
	if err != nil {
		return nil, apperrors.NewTransportError("vision model call failed", err)
	}
	apiTime := time.Since(apiStart)
	logger.WithFields(logrus.Fields{
		"stored_as":   record.ID,
		"api_seconds": models.RoundSeconds(apiTime),
	}).Info("Vision model request completed")

	parseStart := time.Now()
	result := parseResponse(content, record.Path)
	parseTime := time.Since(parseStart)

	encodeSeconds := models.RoundSeconds(encodeTime)
	result.ProcessingTime = &models.ProcessingTime{
		TotalSeconds:   models.RoundSeconds(time.Since(start)),
		APISeconds:     models.RoundSeconds(apiTime),
		EncodeSeconds:  &encodeSeconds,
		ProcessSeconds: models.RoundSeconds(parseTime),
	}
	return result, nil
}

// ClassifyURL references the image by URL instead of inlining bytes, so
// there is no encode phase to time.
func (c *VisionClassifier) ClassifyURL(ctx context.Context, imageURL string) (*models.Result, error) {
	start := time.Now()

	apiStart := time.Now()
	content, err := c.model.Complete(ctx, classificationPrompt, userInstruction, imageURL)
	if err != nil {
		return nil, apperrors.NewTransportError("vision model call failed", err)
	}
	apiTime := time.Since(apiStart)
	logger.WithFields(logrus.Fields{
		"url":         imageURL,
		"api_seconds": models.RoundSeconds(apiTime),
	}).Info("Vision model request completed")

	parseStart := time.Now()
	result := parseResponse(content, imageURL)
	parseTime := time.Since(parseStart)

	result.ProcessingTime = &models.ProcessingTime{
		TotalSeconds:   models.RoundSeconds(time.Since(start)),
		APISeconds:     models.RoundSeconds(apiTime),
		ProcessSeconds: models.RoundSeconds(parseTime),
	}
	return result, nil
}
