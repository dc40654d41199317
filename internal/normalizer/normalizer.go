package normalizer

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sirupsen/logrus"

	"github.com/noman024/pixalate-brandsafety/internal/config"
	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/storage"
)

const (
	// MaxDimension is the canonical bound on either image axis.
	MaxDimension = 1024
	// JPEGQuality is the fixed re-encoding quality.
	JPEGQuality = 85
)

// ImageInfo describes a stored image, used for debug logging around
// normalization.
type ImageInfo struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
}

// Normalizer validates stored images against policy and rewrites them into
// the canonical encoding. Validate must pass before Normalize is attempted.
type Normalizer interface {
	Validate(record *storage.ImageRecord) error
	Normalize(record *storage.ImageRecord) error
	Info(record *storage.ImageRecord) (*ImageInfo, error)
}

// ImageNormalizer implements Normalizer against the local content store.
type ImageNormalizer struct {
	cfg *config.Config
}

func NewImageNormalizer(cfg *config.Config) *ImageNormalizer {
	return &ImageNormalizer{cfg: cfg}
}

// Validate fails closed: any decode error, an unsupported detected format, or
// a raw byte size over the configured maximum rejects the image. Nothing is
// ever propagated as a panic.
func (n *ImageNormalizer) Validate(record *storage.ImageRecord) error {
	f, err := os.Open(record.Path)
	if err != nil {
		return apperrors.NewValidationError("failed to open stored image", err)
	}
	defer f.Close()

	cfgImg, format, err := image.DecodeConfig(f)
	if err != nil {
		return apperrors.NewValidationError("failed to decode image", err)
	}
	if !n.cfg.IsSupportedFormat(format) {
		logger.WithField("format", format).Warn("Unsupported image format")
		return apperrors.NewValidationError("unsupported image format: "+format, nil)
	}

	info, err := os.Stat(record.Path)
	if err != nil {
		return apperrors.NewValidationError("failed to stat stored image", err)
	}
	if info.Size() > n.cfg.MaxImageSize {
		logger.WithFields(logrus.Fields{
			"size_bytes": info.Size(),
			"max_bytes":  n.cfg.MaxImageSize,
		}).Warn("Image too large")
		return apperrors.NewValidationError("image exceeds maximum size", nil)
	}

	logger.WithFields(logrus.Fields{
		"stored_as": record.ID,
		"format":    format,
		"width":     cfgImg.Width,
		"height":    cfgImg.Height,
	}).Debug("Image passed validation")
	return nil
}

// Normalize converts the stored image to RGB, downscales it so neither axis
// exceeds MaxDimension (aspect ratio preserved, other axis rounded to the
// nearest integer) and re-encodes it in place as a quality-85 JPEG.
func (n *ImageNormalizer) Normalize(record *storage.ImageRecord) error {
	f, err := os.Open(record.Path)
	if err != nil {
		return apperrors.NewNormalizationError("failed to open stored image", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return apperrors.NewNormalizationError("failed to decode image", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	targetWidth, targetHeight := scaledDimensions(width, height)

	// Drawing onto an RGBA canvas drops any other color mode on the floor.
	canvas := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	if targetWidth == width && targetHeight == height {
		xdraw.Draw(canvas, canvas.Bounds(), img, bounds.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), img, bounds, xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return apperrors.NewNormalizationError("failed to encode normalized image", err)
	}
	if err := os.WriteFile(record.Path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewNormalizationError("failed to write normalized image", err)
	}

	logger.WithFields(logrus.Fields{
		"stored_as": record.ID,
		"width":     targetWidth,
		"height":    targetHeight,
	}).Debug("Normalized image")
	return nil
}

// Info returns dimensions, detected format and byte size of the stored image.
func (n *ImageNormalizer) Info(record *storage.ImageRecord) (*ImageInfo, error) {
	f, err := os.Open(record.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfgImg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(record.Path)
	if err != nil {
		return nil, err
	}
	return &ImageInfo{
		Width:     cfgImg.Width,
		Height:    cfgImg.Height,
		Format:    format,
		SizeBytes: stat.Size(),
	}, nil
}

// scaledDimensions bounds the larger axis at MaxDimension, preserving aspect
// ratio and rounding the other axis to the nearest integer.
func scaledDimensions(width, height int) (int, int) {
	if width <= MaxDimension && height <= MaxDimension {
		return width, height
	}
	if width > height {
		scale := float64(MaxDimension) / float64(width)
		return MaxDimension, int(math.Round(float64(height) * scale))
	}
	scale := float64(MaxDimension) / float64(height)
	return int(math.Round(float64(width) * scale)), MaxDimension
}
