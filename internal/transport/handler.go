package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noman024/pixalate-brandsafety/internal/config"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/internal/service"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
	"github.com/noman024/pixalate-brandsafety/pkg/validation"
)

// NewHandler builds the HTTP router over the classification service.
func NewHandler(svc service.ClassificationService, cfg *config.Config) http.Handler {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	r.Use(
		cors.New(corsConfig),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	urlValidator := validation.NewURLValidator()

	r.GET("/health", healthCheck(cfg))
	r.POST("/classify", classifyUpload(svc, cfg))
	r.POST("/classify-url", classifyURL(svc, cfg, urlValidator))

	return r
}

// classifyUpload accepts a multipart image upload. The declared content type
// is rejected at this boundary; the pipeline is only invoked for supported
// formats.
func classifyUpload(svc service.ClassificationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Missing image file in upload request")
			respondError(c, http.StatusBadRequest, "No image file provided")
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		logger.WithFields(logrus.Fields{
			"filename":     fileHeader.Filename,
			"content_type": contentType,
			"ip":           c.ClientIP(),
		}).Info("Received image classification request")

		if !validation.IsSupportedContentType(contentType) {
			respondError(c, http.StatusBadRequest, "Unsupported file format: "+contentType)
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read uploaded file")
			return
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		result := svc.ClassifyUpload(ctx, f, fileHeader.Filename, contentType)
		respondResult(c, result, startTime)
	}
}

// classifyURL accepts a JSON body with a well-formed image URL.
func classifyURL(svc service.ClassificationService, cfg *config.Config, urlValidator *validation.URLValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var req models.ImageURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}

		if err := urlValidator.ValidateImageURL(req.URL); err != nil {
			logger.WithError(err).WithField("url", req.URL).Error("Invalid image URL")
			respondError(c, http.StatusBadRequest, "Invalid image URL")
			return
		}

		logger.WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Info("Received image URL classification request")

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		result := svc.ClassifyURL(ctx, req.URL)
		respondResult(c, result, startTime)
	}
}

// respondResult maps the orchestrator's uniform result shape onto the wire
// envelopes. Degraded parse results are successes; only pipeline failures
// take the error envelope.
func respondResult(c *gin.Context, result *models.Result, startTime time.Time) {
	if result.IsError() {
		respondError(c, http.StatusInternalServerError, result.Err)
		return
	}

	logger.WithFields(logrus.Fields{
		"path":               c.Request.URL.Path,
		"degraded":           result.IsDegraded(),
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Classification request completed")

	c.JSON(http.StatusOK, models.NewSuccessResponse(result))
}

func respondError(c *gin.Context, code int, message string) {
	logger.WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.NewErrorResponse(message, code))
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
