package validation

import (
	"net/url"
	"strings"

	apperrors "github.com/noman024/pixalate-brandsafety/internal/errors"
)

// maxImageURLLength caps how long a submitted image URL may be. Anything
// longer is rejected before the fetcher ever sees it.
const maxImageURLLength = 2048

// URLValidator gates image URLs at the request boundary: scheme policy, an
// optional host allowlist, and a length cap. It says nothing about what the
// URL points at; the downloaded bytes are validated separately.
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator accepts http and https image URLs from any host.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// NewURLValidatorWithOptions restricts schemes and, when hosts is non-empty,
// pins fetches to an allowlist of image hosts (e.g. a known CDN).
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateImageURL reports whether the URL is acceptable to hand to the image
// fetcher.
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}
	if len(imageURL) > maxImageURLLength {
		return apperrors.NewValidationError("URL exceeds maximum length", nil)
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if !contains(v.allowedSchemes, parsed.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}
	if parsed.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if len(v.allowedHosts) > 0 && !contains(v.allowedHosts, parsed.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
