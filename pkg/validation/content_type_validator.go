package validation

import "strings"

// supportedContentTypes is the set of declared upload content types accepted
// at the request boundary, before the pipeline is ever invoked.
var supportedContentTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
}

// IsSupportedContentType reports whether a declared upload content type is in
// the supported set. Comparison is case-insensitive and ignores media-type
// parameters such as charset.
func IsSupportedContentType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	for _, supported := range supportedContentTypes {
		if mediaType == supported {
			return true
		}
	}
	return false
}
