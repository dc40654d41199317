package classifier

import (
	"encoding/json"
	"strings"

	"github.com/noman024/pixalate-brandsafety/internal/logger"
	"github.com/noman024/pixalate-brandsafety/pkg/models"
)

const jsonFence = "```json"
const fence = "```"

// extractPayload strips markdown code fences from model output. Preference
// order: content of the first ` ```json ` block, then the first bare ` ``` `
// pair, then the whole trimmed text.
func extractPayload(content string) string {
	if idx := strings.Index(content, jsonFence); idx >= 0 {
		rest := content[idx+len(jsonFence):]
		if end := strings.Index(rest, fence); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(content, fence); idx >= 0 {
		rest := content[idx+len(fence):]
		if end := strings.Index(rest, fence); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(content)
}

// parseResponse turns raw model output into a Result. Output that is not
// strict JSON for the full category schema yields a degraded result carrying
// the original text verbatim; that is a normal value, not an error.
func parseResponse(content, imagePath string) *models.Result {
	payload := extractPayload(content)

	var result models.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		logger.WithError(err).WithField("raw_response", content).Error("Failed to parse model response")
		return models.NewDegradedResult(imagePath, content)
	}
	result.ImagePath = imagePath
	return &result
}
