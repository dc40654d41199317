package classifier

import "context"

// VisionModel is the narrow seam in front of the remote multimodal model.
// Implementations return the model's raw text output; all resilience logic
// (fence stripping, parse recovery) stays on this side of the seam.
type VisionModel interface {
	Complete(ctx context.Context, systemPrompt, userText, imageURL string) (string, error)
}
