package classifier

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// maxOutputTokens bounds the model's output budget per classification.
const maxOutputTokens = 2000

// OpenAIVisionModel implements VisionModel against the OpenAI chat
// completions API.
type OpenAIVisionModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIVisionModel builds the client. baseURL is optional and supports
// OpenAI-compatible endpoints.
func NewOpenAIVisionModel(apiKey, model, baseURL string) *OpenAIVisionModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIVisionModel{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (m *OpenAIVisionModel) Complete(ctx context.Context, systemPrompt, userText, imageURL string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     m.model,
		MaxTokens: maxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: userText,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
