package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/MinKhant07/Thumbnail/internal/application/service"
	"github.com/MinKhant07/Thumbnail/internal/config"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type openAICritic struct {
	client   *openai.Client
	model    string
	language string
	log      logger.Logger
}

// NewOpenAICritic builds the vision critique adapter. BaseURL may point
// at any OpenAI-compatible endpoint.
func NewOpenAICritic(cfg config.Config, log logger.Logger) (service.Critic, error) {
	if cfg.OpenAI.APIKey == "" && cfg.OpenAI.BaseURL == "" {
		return nil, fmt.Errorf("openai api_key is not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	log.Info("OpenAI Critic Adapter initialized")
	return &openAICritic{
		client:   client,
		model:    cfg.OpenAI.Model,
		language: cfg.Critique.Language,
		log:      log,
	}, nil
}

// critiquePayload mirrors the JSON keys the prompt demands from the
// model before mapping onto the domain type.
type critiquePayload struct {
	EngagementScore int      `json:"engagementScore"`
	ClarityScore    int      `json:"clarityScore"`
	ColorScore      int      `json:"colorScore"`
	OverallVerdict  string   `json:"overallVerdict"`
	Suggestions     []string `json:"suggestions"`
}

func (a *openAICritic) Critique(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: a.buildPrompt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageData,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("critique completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("critique service returned no choices")
	}

	var payload critiquePayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", thumbnail.ErrMalformedCritique, err)
	}

	crit := &thumbnail.Critique{
		EngagementScore: payload.EngagementScore,
		ClarityScore:    payload.ClarityScore,
		ColorScore:      payload.ColorScore,
		OverallVerdict:  payload.OverallVerdict,
		Suggestions:     payload.Suggestions,
	}
	if err := crit.Validate(); err != nil {
		return nil, err
	}
	return crit, nil
}

// buildPrompt returns one of the two prompt variants: the default
// encouraging tone, or the same contract with the output language
// pinned. The response schema is identical either way.
func (a *openAICritic) buildPrompt() string {
	var b strings.Builder
	b.WriteString("You are a friendly YouTube thumbnail coach. Review the attached thumbnail image ")
	b.WriteString("and respond with an encouraging but honest critique as a single JSON object with ")
	b.WriteString(`keys "engagementScore", "clarityScore", "colorScore" (integers 0-100), `)
	b.WriteString(`"overallVerdict" (one short sentence) and "suggestions" (2 to 4 short strings).`)
	if a.language != "" {
		fmt.Fprintf(&b, " Write overallVerdict and every suggestion in %s.", a.language)
	}
	return b.String()
}
