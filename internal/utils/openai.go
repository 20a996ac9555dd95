package utils

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v2"
)

//go:embed prompt/coach_note.yaml
var coachNoteYAML []byte

type ParserPrompt struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// CoachSummary is the progress snapshot the coach note is written from.
type CoachSummary struct {
	Name           string
	Week           int
	Focus          string
	Streak         int
	TotalDays      int
	CompletedToday int
}

func (s CoachSummary) String() string {
	return fmt.Sprintf("Learner: %s\nWeek: %d of 12\nWeek focus: %s\nCurrent streak: %d days\nSuccessful days so far: %d\nChecklist items done today: %d of 3",
		s.Name, s.Week, s.Focus, s.Streak, s.TotalDays, s.CompletedToday)
}

type OpenaiAPI interface {
	CoachNote(ctx context.Context, summary CoachSummary) (string, error)
}

type OpenaiClient struct {
	client *openai.Client
	prompt ParserPrompt
}

func NewOpenAIClient(apiKey string, baseUrl string) (OpenaiAPI, error) {
	var prompt ParserPrompt
	if err := yaml.Unmarshal(coachNoteYAML, &prompt); err != nil {
		return nil, fmt.Errorf("error parsing coach prompt yaml: %w", err)
	}

	config := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		config.BaseURL = baseUrl
	}
	client := openai.NewClientWithConfig(config)
	return &OpenaiClient{
		client: client,
		prompt: prompt,
	}, nil
}

func (c *OpenaiClient) CoachNote(ctx context.Context, summary CoachSummary) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: c.prompt.SystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: summary.String(),
				},
			},
			Temperature: 1.0,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), "\""), nil
}
