package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"faq-auditor/utils"
)

// ErrBudgetExceeded is returned when the safety manager refuses a call.
var ErrBudgetExceeded = errors.New("llm: call budget exceeded")

// Agent is the capability the validators depend on: submit a prompt,
// receive text. Implementations may fail and must never be assumed
// reliable by callers.
type Agent interface {
	Submit(ctx context.Context, prompt, system, model string) (string, error)
}

// Client wraps the OpenAI API behind the Agent capability, recording
// token spend with a SafetyManager and retrying transient failures.
type Client struct {
	api          *openai.Client
	safety       *SafetyManager
	retry        *utils.RetryConfig
	logger       *utils.Logger
	defaultModel string
}

// NewClient creates a Client with the given API key and default model.
func NewClient(apiKey, defaultModel string, safety *SafetyManager, logger *utils.Logger, maxRetries int) *Client {
	return &Client{
		api:    openai.NewClient(apiKey),
		safety: safety,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger:       logger,
		defaultModel: defaultModel,
	}
}

// Submit sends one prompt as an independent chat completion and returns the
// response text. An empty model falls back to the client default; an empty
// system string omits the system message.
func (c *Client) Submit(ctx context.Context, prompt, system, model string) (string, error) {
	if !c.safety.CanMakeCall() {
		return "", ErrBudgetExceeded
	}
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	var text string
	err := c.retry.Do("llm-completion", func() error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			Messages:  messages,
			MaxTokens: c.safety.Limits().MaxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("llm: empty completion response")
		}
		text = resp.Choices[0].Message.Content
		c.safety.RecordCall(resp.Usage.TotalTokens)
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("[llm] %s completion ok (%d chars)", model, len(text))
	return text, nil
}
