package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/spigell/profile-analyzer/internal/ai"
	"github.com/spigell/profile-analyzer/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultBaseURL      = "https://api.groq.com/openai/v1"
	defaultModel        = "llama3-8b-8192"
	defaultMaxLogLength = 200
)

// Client calls an OpenAI compatible chat completions endpoint.
type Client struct {
	apiKey     string
	model      string
	logger     *zap.Logger
	HTTPClient *http.Client
	BaseURL    string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func New(apiKey, model string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{},
	}, nil
}

// Complete posts a system and user message pair and returns the first choice.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserText},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ai.ErrCompletion, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("groq request",
		zap.String("url", url),
		zap.Int("prompt_length", utf8.RuneCountInString(req.UserText)),
		zap.String("system_preview", utils.TruncateForLog(req.SystemPrompt, defaultMaxLogLength)),
	)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: call api: %v", ai.ErrCompletion, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ai.ErrCompletion, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: groq returned status %d: %s", ai.ErrCompletion, resp.StatusCode, utils.TruncateForLog(string(data), defaultMaxLogLength))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ai.ErrCompletion, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ai.ErrCompletion, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ai.ErrCompletion)
	}

	output := parsed.Choices[0].Message.Content

	c.logger.Debug("groq response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, defaultMaxLogLength)),
	)

	return output, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
