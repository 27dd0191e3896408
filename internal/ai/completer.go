package ai

import (
	"context"
	"errors"
)

// ErrCompletion marks failures of the completion service.
var ErrCompletion = errors.New("completion call failed")

// Request is a single system-instructed completion.
type Request struct {
	SystemPrompt string
	UserText     string
	MaxTokens    int
	Temperature  float64
}

// Completer sends a request to a hosted text-generation endpoint.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
