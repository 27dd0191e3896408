package analysis

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spigell/profile-analyzer/internal/ai"

	"go.uber.org/zap"
)

const (
	// MaxTokens is the output budget of every completion call.
	MaxTokens = 500
	// Temperature favours varied phrasing over determinism.
	Temperature = 1.2
)

// Pipeline runs a document through every category's system prompt.
type Pipeline struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewPipeline(completer ai.Completer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{completer: completer, logger: logger}
}

// Run issues one completion per category, one after another, and returns all
// four results. The first failing call aborts the run.
func (p *Pipeline) Run(ctx context.Context, document string) (map[Category]string, error) {
	if p == nil || p.completer == nil {
		return nil, errors.New("analysis pipeline has no completer")
	}

	results := make(map[Category]string, len(orderedCategories))
	for _, category := range orderedCategories {
		p.logger.Debug("requesting analysis", zap.String("category", string(category)))

		text, err := p.completer.Complete(ctx, ai.Request{
			SystemPrompt: category.SystemPrompt(),
			UserText:     document,
			MaxTokens:    MaxTokens,
			Temperature:  Temperature,
		})
		if err != nil {
			if !errors.Is(err, ai.ErrCompletion) {
				err = fmt.Errorf("%w: %w", ai.ErrCompletion, err)
			}
			return nil, fmt.Errorf("%s: %w", category, err)
		}

		p.logger.Info("analysis received",
			zap.String("category", string(category)),
			zap.Int("length", utf8.RuneCountInString(text)),
		)

		results[category] = text
	}

	return results, nil
}
