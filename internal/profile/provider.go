package profile

import (
	"context"
	"errors"
	"fmt"
)

// Provider produces an authenticated Source.
type Provider interface {
	Name() string
	Open(ctx context.Context) (Source, error)
}

// Attempt is the outcome of opening a single provider.
type Attempt struct {
	Provider string
	Err      error
}

// FirstAvailable opens providers in order and returns the first Source that
// opened successfully along with every attempt made. When all providers fail
// the returned error wraps ErrAuthentication and each attempt's error.
func FirstAvailable(ctx context.Context, providers ...Provider) (Source, []Attempt, error) {
	attempts := make([]Attempt, 0, len(providers))
	if len(providers) == 0 {
		return nil, attempts, fmt.Errorf("%w: no profile providers configured", ErrAuthentication)
	}

	for _, p := range providers {
		src, err := p.Open(ctx)
		attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})
		if err == nil {
			return src, attempts, nil
		}
	}

	errs := []error{ErrAuthentication}
	for _, a := range attempts {
		errs = append(errs, fmt.Errorf("%s: %w", a.Provider, a.Err))
	}

	return nil, attempts, errors.Join(errs...)
}
