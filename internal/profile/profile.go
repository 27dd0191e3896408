package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthentication is returned when no configured credential was accepted.
	ErrAuthentication = errors.New("authentication failed")
	// ErrProfileRetrieval is returned when a profile can not be looked up.
	ErrProfileRetrieval = errors.New("profile retrieval failed")
)

// Entry is a loosely structured experience or education item.
type Entry map[string]any

// Record holds the profile fields used for analysis. Any field may be empty.
type Record struct {
	Name       string
	FirstName  string
	LastName   string
	Headline   string
	Summary    string
	Experience []Entry
	Education  []Entry
	Skills     []string
}

// DisplayName returns Name when set, otherwise the first and last names joined.
func (r *Record) DisplayName() string {
	if r == nil {
		return ""
	}
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Source looks up profiles by identifier.
type Source interface {
	FetchProfile(ctx context.Context, id string) (*Record, error)
}

// IdentifierFromURL returns the second-to-last path segment of the URL.
// A profile URL is expected to end with a slash:
// https://www.example.com/in/ada-lovelace/ yields "ada-lovelace", while the same
// URL without the trailing slash yields "in".
func IdentifierFromURL(url string) (string, error) {
	parts := strings.Split(strings.TrimSpace(url), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: no profile identifier in url %q", ErrProfileRetrieval, url)
	}

	id := parts[len(parts)-2]
	if id == "" {
		return "", fmt.Errorf("%w: empty profile identifier in url %q", ErrProfileRetrieval, url)
	}

	return id, nil
}
