package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when neither a file nor a value is set.
var ErrNotConfigured = errors.New("not configured")

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages and names the option to the user.
	Name string
	// Value is an inline secret value provided via environment, configuration or flags.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value.
	File string
}

// Load returns the resolved secret value from the provided source. When File is
// set it takes precedence over Value. The returned secret is always trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty: %w", name, src.File, ErrNotConfigured)
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}

	return secret, nil
}

// LoadAll resolves every source. Values are keyed by source name; names of
// sources that could not be resolved are returned in order along with the
// joined errors.
func LoadAll(sources ...Source) (map[string]string, []string, error) {
	values := make(map[string]string, len(sources))
	missing := make([]string, 0)
	errs := make([]error, 0)

	for _, src := range sources {
		value, err := Load(src)
		if err != nil {
			missing = append(missing, src.Name)
			errs = append(errs, err)
			continue
		}
		values[src.Name] = value
	}

	return values, missing, errors.Join(errs...)
}
