package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spigell/profile-analyzer/internal/profile"
)

const documentHeader = "Analyze the following profile:"

// FormatDocument renders the record as the user content sent with every
// category. All six labels are always present; missing values are empty.
func FormatDocument(r *profile.Record) string {
	if r == nil {
		r = &profile.Record{}
	}

	lines := []string{
		documentHeader,
		field("Name", r.DisplayName()),
		field("Headline", r.Headline),
		field("Summary", r.Summary),
		field("Experience", entries(r.Experience)),
		field("Education", entries(r.Education)),
		field("Skills", strings.Join(r.Skills, ", ")),
	}

	return strings.Join(lines, "\n") + "\n"
}

func field(label, value string) string {
	return fmt.Sprintf("%s: %s", label, strings.TrimSpace(value))
}

// entries encodes items as a compact JSON array. encoding/json sorts map keys,
// so output is stable for the same record.
func entries(items []profile.Entry) string {
	if len(items) == 0 {
		return ""
	}

	data, err := json.Marshal(items)
	if err != nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprintf("%v", map[string]any(item)))
		}
		return strings.Join(parts, "; ")
	}

	return string(data)
}
