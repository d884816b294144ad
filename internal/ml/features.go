package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadFeatureNames reads the ordered feature-name list saved next to the model.
// Order matters: it defines both the column order of the record passed to the
// classifier and the keys of the chart rows.
func LoadFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature list: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode feature list %s: %w", path, err)
	}

	seen := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("feature list %s: entry %d is empty", path, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("feature list %s: duplicate feature %q", path, name)
		}
		seen[name] = true
		names[i] = name
	}
	return names, nil
}
