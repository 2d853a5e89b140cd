package store

import (
	"context"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SeedSessionFromJSON writes the key/value pairs of a JSON object into the
// store. Non-string values are stored as their JSON text, so booleans such
// as simulationMode keep their "true"/"false" form.
func SeedSessionFromJSON(ctx context.Context, s ports.SessionStore, jsonPath string) (int, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed session: read %q: %w", jsonPath, err)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(b, &data); err != nil {
		return 0, fmt.Errorf("seed session: parse json: %w", err)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if strings.TrimSpace(k) == "" {
			return 0, fmt.Errorf("seed session: empty key")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := data[k]

		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			v = strings.TrimSpace(string(raw))
		}

		if err := s.Set(ctx, k, v); err != nil {
			return 0, fmt.Errorf("seed session: key=%s: %w", k, err)
		}
	}

	return len(keys), nil
}
