package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap converts a bson-tagged value into a map keyed by its stored field names.
func ToMap(s any) (map[string]any, error) {
	if m, ok := s.(map[string]any); ok {
		return m, nil
	}

	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}

	var out map[string]any
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// FromMap decodes a map produced by ToMap back into out.
func FromMap(m map[string]any, out any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("bson marshal failed: %w", err)
	}
	return bson.Unmarshal(raw, out)
}
