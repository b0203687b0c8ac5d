package pos

import (
	"encoding/json"
	"fmt"
)

// Both observed backends persist an order's item list as a single
// JSON-encoded blob, never as per-item sub-records. The whole list is
// serialized and deserialized atomically on every read and write.

// MarshalItems encodes an item list for persistence.
func MarshalItems(items []OrderItem) (string, error) {
	if items == nil {
		items = []OrderItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("cannot encode order items: %w", err)
	}
	return string(data), nil
}

// UnmarshalItems decodes a persisted item blob. An empty blob is an empty
// list, not an error.
func UnmarshalItems(data string) ([]OrderItem, error) {
	if data == "" {
		return []OrderItem{}, nil
	}
	var items []OrderItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("cannot decode order items: %w", err)
	}
	if items == nil {
		items = []OrderItem{}
	}
	return items, nil
}
