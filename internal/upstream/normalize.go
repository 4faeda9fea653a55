package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List decodes a collection payload that may arrive in any of the shapes
// the backend is known to emit: a bare array, {"data": [...]}, or
// {"<key>": [...]} for a resource-specific key. A bare single object is
// wrapped into a one-element slice. Record order is preserved.
func List[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("upstream: empty list payload")
	}

	if trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("upstream: decode list: %w", err)
		}
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("upstream: decode list envelope: %w", err)
	}

	for _, key := range append([]string{"data"}, keys...) {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if isArray(inner) {
			var records []T
			if err := json.Unmarshal(inner, &records); err != nil {
				return nil, fmt.Errorf("upstream: decode %q list: %w", key, err)
			}
			return records, nil
		}
	}

	// Single record responses get wrapped, matching how the console's
	// list views treat them.
	var record T
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("upstream: unrecognized list shape")
	}
	return []T{record}, nil
}

// Record decodes a single-record payload that may arrive bare or wrapped
// under "data" or a resource-specific key.
func Record[T any](raw json.RawMessage, keys ...string) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("upstream: empty record payload")
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("upstream: decode record envelope: %w", err)
		}
		for _, key := range append([]string{"data"}, keys...) {
			if inner, ok := envelope[key]; ok && isObject(inner) {
				var record T
				if err := json.Unmarshal(inner, &record); err != nil {
					return nil, fmt.Errorf("upstream: decode %q record: %w", key, err)
				}
				return &record, nil
			}
		}
	}

	var record T
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("upstream: decode record: %w", err)
	}
	return &record, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
