package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gin-gonic/gin"
)

// bindUpdates reads a JSON object and fails with errDisallowedUpdate if it
// holds any key outside allowed. An empty body is an empty update.
func bindUpdates(c *gin.Context, allowed ...string) (map[string]json.RawMessage, error) {
	var updates map[string]json.RawMessage
	err := c.ShouldBindJSON(&updates)
	if errors.Is(err, io.EOF) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequestBody, err)
	}

	for key := range updates {
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("%w: %q", errDisallowedUpdate, key)
		}
	}
	return updates, nil
}

// updateField decodes updates[key] if it is present. A JSON null decodes to
// the zero value.
func updateField[T any](updates map[string]json.RawMessage, key string) (*T, error) {
	raw, ok := updates[key]
	if !ok {
		return nil, nil
	}

	var value T
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", errInvalidRequestBody, key, err)
	}
	return &value, nil
}

func isNullUpdate(updates map[string]json.RawMessage, key string) bool {
	raw, ok := updates[key]
	return ok && string(raw) == "null"
}
