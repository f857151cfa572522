package services

import (
	"fmt"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/logger"
)

// outputTextKey is the field carrying generated text in map-shaped results.
const outputTextKey = "output_text"

// NormaliseCompletion extracts the generated text from a completion result.
// It accepts a plain string, any driven.OutputTexter, or a map with an
// "output_text" string field. Anything else is a defect in the adapter and
// returns domain.ErrUnexpectedResponseFormat.
func NormaliseCompletion(result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case driven.OutputTexter:
		return v.OutputText(), nil
	case map[string]any:
		if text, ok := v[outputTextKey].(string); ok {
			return text, nil
		}
	}

	logger.Error("unexpected completion result %T", result)
	return "", fmt.Errorf("%w: %T", domain.ErrUnexpectedResponseFormat, result)
}
