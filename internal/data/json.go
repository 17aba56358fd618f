package data

import (
	"encoding/json"
	"fmt"
	"os"

	"profit-forecast/internal/model"
)

// LoadMetricsJSON reads a MetricsState as produced by the product form.
func LoadMetricsJSON(path string) (*model.MetricsState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s model.MetricsState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &s, nil
}
