package eval

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Example is one dataset row: the target inputs and reference outputs
type Example struct {
	ID      string         `yaml:"id" json:"id"`
	Inputs  map[string]any `yaml:"inputs" json:"inputs"`
	Outputs map[string]any `yaml:"outputs" json:"outputs"`
}

type Dataset struct {
	Name     string    `yaml:"name" json:"name"`
	Examples []Example `yaml:"examples" json:"examples"`
}

// LoadDataset reads a dataset file. JSON is accepted as well since it is
// valid YAML.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(ds.Examples) == 0 {
		return nil, errors.New("dataset has no examples")
	}
	for i := range ds.Examples {
		if ds.Examples[i].ID == "" {
			ds.Examples[i].ID = fmt.Sprintf("example-%d", i+1)
		}
	}
	return &ds, nil
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
