package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Rorical/StoreAgent/internal/llm"
)

// ValidateArgs checks required parameters and the JSON type of every
// declared parameter that is present. Undeclared arguments are ignored.
func ValidateArgs(schema llm.Schema, args map[string]any) error {
	for _, name := range schema.Required {
		if v, ok := args[name]; !ok || v == nil {
			return fmt.Errorf("%w: missing required parameter %q", ErrInvalidArgs, name)
		}
	}
	for name, value := range args {
		prop, declared := schema.Properties[name]
		if !declared || value == nil {
			continue
		}
		if !matchesType(prop, value) {
			return fmt.Errorf("%w: parameter %q must be %s", ErrInvalidArgs, name, prop.Type)
		}
	}
	return nil
}

func matchesType(schema *llm.Schema, value any) bool {
	switch schema.Type {
	case llm.TypeString:
		_, ok := value.(string)
		return ok
	case llm.TypeNumber:
		_, ok := toFloat(value)
		return ok
	case llm.TypeInteger:
		f, ok := toFloat(value)
		return ok && f == math.Trunc(f)
	case llm.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case llm.TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case llm.TypeArray:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		if schema.Items == nil {
			return true
		}
		for _, item := range items {
			if !matchesType(schema.Items, item) {
				return false
			}
		}
		return true
	}
	return true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// decodeArgs maps generic model arguments onto a typed struct
func decodeArgs(args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
