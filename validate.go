package toolbox

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ValidateArguments checks a supplied arguments object against a tool's
// declared schema. The check is deliberately shallow: required names must be
// present, and any supplied key that the schema declares as number, string
// or boolean must carry a value of that runtime type. Keys absent from the
// property map, and declared object/array properties, pass through
// unchecked.
func ValidateArguments(schema *jsonschema.Schema, args map[string]any) error {
	if args == nil {
		return fmt.Errorf("arguments must be an object")
	}
	if schema == nil {
		return nil
	}

	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	for key, value := range args {
		prop, ok := schema.Properties[key]
		if !ok || prop == nil {
			continue
		}
		if err := checkType(key, prop.Type, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(key, declared string, value any) error {
	switch declared {
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return nil
		}
		return fmt.Errorf("argument %q must be a number, got %T", key, value)
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("argument %q must be a string, got %T", key, value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean, got %T", key, value)
		}
	}
	return nil
}
