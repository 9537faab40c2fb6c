package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// SerializeModel converts any model to JSON bytes for storage in
// byte-oriented stores such as Redis.
//
// Parameters:
//   - model: the model to serialize, by value or by pointer
//
// Returns:
//   - []byte: JSON representation of the model
//   - error: error if marshalling fails or if model is a nil pointer
//
// Example usage:
//
//	weather := &models.WeatherData{Location: "Puri"}
//	data, err := SerializeModel(weather)
//	if err != nil {
//	    return fmt.Errorf("failed to serialize weather: %w", err)
//	}
func SerializeModel[T any](model T) ([]byte, error) {
	value := reflect.ValueOf(model)
	if value.Kind() == reflect.Pointer && value.IsNil() {
		return nil, fmt.Errorf("cannot serialize nil pointer")
	}

	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	return data, nil
}

// DeserializeModel decodes JSON bytes produced by SerializeModel back into
// target.
//
// Parameters:
//   - data: JSON bytes, must not be empty
//   - target: pointer to the value to fill, must not be nil
//
// Returns:
//   - error: error if data is empty, target is nil or unmarshalling fails
//
// Example usage:
//
//	var weather models.WeatherData
//	if err := DeserializeModel(data, &weather); err != nil {
//	    return fmt.Errorf("failed to deserialize weather: %w", err)
//	}
func DeserializeModel[T any](data []byte, target *T) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot deserialize empty data")
	}

	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}
