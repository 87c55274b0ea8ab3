package core

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// AsMapDefault converts any tagged struct into its generic map form by a
// JSON round trip, so map keys match the wire names.
func AsMapDefault(config any) (map[string]any, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(bytes, &configMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config to map: %w", err)
	}
	return configMap, nil
}

// FromMapDefault decodes generic data into T with weak typing, for inputs
// that arrive as YAML maps or key=value flag pairs. Strict decoding with an
// unused-key guard belongs to the resolver, not here.
func FromMapDefault[T any](data any) (T, error) {
	var config T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return config, err
	}
	return config, decoder.Decode(data)
}
