package memory

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// DecodeRoutes decodes a generic route-table mapping ({"routes": [...]})
// into Route values. A viewport target given as a bare string is treated
// as a component name, mirroring the YAML shorthand.
func DecodeRoutes(mapping map[string]any) ([]Route, error) {
	var cfg struct {
		Routes []Route `mapstructure:"routes"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToTargetHook,
		Result:     &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(mapping); err != nil {
		return nil, fmt.Errorf("invalid route mapping: %w", err)
	}

	for i, route := range cfg.Routes {
		if route.Component == "" {
			return nil, fmt.Errorf("route %d is missing a component", i)
		}
	}
	return cfg.Routes, nil
}

// stringToTargetHook lets "viewports: {detail: UserDetail}" decode without
// the full mapping form.
func stringToTargetHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Target{}) {
		return data, nil
	}
	return Target{Component: data.(string)}, nil
}
