package platform

import "reflect"

// EnvMapping pairs one documented environment variable with the settings
// path it feeds.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
}

// Mappings derives the documented variable table from the Settings struct
// tags, so the struct stays the single source of truth.
func Mappings() []EnvMapping {
	var mappings []EnvMapping
	t := reflect.TypeOf(Settings{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envVar := field.Tag.Get("env")
		path := field.Tag.Get("koanf")
		if envVar == "" || path == "" {
			continue
		}
		mappings = append(mappings, EnvMapping{EnvVar: envVar, ConfigPath: path})
	}
	return mappings
}
