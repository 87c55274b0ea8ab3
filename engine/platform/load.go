package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/gantryhq/gantry/pkg/logger"
)

// ignoredRoot collects environment variables outside the documented table
// during the env load; the subtree is dropped before unmarshaling.
const ignoredRoot = "ignored"

// Load reads platform settings once per process: documented fallback
// literals first, then overrides from the documented environment variables.
// Each key's source is tracked so builders can tell a platform-provided
// value from a mere literal.
func Load(ctx context.Context) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load platform defaults: %w", err)
	}
	sources := make(map[string]Source)
	keysBefore := make(map[string]any)
	for _, key := range k.Keys() {
		sources[key] = SourceDefault
		keysBefore[key] = k.Get(key)
	}

	envToPath := make(map[string]string)
	for _, mapping := range Mappings() {
		envToPath[mapping.EnvVar] = mapping.ConfigPath
	}
	if err := k.Load(env.ProviderWithValue("", ".", func(key string, value string) (string, any) {
		if configPath, exists := envToPath[key]; exists {
			return configPath, value
		}
		return ignoredRoot + "." + strings.ToLower(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load platform environment variables: %w", err)
	}
	k.Delete(ignoredRoot)

	overrides := 0
	for _, key := range k.Keys() {
		valBefore, existed := keysBefore[key]
		if !existed || valBefore != k.Get(key) {
			sources[key] = SourceEnv
			overrides++
		}
	}

	settings, err := unmarshalSettings(k)
	if err != nil {
		return nil, err
	}
	settings.sources = sources
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("loaded platform settings", "envOverrides", overrides)
	return settings, nil
}

func unmarshalSettings(k *koanf.Koanf) (*Settings, error) {
	var settings Settings
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &settings,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal platform settings: %w", err)
	}
	return &settings, nil
}
