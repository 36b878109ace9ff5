package confloader

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvAlias maps an unprefixed environment variable onto a config key.
type EnvAlias struct {
	Name string
	Key  string
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	aliases   []EnvAlias
	defaults  any
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix. Without a prefix
// only the aliases are read from the environment.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvAliases adds unprefixed environment variables that override
// prefixed ones. Empty values are ignored. When several aliases target
// the same key, the later alias wins.
func WithEnvAliases(aliases ...EnvAlias) Option {
	return func(l *Loader) {
		l.aliases = append(l.aliases, aliases...)
	}
}

// WithDefaults seeds the loader with a struct carrying koanf tags.
// Seeded keys are also used to resolve environment variable names
// whose key segments contain underscores.
func WithDefaults(v any) Option {
	return func(l *Loader) {
		l.defaults = v
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k: koanf.New("."),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Loading order (later sources override earlier):
//  1. Defaults (WithDefaults)
//  2. Configuration file
//  3. Prefixed environment variables
//  4. Environment aliases
//
// Flags are merged afterwards through LoadMap followed by Unmarshal.
func (l *Loader) Load(target any) error {
	if l.defaults != nil {
		if err := l.k.Load(structs.Provider(l.defaults, "koanf"), nil); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}

	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return err
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return nil
}

// LoadFile loads configuration from a file. The format is chosen by
// the file extension.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	parser, err := ParserFor(path)
	if err != nil {
		return err
	}

	if err := l.k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads prefixed environment variables followed by aliases.
// DEMO_SERVER_HTTP_STATIC_DIR resolves to server.http.static_dir when
// that key is already known, and to server.http.static.dir otherwise.
func (l *Loader) LoadEnv() error {
	known := make(map[string]string)
	for _, key := range l.k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	transform := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		if key, ok := known[s]; ok {
			return key
		}
		return strings.ReplaceAll(s, "_", ".")
	}

	if l.envPrefix != "" {
		if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	for _, alias := range l.aliases {
		name, key := alias.Name, alias.Key
		provider := env.ProviderWithValue(name, ".", func(k, v string) (string, any) {
			if k != name || v == "" {
				return "", nil
			}
			return key, v
		})
		if err := l.k.Load(provider, nil); err != nil {
			return fmt.Errorf("load env alias %s: %w", name, err)
		}
	}

	return nil
}

// LoadMap loads configuration from a map (useful for flags or testing).
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping. Strings decode into durations
// ("5s") and comma-separated strings into slices ("a,b").
func (l *Loader) Unmarshal(target any) error {
	return l.k.UnmarshalWithConf("", target, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
		},
	})
}
