package confloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

var (
	// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
	ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

	// ErrUnsupportedFormat is returned for configuration files with an unknown extension.
	ErrUnsupportedFormat = errors.New("confloader: unsupported config format")
)

// mapProvider is a koanf provider over an in-memory map. Keys may be
// dotted ("server.http.port") or nested maps.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}

// ParserFor returns the koanf parser matching the file extension.
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return tomlParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// tomlParser implements koanf.Parser with BurntSushi/toml.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(o map[string]any) ([]byte, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(o); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
