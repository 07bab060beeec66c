package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a configuration file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension (.yaml, .yml, .json).
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// Parse decodes data in the given format. Nested objects are normalized to
// map[string]any so dotted keys resolve the same way for every format.
func Parse(data []byte, format Format) (Config, error) {
	var m map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}

	normalized, err := normalize(m)
	if err != nil {
		return Config{}, err
	}
	return New(normalized), nil
}

// FromReader reads all of r and parses it in the given format.
func FromReader(r io.Reader, format Format) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, format)
}

// FromFile loads configuration from a file, detecting the format by extension.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data, format)
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	return Parse(data, FormatYAML)
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	return Parse(data, FormatJSON)
}

// LoadSettingsFile reads path and extracts Settings from it. Any failure to
// read, parse, or validate the file is reported as ErrInvalidSettings.
func LoadSettingsFile(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, path, err)
	}
	return LoadSettings(cfg)
}

// normalize converts nested objects and lists so every object is a
// map[string]any. Objects with non-string keys are rejected.
func normalize(m map[string]any) (map[string]any, error) {
	for k, v := range m {
		nv, err := normalizeValue(k, v)
		if err != nil {
			return nil, err
		}
		m[k] = nv
	}
	return m, nil
}

func normalizeValue(path string, v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			nv, err := normalizeValue(path+"."+k, child)
			if err != nil {
				return nil, err
			}
			val[k] = nv
		}
		return val, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("config key %v under %s is not a string", k, path)
			}
			nv, err := normalizeValue(path+"."+s, child)
			if err != nil {
				return nil, err
			}
			out[s] = nv
		}
		return out, nil
	case []any:
		for i, child := range val {
			nv, err := normalizeValue(fmt.Sprintf("%s[%d]", path, i), child)
			if err != nil {
				return nil, err
			}
			val[i] = nv
		}
		return val, nil
	default:
		return v, nil
	}
}
