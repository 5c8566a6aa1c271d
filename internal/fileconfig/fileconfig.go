// Package fileconfig decodes the YAML/JSON registry files (check plans,
// publisher lists) that sit next to the env-based configuration.
package fileconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	name string
	fn   func([]byte, any) error
}

var (
	yamlDecoder = decoder{name: "yaml", fn: yaml.Unmarshal}
	jsonDecoder = decoder{name: "json", fn: json.Unmarshal}
)

// decodersFor picks decoders by extension; unknown extensions try YAML then JSON.
func decodersFor(ext string) []decoder {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".yaml", ".yml":
		return []decoder{yamlDecoder}
	case ".json":
		return []decoder{jsonDecoder}
	default:
		return []decoder{yamlDecoder, jsonDecoder}
	}
}

// Load reads the file at path into out. kind names the file in errors
// ("checks", "publishers").
func Load(path, kind string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	return Decode(raw, filepath.Ext(path), kind, out)
}

// Decode unmarshals data into out using the decoder matching ext.
func Decode(data []byte, ext, kind string, out any) error {
	var errs []error
	for _, d := range decodersFor(ext) {
		err := d.fn(data, out)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("decode %s %s: %w", d.name, kind, err))
	}
	return fmt.Errorf("%s file format not recognized (expected YAML or JSON): %w", kind, errors.Join(errs...))
}
