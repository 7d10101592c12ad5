package question

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questions.json
var defaultDataset []byte

// Default returns the bank built from the embedded dataset.
func Default() (*Bank, error) {
	return Parse(defaultDataset, "json")
}

// LoadFile reads a dataset from disk. The format is picked from the file
// extension: .json, .yaml or .yml.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question dataset %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Parse(data, format)
}

// Parse decodes a dataset in the given format ("json", "yaml" or "yml").
func Parse(data []byte, format string) (*Bank, error) {
	var questions []Question

	switch format {
	case "json":
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parse question dataset: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parse question dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported question dataset format %q", format)
	}

	return New(questions)
}
