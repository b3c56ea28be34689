package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate checks the struct-level shape constraints declared as tags
// on the config model. A single instance is safe for concurrent use.
var validate = validator.New()

// Load reads and parses the configuration file at path.
//
// It returns a descriptive error when the file is unreadable, is not
// well-formed YAML, or violates the field-shape constraints of the
// model. On error no partial Config is returned. Load does not check
// graph invariants; pass the result to pkg/validation for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses an in-memory YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration has invalid shape: %w", err)
	}
	return &cfg, nil
}
