// Package config loads helios.yaml project files. JSON files are accepted
// too since every JSON document is valid YAML.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// MinRuntimeVersion is the oldest vdom runtime the generated code works with
const MinRuntimeVersion = "v1.0.0"

// ErrRuntimeVersion is returned when the configured runtime is too old
var ErrRuntimeVersion = errors.New("runtime version too old")

//go:embed schema.json
var schemaJSON string

type Config struct {
	Entry            string  `yaml:"entry" json:"entry"`
	Output           string  `yaml:"output" json:"output"`
	Manifest         string  `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	Runtime          Runtime `yaml:"runtime" json:"runtime"`
	WarningsAsErrors bool    `yaml:"warnings_as_errors" json:"warnings_as_errors"`
}

// Runtime describes the vdom runtime the output is compiled against
type Runtime struct {
	Header  string `yaml:"header" json:"header"`
	Version string `yaml:"version" json:"version"`
}

func Default() *Config {
	return &Config{
		Entry:  "app.helios",
		Output: "generated.cpp",
		Runtime: Runtime{
			Header:  "vdom.hpp",
			Version: MinRuntimeVersion,
		},
	}
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints the schema cannot express
func (c *Config) Validate() error {
	if !semver.IsValid(c.Runtime.Version) {
		return fmt.Errorf("runtime version %q is not a semantic version", c.Runtime.Version)
	}
	if semver.Compare(c.Runtime.Version, MinRuntimeVersion) < 0 {
		return fmt.Errorf("%w: %s is older than %s", ErrRuntimeVersion, c.Runtime.Version, MinRuntimeVersion)
	}
	return nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = func(v interface{}) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			return semver.IsValid(s)
		}

		const url = "schema://helios.json"
		if schemaErr = compiler.AddResource(url, strings.NewReader(schemaJSON)); schemaErr != nil {
			return
		}
		schema, schemaErr = compiler.Compile(url)
	})
	return schema, schemaErr
}

// validateDocument checks a decoded YAML document against the schema. The
// document is round-tripped through JSON first so it only holds the value
// types the validator understands.
func validateDocument(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not a JSON-compatible document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return fmt.Errorf("config is not a JSON-compatible document: %w", err)
	}
	if err := s.Validate(normalized); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
