// Package schema validates sitecheck configuration files and scenario scripts
// against embedded JSON schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed *.schema.json
var files embed.FS

var (
	configSchema   *jsonschema.Schema
	scenarioSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{"config.schema.json", "scenario.schema.json"} {
			data, err := files.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		configSchema, err = compiler.Compile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}
		scenarioSchema, err = compiler.Compile("scenario.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateConfig validates YAML config data against the config schema.
func ValidateConfig(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	if err := validateYAML(configSchema, data); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ValidateScenario validates YAML scenario script data against the scenario schema.
func ValidateScenario(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	if err := validateYAML(scenarioSchema, data); err != nil {
		return fmt.Errorf("scenario validation failed: %w", err)
	}
	return nil
}

// validateYAML converts the YAML document to its JSON data model before validation
// so numbers and maps have the types the validator expects.
func validateYAML(s *jsonschema.Schema, data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert YAML to JSON: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return s.Validate(v)
}
