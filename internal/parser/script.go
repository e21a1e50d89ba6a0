package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"sitecheck/internal/domain"
	"sitecheck/internal/schema"
)

// ScriptParser parses YAML scenario scripts after validating them against the scenario schema
type ScriptParser struct{}

// NewScriptParser creates a new ScriptParser
func NewScriptParser() *ScriptParser {
	return &ScriptParser{}
}

// ParseFile reads and parses the script at path
func (p *ScriptParser) ParseFile(path string) (*domain.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario %s: %w", path, err)
	}
	return p.Parse(data, path)
}

// Parse parses a single script document; source is recorded on the script
func (p *ScriptParser) Parse(data []byte, source string) (*domain.Script, error) {
	if err := schema.ValidateScenario(data); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var script domain.Script
	if err := dec.Decode(&script); err != nil {
		return nil, fmt.Errorf("%s: failed to parse scenario: %w", source, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: expected a single YAML document", source)
	}

	script.Source = source
	return &script, nil
}
