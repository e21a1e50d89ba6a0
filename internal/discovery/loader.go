package discovery

import (
	"fmt"

	"sitecheck/internal/domain"
	"sitecheck/internal/parser"
)

// Loader discovers and parses the scenario scripts of a directory
type Loader struct {
	scanner *Scanner
	parser  parser.Parser
}

// NewLoader creates a new Loader
func NewLoader(scanner *Scanner, p parser.Parser) *Loader {
	return &Loader{scanner: scanner, parser: p}
}

// Load parses every script under root. Scripts must have unique names.
func (l *Loader) Load(root string) ([]*domain.Script, error) {
	paths, err := l.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	scripts := make([]*domain.Script, 0, len(paths))
	for _, path := range paths {
		script, err := l.parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[script.Name]; ok {
			return nil, fmt.Errorf("scenario %q defined in both %s and %s", script.Name, prev, path)
		}
		seen[script.Name] = path
		scripts = append(scripts, script)
	}
	return scripts, nil
}
