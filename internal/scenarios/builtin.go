package scenarios

import (
	"embed"
	"fmt"

	"sitecheck/internal/domain"
	"sitecheck/internal/parser"
)

// BuiltinSource is the Source of scripts shipped with the binary
const BuiltinSource = "builtin"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// builtinOrder is the order the built-in flows run in
var builtinOrder = []string{"join-meeting", "contact-sales"}

// BuiltinNames lists the built-in flows in run order
func BuiltinNames() []string {
	return append([]string(nil), builtinOrder...)
}

// Builtin parses the embedded flows
func Builtin() ([]*domain.Script, error) {
	p := parser.NewScriptParser()
	scripts := make([]*domain.Script, 0, len(builtinOrder))
	for _, name := range builtinOrder {
		data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("builtin scenario %s: %w", name, err)
		}
		script, err := p.Parse(data, BuiltinSource)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}
