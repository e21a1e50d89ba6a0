package scenarios

import (
	"os"

	"sitecheck/internal/discovery"
	"sitecheck/internal/domain"
	"sitecheck/internal/parser"
)

// Sources selects where scripts come from
type Sources struct {
	Builtin  bool     // Include the built-in flows
	Dir      string   // Directory of scenario scripts, may be empty
	SkipDirs []string // Directory names skipped while scanning Dir
}

// Collect gathers the scripts of all sources. A discovered script named like a
// built-in flow replaces it in place; other scripts follow in path order.
func Collect(src Sources) ([]*domain.Script, error) {
	var scripts []*domain.Script
	if src.Builtin {
		builtin, err := Builtin()
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, builtin...)
	}

	if src.Dir == "" {
		return scripts, nil
	}
	// A missing scenario directory is fine when the built-ins run
	if _, err := os.Stat(src.Dir); os.IsNotExist(err) && src.Builtin {
		return scripts, nil
	}

	loader := discovery.NewLoader(discovery.NewScanner(src.SkipDirs), parser.NewScriptParser())
	found, err := loader.Load(src.Dir)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(scripts))
	for i, s := range scripts {
		index[s.Name] = i
	}
	for _, s := range found {
		if i, ok := index[s.Name]; ok {
			scripts[i] = s
			continue
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
