// Package parser reads scenario scripts.
package parser

import "sitecheck/internal/domain"

// Parser parses scenario scripts
type Parser interface {
	ParseFile(path string) (*domain.Script, error)
	Parse(data []byte, source string) (*domain.Script, error)
}
