package discovery

import (
	"path/filepath"
	"strings"

	"sitecheck/internal/execution"
)

// Filter filters test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the test cases whose name matches pattern.
// Supports patterns like "join-*" or "*sales*"; a pattern without wildcards matches substrings.
func (f *Filter) FilterByName(cases []execution.TestCase, pattern string) []execution.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []execution.TestCase
	for _, tc := range cases {
		if Match(tc.Name, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// FilterByNames keeps the test cases named in names, preserving case order
func (f *Filter) FilterByNames(cases []execution.TestCase, names map[string]struct{}) []execution.TestCase {
	var filtered []execution.TestCase
	for _, tc := range cases {
		if _, ok := names[tc.Name]; ok {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// Match reports whether name matches pattern
func Match(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// If no wildcards, do a simple contains check
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	return false
}
