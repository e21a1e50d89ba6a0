//go:build e2e

// Package e2e runs the built-in scenarios in a real Chrome against local
// fixture pages that mimic the checked site.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present,
// or taken from SITECHECK_CHROME_BIN).
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
package e2e
