// Package browser defines the browser automation capability used by test steps
// and its go-rod implementation.
package browser

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when an element did not reach the awaited state within the wait ceiling
	ErrTimeout = errors.New("timed out waiting for element")
	// ErrElementNotFound is returned when a selector matches nothing
	ErrElementNotFound = errors.New("element not found")
	// ErrNoPage is returned when an operation needs a page before Navigate was called
	ErrNoPage = errors.New("no page open, call Navigate first")
)

// Driver is the browser capability a test step is allowed to use
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	MaximizeWindow(ctx context.Context) error

	// WaitVisible and WaitClickable block until the element reaches the state
	// or the wait ceiling expires
	WaitVisible(ctx context.Context, selector string) error
	WaitClickable(ctx context.Context, selector string) error

	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	PressTab(ctx context.Context, selector string) error
	SelectByText(ctx context.Context, selector, text string) error

	// Attribute returns nil when the attribute is not present
	Attribute(ctx context.Context, selector, name string) (*string, error)
	// Exists checks for a match without waiting
	Exists(ctx context.Context, selector string) (bool, error)

	// Screenshot captures the full page as PNG
	Screenshot(ctx context.Context) ([]byte, error)
	Quit() error
}

// Screenshotter is the part of Driver needed to capture failure evidence
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// ElementError describes a failed element operation
type ElementError struct {
	Op       string
	Selector string
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Selector, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
