package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// settleQuiet is how long the network must stay idle after a click
const settleQuiet = 300 * time.Millisecond

// Options configures the Chrome launch
type Options struct {
	Bin               string        // Chrome binary, empty lets Rod find or download one
	Headless          bool          // Run in headless mode
	NoSandbox         bool          // Disable the sandbox (needed in most containers)
	Wait              time.Duration // Wait ceiling for element readiness
	NavigationTimeout time.Duration // Timeout for a page load
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		NoSandbox:         true,
		Wait:              4 * time.Second,
		NavigationTimeout: 30 * time.Second,
	}
}

// RodDriver implements Driver over a single Chrome tab driven by Rod
type RodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
}

// NewRodDriver launches Chrome and connects to it.
// The caller owns the session and must call Quit.
func NewRodDriver(opts Options) (*RodDriver, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("window-size", "1920,1080")
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	return &RodDriver{
		launcher: l,
		browser:  b,
		opts:     opts,
	}, nil
}

// Navigate opens url in the session tab, creating the tab on first use
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	if d.page == nil {
		page, err := d.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
		d.page = page
	}

	p := d.page.Context(ctx).Timeout(d.opts.NavigationTimeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, translate(ctx, err))
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page %s did not finish loading: %w", url, translate(ctx, err))
	}
	return nil
}

// Title returns the document title of the current page
func (d *RodDriver) Title(ctx context.Context) (string, error) {
	if d.page == nil {
		return "", ErrNoPage
	}
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return info.Title, nil
}

// MaximizeWindow maximizes the browser window holding the page
func (d *RodDriver) MaximizeWindow(ctx context.Context) error {
	if d.page == nil {
		return ErrNoPage
	}
	err := d.page.Context(ctx).SetWindow(&proto.BrowserBounds{
		WindowState: proto.BrowserWindowStateMaximized,
	})
	if err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}
	return nil
}

func (d *RodDriver) WaitVisible(ctx context.Context, selector string) error {
	return d.withElement(ctx, "wait visible", selector, func(el *rod.Element) error {
		return el.WaitVisible()
	})
}

func (d *RodDriver) WaitClickable(ctx context.Context, selector string) error {
	return d.withElement(ctx, "wait clickable", selector, func(el *rod.Element) error {
		if err := el.WaitVisible(); err != nil {
			return err
		}
		return el.WaitEnabled()
	})
}

// Click clicks selector and lets a navigation it triggers finish loading.
// The network idle wait is bounded by the wait ceiling; a page that keeps
// polling never goes idle, and that is not a failure of the click.
func (d *RodDriver) Click(ctx context.Context, selector string) error {
	if d.page == nil {
		return ErrNoPage
	}

	idleCtx, stopIdle := context.WithCancel(ctx)
	defer stopIdle()
	idle := d.page.Context(idleCtx).WaitRequestIdle(settleQuiet, nil, nil, nil)

	err := d.withElement(ctx, "click", selector, func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
	if err != nil {
		return err
	}

	ceiling := time.AfterFunc(d.opts.Wait, stopIdle)
	idle()
	ceiling.Stop()

	load := d.page.Context(ctx).Timeout(d.opts.NavigationTimeout)
	defer load.CancelTimeout()
	if err := load.WaitLoad(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("page did not finish loading after click on %s: %w", selector, translate(ctx, err))
	}
	return nil
}

func (d *RodDriver) Type(ctx context.Context, selector, text string) error {
	return d.withElement(ctx, "type into", selector, func(el *rod.Element) error {
		return el.Input(text)
	})
}

func (d *RodDriver) PressTab(ctx context.Context, selector string) error {
	return d.withElement(ctx, "press tab in", selector, func(el *rod.Element) error {
		return el.Type(input.Tab)
	})
}

func (d *RodDriver) SelectByText(ctx context.Context, selector, text string) error {
	return d.withElement(ctx, "select "+text+" in", selector, func(el *rod.Element) error {
		return el.Select([]string{text}, true, rod.SelectorTypeText)
	})
}

func (d *RodDriver) Attribute(ctx context.Context, selector, name string) (*string, error) {
	var value *string
	err := d.withElement(ctx, "read "+name+" of", selector, func(el *rod.Element) error {
		v, err := el.Attribute(name)
		value = AttributeValue(name, v)
		return err
	})
	return value, err
}

func (d *RodDriver) Exists(ctx context.Context, selector string) (bool, error) {
	if d.page == nil {
		return false, ErrNoPage
	}
	has, _, err := d.page.Context(ctx).Has(selector)
	if err != nil {
		return false, &ElementError{Op: "look up", Selector: selector, Err: translate(ctx, err)}
	}
	return has, nil
}

// Screenshot captures the full page as PNG
func (d *RodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if d.page == nil {
		return nil, ErrNoPage
	}
	data, err := d.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return data, nil
}

// Quit closes the browser and removes its profile directory
func (d *RodDriver) Quit() error {
	err := d.browser.Close()
	d.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close Chrome: %w", err)
	}
	return nil
}

// withElement finds selector under the wait ceiling and runs fn on it.
// The element inherits the ceiling, so waits done by fn are bounded too.
func (d *RodDriver) withElement(ctx context.Context, op, selector string, fn func(el *rod.Element) error) error {
	if d.page == nil {
		return ErrNoPage
	}

	p := d.page.Context(ctx).Timeout(d.opts.Wait)
	defer p.CancelTimeout()

	el, err := p.Element(selector)
	if err != nil {
		return &ElementError{Op: op, Selector: selector, Err: translate(ctx, err)}
	}
	if err := fn(el); err != nil {
		return &ElementError{Op: op, Selector: selector, Err: translate(ctx, err)}
	}
	return nil
}

// translate maps Rod and context errors onto the package sentinels.
// A deadline hit while the caller's context is still alive is the wait ceiling.
func translate(ctx context.Context, err error) error {
	var notFound *rod.ElementNotFoundError
	switch {
	case errors.As(err, &notFound):
		return ErrElementNotFound
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return ErrTimeout
	}
	return err
}
