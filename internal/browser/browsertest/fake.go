// Package browsertest provides an in-memory browser.Driver for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"sitecheck/internal/browser"
)

// FakePNG is a minimal PNG signature returned as the default screenshot
var FakePNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Element is a fake DOM element
type Element struct {
	Hidden      bool
	Disabled    bool
	Attrs       map[string]string
	Value       string
	Options     []string
	Selected    string
	NavigatesTo string // URL loaded when the element is clicked
}

// Page is a fake document reachable by URL
type Page struct {
	Title    string
	Elements map[string]*Element
}

// Driver is a scripted browser.Driver. Element waits never block: a missing
// or hidden element fails immediately with browser.ErrTimeout.
type Driver struct {
	Pages map[string]*Page

	// OnType runs after text is typed into selector
	OnType func(d *Driver, selector, text string)
	// OnTab runs after Tab is pressed in selector
	OnTab func(d *Driver, selector string)

	ScreenshotData []byte
	ScreenshotErr  error
	NavigateErr    error

	mu        sync.Mutex
	current   *Page
	url       string
	calls     []string
	quits     int
	maximized bool
}

// New returns a fake driver serving pages
func New(pages map[string]*Page) *Driver {
	return &Driver{Pages: pages, ScreenshotData: FakePNG}
}

var _ browser.Driver = (*Driver)(nil)

func (d *Driver) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

// Calls returns the operations performed so far
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Quits returns how many times Quit was called
func (d *Driver) Quits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quits
}

// Maximized reports whether MaximizeWindow was called
func (d *Driver) Maximized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maximized
}

// URL returns the current page URL
func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// Element returns an element of the current page, nil when absent
func (d *Driver) Element(selector string) *Element {
	if d.current == nil {
		return nil
	}
	return d.current.Elements[selector]
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("navigate %s", url)
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	return d.load(url)
}

func (d *Driver) load(url string) error {
	page, ok := d.Pages[url]
	if !ok {
		return fmt.Errorf("failed to navigate to %s: no such page", url)
	}
	d.current = page
	d.url = url
	return nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return "", browser.ErrNoPage
	}
	return d.current.Title, nil
}

func (d *Driver) MaximizeWindow(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("maximize")
	if d.current == nil {
		return browser.ErrNoPage
	}
	d.maximized = true
	return nil
}

// find resolves selector the way the real driver does after its wait ceiling
func (d *Driver) find(op, selector string, ready func(*Element) bool) (*Element, error) {
	if d.current == nil {
		return nil, browser.ErrNoPage
	}
	el, ok := d.current.Elements[selector]
	if !ok {
		return nil, &browser.ElementError{Op: op, Selector: selector, Err: browser.ErrTimeout}
	}
	if ready != nil && !ready(el) {
		return nil, &browser.ElementError{Op: op, Selector: selector, Err: browser.ErrTimeout}
	}
	return el, nil
}

func visible(el *Element) bool   { return !el.Hidden }
func clickable(el *Element) bool { return !el.Hidden && !el.Disabled }

func (d *Driver) WaitVisible(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("wait visible %s", selector)
	_, err := d.find("wait visible", selector, visible)
	return err
}

func (d *Driver) WaitClickable(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("wait clickable %s", selector)
	_, err := d.find("wait clickable", selector, clickable)
	return err
}

func (d *Driver) Click(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("click %s", selector)
	el, err := d.find("click", selector, clickable)
	if err != nil {
		return err
	}
	if el.NavigatesTo != "" {
		return d.load(el.NavigatesTo)
	}
	return nil
}

func (d *Driver) Type(ctx context.Context, selector, text string) error {
	d.mu.Lock()
	el, err := d.find("type into", selector, visible)
	d.record("type %s %s", selector, text)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	el.Value += text
	hook := d.OnType
	d.mu.Unlock()

	if hook != nil {
		hook(d, selector, text)
	}
	return nil
}

func (d *Driver) PressTab(ctx context.Context, selector string) error {
	d.mu.Lock()
	_, err := d.find("press tab in", selector, visible)
	d.record("tab %s", selector)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	hook := d.OnTab
	d.mu.Unlock()

	if hook != nil {
		hook(d, selector)
	}
	return nil
}

func (d *Driver) SelectByText(ctx context.Context, selector, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("select %s %s", selector, text)
	el, err := d.find("select "+text+" in", selector, visible)
	if err != nil {
		return err
	}
	for _, option := range el.Options {
		if option == text {
			el.Selected = text
			return nil
		}
	}
	return &browser.ElementError{Op: "select " + text + " in", Selector: selector, Err: browser.ErrElementNotFound}
}

func (d *Driver) Attribute(ctx context.Context, selector, name string) (*string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.find("read "+name+" of", selector, visible)
	if err != nil {
		return nil, err
	}
	v, ok := el.Attrs[name]
	if !ok {
		return nil, nil
	}
	return browser.AttributeValue(name, &v), nil
}

func (d *Driver) Exists(ctx context.Context, selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return false, browser.ErrNoPage
	}
	_, ok := d.current.Elements[selector]
	return ok, nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("screenshot")
	if d.ScreenshotErr != nil {
		return nil, d.ScreenshotErr
	}
	if d.current == nil {
		return nil, browser.ErrNoPage
	}
	return d.ScreenshotData, nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quits++
	if d.quits > 1 {
		return errors.New("browser already closed")
	}
	return nil
}

// SetAttr sets or, with a nil value, removes an attribute on the current page
func (d *Driver) SetAttr(selector, name string, value *string) {
	el := d.Element(selector)
	if el == nil {
		return
	}
	if value == nil {
		delete(el.Attrs, name)
		return
	}
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	el.Attrs[name] = *value
}

// AddElement inserts an element into the current page
func (d *Driver) AddElement(selector string, el *Element) {
	if d.current != nil {
		d.current.Elements[selector] = el
	}
}

// Selectors lists the element selectors of the current page
func (d *Driver) Selectors() []string {
	if d.current == nil {
		return nil
	}
	var out []string
	for s := range d.current.Elements {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
