package scenarios

import (
	"context"
	"io"
	"regexp"
	"testing"

	"sitecheck/internal/browser"
	"sitecheck/internal/browser/browsertest"
	"sitecheck/internal/domain"
	"sitecheck/internal/execution"
	"sitecheck/internal/recorder"
	"sitecheck/internal/report/reporttest"
)

const (
	siteURL      = "https://zoom.us"
	homeURL      = "https://zoom.us/"
	joinURL      = "https://zoom.us/join"
	contactURL   = "https://explore.zoom.us/contactsales"
	homeTitle    = "Video Conferencing, Cloud Phone, Webinars, Chat, Virtual Events | Zoom"
	contactLink  = "a.top-contactsales.top-sales[href$='/contactsales']"
	emailError   = "span[for='email'][class='has-error help-block']"
	invalidEmail = "johndoe@mail"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// fakeSite serves the pages the built-in flows walk through
func fakeSite() *browsertest.Driver {
	d := browsertest.New(map[string]*browsertest.Page{
		homeURL: {Title: homeTitle, Elements: map[string]*browsertest.Element{
			"#btnJoinMeeting": {NavigatesTo: joinURL},
			contactLink:       {NavigatesTo: contactURL},
		}},
		joinURL: {Title: "Join Meeting - Zoom", Elements: map[string]*browsertest.Element{
			"#btnSubmit":   {Attrs: map[string]string{"disabled": ""}},
			"#join-confno": {},
		}},
		contactURL: {Title: "Contact Sales | Zoom", Elements: map[string]*browsertest.Element{
			"#email":          {},
			"#company":        {},
			"#first_name":     {},
			"#last_name":      {},
			"#employee_count": {Options: []string{"1-50", "51-250", "251-1000"}},
		}},
	})
	d.OnType = func(d *browsertest.Driver, selector, text string) {
		if selector == "#join-confno" && d.Element(selector).Value != "" {
			d.SetAttr("#btnSubmit", "disabled", nil)
		}
	}
	d.OnTab = func(d *browsertest.Driver, selector string) {
		if selector == "#email" && !emailPattern.MatchString(d.Element(selector).Value) {
			d.AddElement(emailError, &browsertest.Element{})
		}
	}
	return d
}

type run struct {
	results []domain.TestResult
	sink    *reporttest.Sink
	driver  *browsertest.Driver
	err     error
}

// runBuiltin compiles the built-in flows with vars and runs them against the fake site
func runBuiltin(t *testing.T, vars map[string]string) run {
	t.Helper()
	scripts, err := Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	compiler, err := NewCompiler(siteURL, vars)
	if err != nil {
		t.Fatalf("compiler: %v", err)
	}
	cases, err := compiler.CompileAll(scripts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	r := run{sink: reporttest.New(), driver: fakeSite()}
	dir := t.TempDir()
	suite := execution.NewSuite(
		func(ctx context.Context) (browser.Driver, error) { return r.driver, nil },
		r.sink,
		func(camera browser.Screenshotter) execution.OutcomeRecorder { return recorder.New(camera, dir, io.Discard) },
		execution.Options{Out: io.Discard},
	)
	r.results, _, r.err = suite.Execute(context.Background(), cases)
	return r
}
