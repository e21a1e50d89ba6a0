// Package scenarios compiles scenario scripts into runnable test cases and
// ships the built-in flows.
package scenarios

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sitecheck/internal/domain"
	"sitecheck/internal/execution"
)

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var titler = cases.Title(language.English)

// Compiler turns scripts into test cases for one site
type Compiler struct {
	baseURL *url.URL
	vars    map[string]string
}

// NewCompiler creates a Compiler resolving relative URLs against baseURL.
// vars override the variables declared by each script.
func NewCompiler(baseURL string, vars map[string]string) (*Compiler, error) {
	c := &Compiler{vars: vars}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("base url %q must be absolute", baseURL)
		}
		c.baseURL = u
	}
	return c, nil
}

// CompileAll compiles scripts in order
func (c *Compiler) CompileAll(scripts []*domain.Script) ([]execution.TestCase, error) {
	out := make([]execution.TestCase, 0, len(scripts))
	for _, script := range scripts {
		tc, err := c.Compile(script)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

// Compile turns script into a test case, expanding variables and resolving URLs
func (c *Compiler) Compile(script *domain.Script) (execution.TestCase, error) {
	vars := make(map[string]string, len(script.Vars)+len(c.vars))
	for k, v := range script.Vars {
		vars[k] = v
	}
	for k, v := range c.vars {
		vars[k] = v
	}

	tc := execution.TestCase{
		Name:        script.Name,
		Description: script.Description,
		Source:      script.Source,
		Steps:       make([]execution.Step, 0, len(script.Steps)),
	}
	for i, raw := range script.Steps {
		step, err := c.compileStep(raw, vars)
		if err != nil {
			return execution.TestCase{}, fmt.Errorf("scenario %s step %d (%s): %w", script.Name, i+1, raw.Action, err)
		}
		tc.Steps = append(tc.Steps, step)
	}
	return tc, nil
}

func (c *Compiler) compileStep(raw domain.ScriptStep, vars map[string]string) (execution.Step, error) {
	var err error
	s := raw
	for _, field := range []*string{&s.URL, &s.Text, &s.Title, &s.Equals, &s.Message, &s.Pass} {
		if *field, err = expand(*field, vars); err != nil {
			return execution.Step{}, err
		}
	}

	var step execution.Step
	switch s.Action {
	case "navigate":
		target, err := c.resolve(s.URL)
		if err != nil {
			return execution.Step{}, err
		}
		s.URL = target
		step.Do = navigate(target)
	case "maximize":
		step.Do = maximize
	case "assert_title":
		step.Do = assertTitle(s.Title)
	case "click":
		step.Do = click(s.Selector)
	case "wait_visible":
		step.Do = waitVisible(s.Selector)
	case "type":
		step.Do = typeText(s.Selector, s.Text, s.Tab)
	case "assert_attribute":
		if s.Absent && s.Equals != "" {
			return execution.Step{}, fmt.Errorf("assert_attribute takes either equals or absent")
		}
		step.Do = assertAttribute(s.Selector, s.Attribute, s.Equals, s.Absent)
	case "assert_absent":
		step.Do = assertAbsent(s.Selector, s.Message)
	case "select":
		step.Do = selectText(s.Selector, s.Text)
	default:
		return execution.Step{}, fmt.Errorf("unknown action %q", s.Action)
	}

	step.Description = s.Pass
	if step.Description == "" {
		step.Description = DefaultPassMessage(s)
	}
	return step, nil
}

// resolve makes ref absolute against the base URL
func (c *Compiler) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("relative url %q needs a base url", ref)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// expand replaces ${name} references with their values
func expand(s string, vars map[string]string) (string, error) {
	var missing []string
	out := varPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := varPattern.FindStringSubmatch(ref)[1]
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("undefined variable %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// DefaultPassMessage describes a step that has no pass message of its own
func DefaultPassMessage(s domain.ScriptStep) string {
	verb := titler.String(strings.ReplaceAll(s.Action, "_", " "))
	switch s.Action {
	case "navigate":
		return verb + " " + s.URL
	case "maximize":
		return verb + " Window"
	case "assert_title":
		return fmt.Sprintf("%s %q", verb, s.Title)
	case "type", "select":
		return fmt.Sprintf("%s %q in %s", verb, s.Text, s.Selector)
	case "assert_attribute":
		if s.Absent {
			return fmt.Sprintf("%s %s of %s is absent", verb, s.Attribute, s.Selector)
		}
		return fmt.Sprintf("%s %s of %s is %q", verb, s.Attribute, s.Selector, s.Equals)
	default:
		return verb + " " + s.Selector
	}
}
