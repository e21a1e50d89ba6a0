package scenarios

import (
	"context"
	"fmt"

	"sitecheck/internal/execution"
)

type action = func(ctx context.Context, s *execution.Session) error

func navigate(target string) action {
	return func(ctx context.Context, s *execution.Session) error {
		return s.Driver.Navigate(ctx, target)
	}
}

func maximize(ctx context.Context, s *execution.Session) error {
	return s.Driver.MaximizeWindow(ctx)
}

func assertTitle(want string) action {
	return func(ctx context.Context, s *execution.Session) error {
		got, err := s.Driver.Title(ctx)
		if err != nil {
			return err
		}
		if got != want {
			return &AssertionError{Message: "page title mismatch", Expected: want, Actual: got}
		}
		return nil
	}
}

func click(selector string) action {
	return func(ctx context.Context, s *execution.Session) error {
		if err := s.Driver.WaitClickable(ctx, selector); err != nil {
			return err
		}
		return s.Driver.Click(ctx, selector)
	}
}

func waitVisible(selector string) action {
	return func(ctx context.Context, s *execution.Session) error {
		return s.Driver.WaitVisible(ctx, selector)
	}
}

func typeText(selector, text string, tab bool) action {
	return func(ctx context.Context, s *execution.Session) error {
		if err := s.Driver.WaitVisible(ctx, selector); err != nil {
			return err
		}
		if err := s.Driver.Type(ctx, selector, text); err != nil {
			return err
		}
		if tab {
			return s.Driver.PressTab(ctx, selector)
		}
		return nil
	}
}

func assertAttribute(selector, name, equals string, absent bool) action {
	return func(ctx context.Context, s *execution.Session) error {
		if err := s.Driver.WaitVisible(ctx, selector); err != nil {
			return err
		}
		got, err := s.Driver.Attribute(ctx, selector, name)
		if err != nil {
			return err
		}

		actual := Absent
		if got != nil {
			actual = *got
		}
		expected := equals
		if absent {
			expected = Absent
		}
		if actual != expected || (!absent && got == nil) {
			return &AssertionError{
				Message:  fmt.Sprintf("attribute %s of %s", name, selector),
				Expected: expected,
				Actual:   actual,
			}
		}
		return nil
	}
}

func assertAbsent(selector, message string) action {
	if message == "" {
		message = "element " + selector + " should not be present"
	}
	return func(ctx context.Context, s *execution.Session) error {
		found, err := s.Driver.Exists(ctx, selector)
		if err != nil {
			return err
		}
		if found {
			return &AssertionError{Message: message, Expected: "false", Actual: "true"}
		}
		return nil
	}
}

func selectText(selector, text string) action {
	return func(ctx context.Context, s *execution.Session) error {
		if err := s.Driver.WaitVisible(ctx, selector); err != nil {
			return err
		}
		return s.Driver.SelectByText(ctx, selector, text)
	}
}
