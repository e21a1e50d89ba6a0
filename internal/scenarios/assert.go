package scenarios

import "fmt"

// Absent stands for a missing attribute or element in assertion messages
const Absent = "<absent>"

// AssertionError reports a page that does not look the way a step expects
type AssertionError struct {
	Message  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected [%s] but found [%s]", e.Message, e.Expected, e.Actual)
}
