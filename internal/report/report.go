// Package report collects per-test log entries and renders them into a static document.
package report

// Status is the level of a report log line
type Status string

const (
	StatusInfo Status = "info"
	StatusPass Status = "pass"
	StatusSkip Status = "skip"
	StatusFail Status = "fail"
)

// severity orders statuses so an entry shows the worst one it logged
func (s Status) severity() int {
	switch s {
	case StatusPass:
		return 1
	case StatusSkip:
		return 2
	case StatusFail:
		return 3
	}
	return 0
}

// LabelColor is the highlight color of a label line
type LabelColor string

const (
	ColorRed   LabelColor = "red"
	ColorGreen LabelColor = "green"
	ColorBlue  LabelColor = "blue"
)

// Sink creates report entries and writes the final document
type Sink interface {
	CreateEntry(name, description string) Entry
	Flush() error
}

// Entry is the report section of one test case
type Entry interface {
	Log(status Status, message string)
	Label(status Status, message string, color LabelColor)
	AttachImage(path string)
}
