// Package reporttest provides an in-memory report.Sink for tests.
package reporttest

import (
	"sync"

	"sitecheck/internal/report"
)

// Line is one recorded log, label or image
type Line struct {
	Status  report.Status
	Message string
	Color   report.LabelColor
	Image   string
}

// Entry records everything logged for one test
type Entry struct {
	mu          sync.Mutex
	Name        string
	Description string
	lines       []Line
}

func (e *Entry) Log(status report.Status, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = append(e.lines, Line{Status: status, Message: message})
}

func (e *Entry) Label(status report.Status, message string, color report.LabelColor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = append(e.lines, Line{Status: status, Message: message, Color: color})
}

func (e *Entry) AttachImage(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = append(e.lines, Line{Status: report.StatusInfo, Image: path})
}

// Lines returns a copy of the recorded lines
func (e *Entry) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Line(nil), e.lines...)
}

// Images returns the attached image paths
func (e *Entry) Images() []string {
	var images []string
	for _, l := range e.Lines() {
		if l.Image != "" {
			images = append(images, l.Image)
		}
	}
	return images
}

// Last returns the last recorded line
func (e *Entry) Last() Line {
	lines := e.Lines()
	if len(lines) == 0 {
		return Line{}
	}
	return lines[len(lines)-1]
}

// Sink keeps entries in memory and counts flushes
type Sink struct {
	mu       sync.Mutex
	entries  []*Entry
	flushes  int
	FlushErr error
}

// New returns an empty Sink
func New() *Sink {
	return &Sink{}
}

func (s *Sink) CreateEntry(name, description string) report.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &Entry{Name: name, Description: description}
	s.entries = append(s.entries, e)
	return e
}

func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return s.FlushErr
}

// Entries returns the created entries in order
func (s *Sink) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Entry(nil), s.entries...)
}

// Flushes returns how many times Flush was called
func (s *Sink) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}
