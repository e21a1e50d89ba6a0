package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"
)

//go:embed report.html.tmpl
var htmlTemplate string

// HTMLReport is a Sink rendering a single static HTML file
type HTMLReport struct {
	mu      sync.Mutex
	path    string
	title   string
	started time.Time
	now     func() time.Time
	tmpl    *template.Template
	entries []*htmlEntry
}

type htmlEntry struct {
	report      *HTMLReport
	Name        string
	Description string
	Started     time.Time
	Status      Status
	Lines       []logLine
}

type logLine struct {
	Time    time.Time
	Status  Status
	Message string
	Color   LabelColor // Set for label lines
	Image   string     // Set for attached images, relative to the report
}

// NewHTMLReport opens a report that will be written to path on Flush
func NewHTMLReport(path, title string) (*HTMLReport, error) {
	return newHTMLReport(path, title, time.Now)
}

func newHTMLReport(path, title string, now func() time.Time) (*HTMLReport, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"clock": func(t time.Time) string { return t.Format("15:04:05") },
	}).Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &HTMLReport{
		path:    path,
		title:   title,
		started: now(),
		now:     now,
		tmpl:    tmpl,
	}, nil
}

// Path returns the file the report is written to
func (r *HTMLReport) Path() string {
	return r.path
}

// Dir returns the directory holding the report and its attachments
func (r *HTMLReport) Dir() string {
	return filepath.Dir(r.path)
}

// CreateEntry appends a new test section
func (r *HTMLReport) CreateEntry(name, description string) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &htmlEntry{
		report:      r,
		Name:        name,
		Description: description,
		Started:     r.now(),
		Status:      StatusInfo,
	}
	r.entries = append(r.entries, e)
	return e
}

func (e *htmlEntry) Log(status Status, message string) {
	e.add(logLine{Status: status, Message: message})
}

func (e *htmlEntry) Label(status Status, message string, color LabelColor) {
	e.add(logLine{Status: status, Message: message, Color: color})
}

func (e *htmlEntry) AttachImage(path string) {
	e.add(logLine{Status: StatusInfo, Image: e.report.relative(path)})
}

func (e *htmlEntry) add(line logLine) {
	e.report.mu.Lock()
	defer e.report.mu.Unlock()
	line.Time = e.report.now()
	if line.Status.severity() > e.Status.severity() {
		e.Status = line.Status
	}
	e.Lines = append(e.Lines, line)
}

// relative makes an image path relative to the report so the document can be moved with its images
func (r *HTMLReport) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	dir, err := filepath.Abs(r.Dir())
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Counts is the status summary shown at the top of the report
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Counts returns the summary of entries created so far
func (r *HTMLReport) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countsLocked()
}

func (r *HTMLReport) countsLocked() Counts {
	c := Counts{Total: len(r.entries)}
	for _, e := range r.entries {
		switch e.Status {
		case StatusPass:
			c.Passed++
		case StatusFail:
			c.Failed++
		case StatusSkip:
			c.Skipped++
		}
	}
	return c
}

// Flush renders the document and replaces the report file atomically
func (r *HTMLReport) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	finished := r.now()
	data := struct {
		Title    string
		Started  time.Time
		Finished time.Time
		Duration time.Duration
		Counts   Counts
		Entries  []*htmlEntry
	}{
		Title:    r.title,
		Started:  r.started,
		Finished: finished,
		Duration: finished.Sub(r.started).Round(time.Millisecond),
		Counts:   r.countsLocked(),
		Entries:  r.entries,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	dir := r.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
