package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"sitecheck/internal/domain"
	"sitecheck/internal/storage"
)

var _ Viewer = (*ErrorViewer)(nil)

// ErrorViewer displays scenario failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer that persists resolved marks to st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// failureList is the failures of a run, indexed in list order
type failureList struct {
	output  *domain.RunOutput
	indices []int // positions in output.Results
}

func newFailureList(output *domain.RunOutput) *failureList {
	l := &failureList{output: output}
	for i, r := range output.Results {
		if r.Failed() {
			l.indices = append(l.indices, i)
		}
	}
	return l
}

func (l *failureList) Len() int {
	return len(l.indices)
}

func (l *failureList) Failure(i int) *domain.TestResult {
	return &l.output.Results[l.indices[i]]
}

// Toggle flips the resolved mark of failure i
func (l *failureList) Toggle(i int) {
	f := l.Failure(i)
	f.Resolved = !f.Resolved
}

func (l *failureList) Unresolved() int {
	count := 0
	for i := range l.indices {
		if !l.Failure(i).Resolved {
			count++
		}
	}
	return count
}

// itemText returns the list label of failure i using tview color tags
func (l *failureList) itemText(i int) string {
	failure := l.Failure(i)
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Scenario %d", i+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", i+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", i+1, name)
}

// View displays scenario failures in an interactive TUI
func (ev *ErrorViewer) View(output *domain.RunOutput) error {
	failures := newFailureList(output)
	if failures.Len() == 0 {
		color.Green("✓ No scenario failures found!")
		return nil
	}

	// Create the application
	app := tview.NewApplication()

	// Create list for failed scenarios (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := 0; i < failures.Len(); i++ {
		list.AddItem(failures.itemText(i), "", 0, nil)
	}

	// Set list colors for better visibility
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Create stats header view (shows source and scenario info)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	// Create text view for failure details (right side)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	// Create a container with right padding for the details view
	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	// Create right side layout: stats on top, details below
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// Create simple flex layout: list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	var saveErr error
	updateHeader := func() {
		headerText := fmt.Sprintf(" Scenario Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", failures.Len(), failures.Unresolved())
		if saveErr != nil {
			headerText += fmt.Sprintf("| [red]save failed: %v[white] ", saveErr)
		}
		headerView.SetText(headerText)
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < failures.Len() {
			failure := failures.Failure(index)
			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	// Set up keyboard handlers for list
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < failures.Len() {
					failures.Toggle(index)
					list.SetItemText(index, failures.itemText(index), "")
					saveErr = ev.storage.SaveOutput(output)
					updateHeader()
					updateDetails()
				}
				return nil
			}
		}
		return event
	})

	// Set up keyboard handlers for details view
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return saveErr
}

// formatFailureDetails formats a scenario failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure *domain.TestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Scenario: %s[white]\n", tview.Escape(failure.Name))
	if failure.Description != "" {
		fmt.Fprintf(&b, "%s\n", tview.Escape(failure.Description))
	}
	b.WriteString("\n")

	if failure.FailedStep != "" {
		fmt.Fprintf(&b, "[yellow]Failed step:[white]\n%s (after %d passing step(s))\n\n", tview.Escape(failure.FailedStep), failure.StepsRun)
	}
	if failure.Cause != "" {
		fmt.Fprintf(&b, "[yellow]Cause:[white]\n%s\n\n", tview.Escape(failure.Cause))
	}
	if failure.Screenshot != "" {
		fmt.Fprintf(&b, "[yellow]Screenshot:[white]\n%s\n", tview.Escape(failure.Screenshot))
	} else {
		b.WriteString("[gray]No screenshot captured[white]\n")
	}
	return b.String()
}

// formatFailureStats formats the stats header for a scenario failure
func formatFailureStats(failure *domain.TestResult, number int) string {
	source := failure.Source
	if source == "" {
		source = "Unknown source"
	}
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Scenario %d", number)
	}
	status := "[red]unresolved[white]"
	if failure.Resolved {
		status = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]::[yellow]%s[white] %s\n", tview.Escape(source), tview.Escape(name), status)
}
