package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// sender is the part of *tea.Program the reporter needs
type sender interface {
	Send(msg tea.Msg)
}

// statusMsg carries a browser status report into the update loop
type statusMsg struct {
	text    string
	isError bool
}

// spinnerMsg shows, updates or hides the loading indicator
type spinnerMsg struct {
	text   string
	active bool
}

// Reporter forwards browser status and spinner calls to the running program.
// Calls made before a program is attached are dropped.
type Reporter struct {
	mu     sync.RWMutex
	target sender
}

// NewReporter creates a detached reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Attach routes future reports to s
func (r *Reporter) Attach(s sender) {
	r.mu.Lock()
	r.target = s
	r.mu.Unlock()
}

func (r *Reporter) send(msg tea.Msg) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()

	if target != nil {
		target.Send(msg)
	}
}

// ShowStatus implements browser.StatusReporter
func (r *Reporter) ShowStatus(message string, isError bool) {
	r.send(statusMsg{text: message, isError: isError})
}

// Show implements browser.Spinner
func (r *Reporter) Show(message string) {
	r.send(spinnerMsg{text: message, active: true})
}

// Update implements browser.Spinner
func (r *Reporter) Update(message string) {
	r.send(spinnerMsg{text: message, active: true})
}

// Hide implements browser.Spinner
func (r *Reporter) Hide() {
	r.send(spinnerMsg{})
}
