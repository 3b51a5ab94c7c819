// Package progress reports browser and transfer activity on a terminal.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Console implements the browser status reporter and spinner for CLI mode
type Console struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewConsole creates a console reporter. Results go to out, spinners and errors to errOut.
func NewConsole(out, errOut io.Writer, quiet bool) *Console {
	return &Console{out: out, errOut: errOut, quiet: quiet}
}

// Show starts an indeterminate spinner
func (c *Console) Show(message string) {
	logrus.Debug(message)
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		c.bar.Describe(message)
		return
	}
	c.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.errOut),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update changes the spinner text
func (c *Console) Update(message string) {
	logrus.Debug(message)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		c.bar.Describe(message)
		_ = c.bar.Add(1)
	}
}

// Hide stops the spinner
func (c *Console) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
}

// Active reports whether a spinner is showing
func (c *Console) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bar != nil
}

// ShowStatus prints a result line
func (c *Console) ShowStatus(message string, isError bool) {
	if isError {
		logrus.Error(message)
		fmt.Fprintf(c.errOut, "Error: %s\n", message)
		return
	}

	logrus.Info(message)
	if !c.quiet {
		fmt.Fprintln(c.out, message)
	}
}

// Percent returns a callback drawing a 0-100 bar for description.
// Call the returned finish func once the transfer ends.
func (c *Console) Percent(description string) (func(percent float64), func()) {
	if c.quiet {
		return func(float64) {}, func() {}
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(c.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(c.errOut, "\n")
		}),
	)

	update := func(percent float64) {
		_ = bar.Set(int(percent))
	}
	finish := func() {
		_ = bar.Finish()
	}
	return update, finish
}
