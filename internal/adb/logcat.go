package adb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Priority is an Android log priority
type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityDefault
	PriorityVerbose
	PriorityDebug
	PriorityInfo
	PriorityWarn
	PriorityError
	PriorityFatal
	PrioritySilent
)

var priorityNames = map[Priority]string{
	PriorityUnknown: "unknown",
	PriorityDefault: "default",
	PriorityVerbose: "verbose",
	PriorityDebug:   "debug",
	PriorityInfo:    "info",
	PriorityWarn:    "warn",
	PriorityError:   "error",
	PriorityFatal:   "fatal",
	PrioritySilent:  "silent",
}

var priorityLetters = map[Priority]string{
	PriorityVerbose: "V",
	PriorityDebug:   "D",
	PriorityInfo:    "I",
	PriorityWarn:    "W",
	PriorityError:   "E",
	PriorityFatal:   "F",
	PrioritySilent:  "S",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// Letter returns the logcat filter letter; unknown and default map to verbose
func (p Priority) Letter() string {
	if l, ok := priorityLetters[p]; ok {
		return l
	}
	return "V"
}

// ParsePriority accepts a priority name such as "debug" or a single letter such as "D"
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for p, name := range priorityNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	for p, letter := range priorityLetters {
		if strings.EqualFold(letter, s) {
			return p, nil
		}
	}
	return PriorityUnknown, fmt.Errorf("invalid log priority: %s", s)
}

// LogcatOptions selects which lines are streamed
type LogcatOptions struct {
	Tag      string
	Priority Priority
}

// `-v threadtime`: date time pid tid priority tag: message
var threadtimeLine = regexp.MustCompile(`^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+)\s+(\d+)\s+([VDIWEFS])\s+(.*?)\s*: ?(.*)$`)

// parseLogLine parses one threadtime line
func parseLogLine(line string) (LogEntry, bool) {
	m := threadtimeLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return LogEntry{}, false
	}

	pid, _ := strconv.Atoi(m[2])
	tid, _ := strconv.Atoi(m[3])
	prio, _ := ParsePriority(m[4])

	return LogEntry{
		Date:     m[1],
		PID:      pid,
		TID:      tid,
		Priority: prio,
		Tag:      m[5],
		Message:  m[6],
	}, true
}

// Logcat streams log entries until ctx is cancelled or the stream ends
func (c *Client) Logcat(ctx context.Context, serial string, opts LogcatOptions, fn func(LogEntry)) error {
	tag := opts.Tag
	if tag == "" {
		tag = "*"
	}
	args := []string{"-s", serial, "logcat", "-v", "threadtime", tag + ":" + opts.Priority.Letter()}
	if tag != "*" {
		args = append(args, "*:S")
	}

	cmd := c.runner(ctx, c.adbPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open logcat stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return &CommandError{Args: args, Err: err}
	}

	logrus.Infof("adb: logcat started on %s (%s)", serial, opts.Priority)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if entry, ok := parseLogLine(scanner.Text()); ok {
			fn(entry)
		}
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		logrus.Info("adb: logcat stopped")
		return nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return &CommandError{Args: args, Err: err}
	}
	return scanner.Err()
}
