package adb

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionStatus describes how the bridge sees a device
type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnected
	StatusUnauthorized
	StatusOffline
)

// String returns a readable status name
func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusOffline:
		return "offline"
	default:
		return "disconnected"
	}
}

// Device represents one entry of `adb devices -l`
type Device struct {
	Serial  string `json:"serial"`
	State   string `json:"state"`
	Model   string `json:"model,omitempty"`
	Product string `json:"product,omitempty"`
}

// Status maps the raw adb state onto a ConnectionStatus
func (d Device) Status() ConnectionStatus {
	switch d.State {
	case "device":
		return StatusConnected
	case "unauthorized":
		return StatusUnauthorized
	case "offline":
		return StatusOffline
	default:
		return StatusDisconnected
	}
}

// DisplayModel returns the model name with adb's underscores turned back into spaces
func (d Device) DisplayModel() string {
	return strings.ReplaceAll(d.Model, "_", " ")
}

// FileInfo is a raw directory entry as reported by the device
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
	IsFile  bool      `json:"is_file"`
}

// Progress is reported while a push or pull is running
type Progress struct {
	BytesTransferred int64
}

// ProgressFunc receives transfer progress samples
type ProgressFunc func(Progress)

// LogEntry is one parsed logcat line
type LogEntry struct {
	Date     string   `json:"date"`
	Message  string   `json:"message"`
	PID      int      `json:"pid"`
	TID      int      `json:"tid"`
	Tag      string   `json:"tag"`
	Priority Priority `json:"priority"`
}

// CommandError wraps a failed adb invocation
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("adb %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// SelectDevice picks the device to work with. A pinned serial must be
// present in devices; otherwise the first connected device wins, then the
// first device in any state.
func SelectDevice(devices []Device, serial string) (Device, bool) {
	if serial != "" {
		for _, d := range devices {
			if d.Serial == serial {
				return d, true
			}
		}
		return Device{Serial: serial}, false
	}

	for _, d := range devices {
		if d.Status() == StatusConnected {
			return d, true
		}
	}
	if len(devices) > 0 {
		return devices[0], true
	}
	return Device{}, false
}
