package messaging

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/tui/theme"
)

// MessageType represents different message types for status display
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// DefaultTTL is how long a non-error message stays on screen
const DefaultTTL = 5 * time.Second

// StatusManager manages the one-line status shown in the footer
type StatusManager interface {
	SetMessage(message string, msgType MessageType)
	Report(message string, isError bool)
	ClearMessage()
	GetMessage() (string, MessageType, bool)
	Expire(now time.Time) bool
	RenderMessage() string
	HasMessage() bool
}

// StatusManagerImpl implements the StatusManager interface
type StatusManagerImpl struct {
	statusMessage string
	messageType   MessageType
	messageTimer  time.Time
	ttl           time.Duration
}

// NewStatusManager creates a status manager whose messages expire after ttl
func NewStatusManager(ttl time.Duration) StatusManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StatusManagerImpl{messageType: MessageInfo, ttl: ttl}
}

// SetMessage sets a status message with type
func (sm *StatusManagerImpl) SetMessage(message string, msgType MessageType) {
	sm.statusMessage = message
	sm.messageType = msgType
	sm.messageTimer = time.Now()

	logrus.Debugf("status: %q (type=%d)", message, msgType)
}

// Report maps a browser status report onto a message type
func (sm *StatusManagerImpl) Report(message string, isError bool) {
	if isError {
		sm.SetMessage(message, MessageError)
		return
	}
	sm.SetMessage(message, MessageSuccess)
}

// ClearMessage clears the status message
func (sm *StatusManagerImpl) ClearMessage() {
	sm.statusMessage = ""
}

// GetMessage returns the current message, type, and whether a message exists
func (sm *StatusManagerImpl) GetMessage() (string, MessageType, bool) {
	return sm.statusMessage, sm.messageType, sm.statusMessage != ""
}

// Expire clears a non-error message older than the ttl and reports whether it did.
// Errors stay until replaced.
func (sm *StatusManagerImpl) Expire(now time.Time) bool {
	if !sm.HasMessage() || sm.messageType == MessageError {
		return false
	}
	if now.Sub(sm.messageTimer) < sm.ttl {
		return false
	}
	sm.ClearMessage()
	return true
}

// HasMessage returns whether there is currently a status message
func (sm *StatusManagerImpl) HasMessage() bool {
	return sm.statusMessage != ""
}

// RenderMessage renders the current status message with appropriate styling
func (sm *StatusManagerImpl) RenderMessage() string {
	if !sm.HasMessage() {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(int(sm.messageType)))).
		Bold(true)

	return messageStyle.Render(fmt.Sprintf("%s %s", theme.GetMessageIcon(int(sm.messageType)), sm.statusMessage))
}
