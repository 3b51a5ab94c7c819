package logcat

import (
	"strings"
	"sync"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// DefaultCapacity is how many entries the viewer keeps
const DefaultCapacity = 200

// Buffer keeps the newest log entries first, optionally filtered by a search term
type Buffer struct {
	mu       sync.RWMutex
	capacity int
	search   string
	entries  []adb.LogEntry
}

// NewBuffer creates a buffer holding at most capacity entries
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// SetSearch changes the filter applied to entries added from now on
func (b *Buffer) SetSearch(term string) {
	b.mu.Lock()
	b.search = term
	b.mu.Unlock()
}

// Search returns the current filter
func (b *Buffer) Search() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.search
}

// Add records e if it matches the search term and reports whether it was kept
func (b *Buffer) Add(e adb.LogEntry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.search != "" && !strings.Contains(e.Message, b.search) && !strings.Contains(e.Tag, b.search) {
		return false
	}

	b.entries = append([]adb.LogEntry{e}, b.entries...)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}
	return true
}

// Entries returns a newest-first copy
func (b *Buffer) Entries() []adb.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]adb.LogEntry(nil), b.entries...)
}

// Len returns the number of kept entries
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Reset drops every entry
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.entries = nil
	b.mu.Unlock()
}
