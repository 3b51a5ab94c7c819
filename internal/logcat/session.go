package logcat

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// ErrRunning is returned when a stream is already active
var ErrRunning = errors.New("logcat is already running")

// Streamer is the bridge call that produces log entries
type Streamer interface {
	Logcat(ctx context.Context, serial string, opts adb.LogcatOptions, fn func(adb.LogEntry)) error
}

// Session runs one logcat stream at a time into a Buffer
type Session struct {
	streamer Streamer
	buffer   *Buffer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewSession creates a session filling buffer
func NewSession(streamer Streamer, buffer *Buffer) *Session {
	return &Session{streamer: streamer, buffer: buffer}
}

// Buffer returns the entries collected so far
func (s *Session) Buffer() *Buffer {
	return s.buffer
}

// Start clears the buffer and streams in the background. onEntry, if set,
// is called for every entry the buffer keeps.
func (s *Session) Start(ctx context.Context, serial string, opts adb.LogcatOptions, onEntry func(adb.LogEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runningLocked() {
		return ErrRunning
	}

	s.buffer.Reset()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.err = nil

	go func() {
		defer cancel()

		err := s.streamer.Logcat(runCtx, serial, opts, func(e adb.LogEntry) {
			if s.buffer.Add(e) && onEntry != nil {
				onEntry(e)
			}
		})
		if err != nil {
			logrus.Errorf("logcat stream ended: %v", err)
		}

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(done)
	}()

	return nil
}

// Running reports whether a stream is active
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *Session) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the last stream ends and returns its error
func (s *Session) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop ends the active stream and waits for it to finish
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.runningLocked() {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	return s.Wait()
}
