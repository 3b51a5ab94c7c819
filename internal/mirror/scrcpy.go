package mirror

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	appconfig "github.com/HaiFongPan/hsq-cli/internal/config"
)

// Launcher starts scrcpy against a device
type Launcher struct {
	opts   appconfig.MirrorConfig
	runner func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewLauncher creates a launcher from mirror configuration
func NewLauncher(opts appconfig.MirrorConfig) *Launcher {
	if opts.Binary == "" {
		opts.Binary = "scrcpy"
	}
	return &Launcher{opts: opts, runner: exec.CommandContext}
}

// Args builds the scrcpy command line for serial
func (l *Launcher) Args(serial string) []string {
	var args []string
	if serial != "" {
		args = append(args, "--serial", serial)
	}
	if l.opts.AlwaysOnTop {
		args = append(args, "--always-on-top")
	}
	if l.opts.BitRate != "" {
		args = append(args, "--bit-rate", l.opts.BitRate)
	}
	if l.opts.Crop != "" {
		args = append(args, "--crop", l.opts.Crop)
	}
	if l.opts.NoControl {
		args = append(args, "--no-control")
	}
	if l.opts.Fullscreen {
		args = append(args, "--fullscreen")
	}
	if l.opts.MaxSize > 0 {
		args = append(args, "--max-size", strconv.Itoa(l.opts.MaxSize))
	}
	if l.opts.MaxFPS > 0 {
		args = append(args, "--max-fps", strconv.Itoa(l.opts.MaxFPS))
	}
	return args
}

// Run blocks until the mirror window is closed
func (l *Launcher) Run(ctx context.Context, serial string) error {
	args := l.Args(serial)
	logrus.Infof("mirror: %s %s", l.opts.Binary, strings.Join(args, " "))

	cmd := l.runner(ctx, l.opts.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ScrCpy Error: %w: %s", err, msg)
		}
		return fmt.Errorf("ScrCpy Error: %w", err)
	}
	return nil
}

// ClosedMessage is reported once the stream window closes normally
const ClosedMessage = "Stream closed."
