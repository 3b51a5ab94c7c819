package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	appconfig "github.com/HaiFongPan/hsq-cli/internal/config"
)

// Client drives the adb executable
type Client struct {
	adbPath          string
	progressInterval time.Duration
	// runner is swapped out in tests
	runner func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewClient creates a new bridge client from configuration
func NewClient(cfg *appconfig.ADBConfig) (*Client, error) {
	adbPath := cfg.Path
	if adbPath == "" {
		adbPath = "adb"
	}

	resolved, err := exec.LookPath(adbPath)
	if err != nil {
		return nil, fmt.Errorf("adb executable %q not found: %w", adbPath, err)
	}

	interval := time.Duration(cfg.ProgressInterval) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	return &Client{
		adbPath:          resolved,
		progressInterval: interval,
		runner:           exec.CommandContext,
	}, nil
}

// Path returns the resolved adb executable
func (c *Client) Path() string {
	return c.adbPath
}

// Run executes adb with the given arguments and returns its stdout
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	logrus.Debugf("adb: running %s", strings.Join(args, " "))

	cmd := c.runner(ctx, c.adbPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return stdout.String(), nil
}

// Devices lists attached devices
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	out, err := c.Run(ctx, "devices", "-l")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

// Shell runs a command on the device
func (c *Client) Shell(ctx context.Context, serial, command string) (string, error) {
	return c.Run(ctx, "-s", serial, "shell", command)
}

// ReadDir lists a remote directory
func (c *Client) ReadDir(ctx context.Context, serial, dir string) ([]FileInfo, error) {
	target := strings.TrimSuffix(dir, "/") + "/"
	out, err := c.Shell(ctx, serial, "ls -la "+Quote(target))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return parseListing(out), nil
}

// MakeDirectory creates a remote directory including parents
func (c *Client) MakeDirectory(ctx context.Context, serial, dir string) error {
	if _, err := c.Shell(ctx, serial, "mkdir -p "+Quote(dir)); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Push copies a local file onto the device
func (c *Client) Push(ctx context.Context, serial, localPath, remotePath string, progress ProgressFunc) error {
	sample := func() (int64, bool) {
		out, err := c.Shell(ctx, serial, "stat -c %s "+Quote(remotePath))
		if err != nil {
			return 0, false
		}
		return parseSize(out)
	}

	return c.transfer(ctx, sample, progress, "-s", serial, "push", localPath, remotePath)
}

// Pull copies a remote file to the local filesystem
func (c *Client) Pull(ctx context.Context, serial, remotePath, localPath string, progress ProgressFunc) error {
	return c.transfer(ctx, localSize(localPath), progress, "-s", serial, "pull", remotePath, localPath)
}

// Install installs an APK, replacing an existing installation
func (c *Client) Install(ctx context.Context, serial, apkPath string) error {
	out, err := c.Run(ctx, "-s", serial, "install", "-r", apkPath)
	if err != nil {
		return err
	}
	if strings.Contains(out, "Failure") {
		return &CommandError{
			Args:   []string{"-s", serial, "install", "-r", apkPath},
			Stderr: strings.TrimSpace(out),
			Err:    fmt.Errorf("install rejected"),
		}
	}
	logrus.Infof("adb: installed %s on %s", apkPath, serial)
	return nil
}

// transfer runs a push/pull while sampling progress on a ticker
func (c *Client) transfer(ctx context.Context, sample func() (int64, bool), progress ProgressFunc, args ...string) error {
	if progress == nil {
		_, err := c.Run(ctx, args...)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(runCtx, args...)
		done <- err
	}()

	ticker := time.NewTicker(c.progressInterval)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case err := <-done:
			if err == nil {
				if size, ok := sample(); ok && size > last {
					progress(Progress{BytesTransferred: size})
				}
			}
			return err
		case <-ticker.C:
			if size, ok := sample(); ok && size != last {
				last = size
				progress(Progress{BytesTransferred: size})
			}
		}
	}
}

// Quote wraps a remote path in double quotes for the device shell
func Quote(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(p) + `"`
}
