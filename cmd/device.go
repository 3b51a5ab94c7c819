package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/browser"
	"github.com/HaiFongPan/hsq-cli/internal/progress"
)

// session bundles what a one-shot command needs to talk to the headset
type session struct {
	client  *adb.Client
	device  adb.Device
	console *progress.Console
	browser *browser.Browser
}

// effectiveSerial prefers --serial over the configured serial
func effectiveSerial() string {
	if serialFlag != "" {
		return serialFlag
	}
	return globalConfig.ADB.Serial
}

// commandContext is cancelled on interrupt
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func newConsole() *progress.Console {
	return progress.NewConsole(os.Stdout, os.Stderr, quiet)
}

// resolveDevice picks the target device and requires it to be connected
func resolveDevice(ctx context.Context, client *adb.Client) (adb.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(globalConfig.General.DefaultTimeout)*time.Second)
	defer cancel()

	devices, err := client.Devices(ctx)
	if err != nil {
		return adb.Device{}, fmt.Errorf("failed to list devices: %w", err)
	}

	serial := effectiveSerial()
	dev, ok := adb.SelectDevice(devices, serial)
	if !ok {
		if serial != "" {
			return adb.Device{}, fmt.Errorf("device %s not found", serial)
		}
		return adb.Device{}, browser.ErrNotConnected
	}
	if dev.Status() != adb.StatusConnected {
		return adb.Device{}, fmt.Errorf("device %s is %s", dev.Serial, dev.Status())
	}

	logrus.Debugf("using device %s (%s)", dev.Serial, dev.DisplayModel())
	return dev, nil
}

// connect resolves the device without opening a browser
func connect(ctx context.Context) (*session, error) {
	client, err := adb.NewClient(&globalConfig.ADB)
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(ctx, client)
	if err != nil {
		return nil, err
	}
	return &session{client: client, device: dev, console: newConsole()}, nil
}

// openBrowser connects and opens dir (the configured root when empty)
func openBrowser(ctx context.Context, dir, compressLevel string) (*session, error) {
	s, err := connect(ctx)
	if err != nil {
		return nil, err
	}

	if dir != "" {
		dir = resolveRemote(dir, globalConfig.Browser.RootPath)
	}
	s.browser = browser.New(s.client, s.console, s.console, browserOptions(globalConfig, dir, compressLevel))
	if err := s.browser.ObserveConnection(ctx, s.device); err != nil {
		return nil, err
	}
	return s, nil
}

// findEntry looks up the entry for a remote path in its parent listing
func (s *session) findEntry(ctx context.Context, remote string) (browser.Entry, error) {
	remote = resolveRemote(remote, globalConfig.Browser.RootPath)
	parent, name := splitRemote(remote)

	if err := s.browser.Open(ctx, parent); err != nil {
		return browser.Entry{}, err
	}
	for _, e := range s.browser.State().Entries {
		if e.Name == name {
			return e, nil
		}
	}
	return browser.Entry{}, fmt.Errorf("%s does not exist", remote)
}

// resolveRemote makes a device path absolute, joining relative paths onto root
func resolveRemote(remote, root string) string {
	if !strings.HasPrefix(remote, "/") {
		if root == "" {
			root = "/"
		}
		remote = path.Join(root, remote)
	}
	if remote != "/" {
		remote = strings.TrimSuffix(remote, "/")
	}
	return remote
}

// splitRemote splits a device path into its directory and base name
func splitRemote(remote string) (string, string) {
	i := strings.LastIndex(remote, "/")
	if i < 0 {
		return "/", remote
	}
	if i == 0 {
		return "/", remote[1:]
	}
	return remote[:i], remote[i+1:]
}

// confirm asks a y/N question on stdin
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}
