package installer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
	"github.com/HaiFongPan/hsq-cli/internal/fetch"
)

// Bridge installs packages on a device
type Bridge interface {
	Install(ctx context.Context, serial, apkPath string) error
}

// Downloader fetches remote packages
type Downloader interface {
	Download(ctx context.Context, rawURL, dest string, progress fetch.ProgressFunc) (string, error)
}

// Installer installs local APKs or APK URLs one at a time
type Installer struct {
	bridge     Bridge
	downloader Downloader
	status     browser.StatusReporter
	spinner    browser.Spinner
}

// New creates an installer; status and spinner are required
func New(bridge Bridge, downloader Downloader, status browser.StatusReporter, spinner browser.Spinner) *Installer {
	return &Installer{bridge: bridge, downloader: downloader, status: status, spinner: spinner}
}

// IsURL reports whether source should be downloaded first
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// InstallAll installs every source in order. A failed install is reported
// and the rest continue; the number of installed packages is returned.
func (i *Installer) InstallAll(ctx context.Context, serial string, sources []string) (int, error) {
	tmpDir, err := os.MkdirTemp("", "hsq-install-")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	jobs := make([]browser.Job, 0, len(sources))
	for _, src := range sources {
		src := src
		jobs = append(jobs, browser.Job{
			Name: src,
			Run: func(ctx context.Context) error {
				return i.install(ctx, serial, src, tmpDir)
			},
		})
	}

	i.spinner.Show("Installing apps...")
	queue := &browser.TransferQueue{
		ContinueOnError: true,
		OnError: func(job browser.Job, err error) {
			i.status.ShowStatus(err.Error(), true)
		},
	}
	installed, err := queue.Run(ctx, jobs)
	i.spinner.Hide()
	if err != nil {
		return installed, err
	}

	if installed > 0 {
		i.status.ShowStatus(fmt.Sprintf("%d apps installed!!", installed), false)
	}
	return installed, nil
}

func (i *Installer) install(ctx context.Context, serial, source, tmpDir string) error {
	apk := source
	name := filepath.Base(source)

	if IsURL(source) {
		u, _ := url.Parse(source)
		name = path.Base(u.Path)
		if !strings.HasSuffix(strings.ToLower(name), ".apk") {
			name += ".apk"
		}

		i.spinner.Update("Downloading " + name)
		downloaded, err := i.downloader.Download(ctx, source, filepath.Join(tmpDir, name), func(pct float64) {
			i.spinner.Update(fmt.Sprintf("Downloading %s %.2f%%", name, pct))
		})
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", source, err)
		}
		apk = downloaded
	} else if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("cannot install %s: %w", source, err)
	}

	i.spinner.Update("Installing " + name)
	logrus.Infof("installing %s on %s", apk, serial)
	if err := i.bridge.Install(ctx, serial, apk); err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}
	return nil
}
