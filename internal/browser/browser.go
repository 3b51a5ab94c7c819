package browser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/config"
)

var (
	ErrFolderExists    = errors.New("a folder already exists with that name")
	ErrEmptyFolderName = errors.New("folder name cannot be empty")
	ErrNotConnected    = errors.New("no device connected")
)

// Bridge is the subset of the device bridge the browser drives
type Bridge interface {
	ReadDir(ctx context.Context, serial, dir string) ([]adb.FileInfo, error)
	Push(ctx context.Context, serial, localPath, remotePath string, progress adb.ProgressFunc) error
	Pull(ctx context.Context, serial, remotePath, localPath string, progress adb.ProgressFunc) error
	Shell(ctx context.Context, serial, command string) (string, error)
	MakeDirectory(ctx context.Context, serial, dir string) error
}

// StatusReporter surfaces one-line results to the user
type StatusReporter interface {
	ShowStatus(message string, isError bool)
}

// Spinner is the in-flight loading indicator
type Spinner interface {
	Show(message string)
	Update(message string)
	Hide()
}

// OpenState latches the automatic first navigation
type OpenState int

const (
	NotYetOpened OpenState = iota
	Opened
)

func (s OpenState) String() string {
	if s == Opened {
		return "opened"
	}
	return "not-yet-opened"
}

// Options configures a Browser
type Options struct {
	RootPath        string
	SaveDir         string
	UploadDelay     time.Duration
	MediaPaths      []string
	SupportedModels []string
	Sleep           SleepFunc
	// PrepareUpload may replace a local file before it is pushed, e.g. with a compressed copy
	PrepareUpload func(ctx context.Context, localPath string) (string, error)
}

// State is a snapshot of the browser for rendering
type State struct {
	CurrentPath string
	Entries     []Entry
	Breadcrumbs []Breadcrumb
	Selected    []Entry
	Device      adb.Device
	OpenState   OpenState
	SaveDir     string
}

// IsSelected reports whether e is part of the selection
func (s State) IsSelected(e Entry) bool {
	for _, sel := range s.Selected {
		if sel.FullPath == e.FullPath {
			return true
		}
	}
	return false
}

// Connected reports whether the observed device is usable
func (s State) Connected() bool {
	return s.Device.Status() == adb.StatusConnected
}

// TransferError wraps a failed device operation on a single path
type TransferError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Browser keeps the current device directory in sync with the device.
// Callers must not run two operations on one Browser concurrently; the
// mutex only protects State snapshots and is never held across a device call.
type Browser struct {
	bridge  Bridge
	status  StatusReporter
	spinner Spinner
	opts    Options

	mu          sync.RWMutex
	currentPath string
	entries     []Entry
	breadcrumbs []Breadcrumb
	selected    []Entry
	device      adb.Device
	openState   OpenState
	saveDir     string
}

// New creates a browser over bridge; status and spinner may be nil
func New(bridge Bridge, status StatusReporter, spinner Spinner, opts Options) *Browser {
	if opts.RootPath == "" {
		opts.RootPath = "/sdcard/"
	}
	if opts.MediaPaths == nil {
		opts.MediaPaths = config.DefaultMediaPaths
	}
	if opts.SupportedModels == nil {
		opts.SupportedModels = config.DefaultSupportedModels
	}
	if opts.Sleep == nil {
		opts.Sleep = ContextSleep
	}
	if status == nil {
		status = nopStatus{}
	}
	if spinner == nil {
		spinner = nopSpinner{}
	}

	return &Browser{
		bridge:  bridge,
		status:  status,
		spinner: spinner,
		opts:    opts,
		saveDir: opts.SaveDir,
	}
}

// State returns a copy of the current state
func (b *Browser) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return State{
		CurrentPath: b.currentPath,
		Entries:     append([]Entry(nil), b.entries...),
		Breadcrumbs: append([]Breadcrumb(nil), b.breadcrumbs...),
		Selected:    append([]Entry(nil), b.selected...),
		Device:      b.device,
		OpenState:   b.openState,
		SaveDir:     b.saveDir,
	}
}

// RootPath returns the directory opened on first connection
func (b *Browser) RootPath() string {
	return b.opts.RootPath
}

// SaveDir returns the local download directory
func (b *Browser) SaveDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saveDir
}

// SetSaveDir changes the local download directory
func (b *Browser) SetSaveDir(dir string) {
	b.mu.Lock()
	b.saveDir = dir
	b.mu.Unlock()
}

// ObserveConnection records the device status. The first time a connected
// device is seen the browser opens its root path; later observations never
// navigate.
func (b *Browser) ObserveConnection(ctx context.Context, dev adb.Device) error {
	b.mu.Lock()
	prev := b.device
	b.device = dev
	first := dev.Status() == adb.StatusConnected && b.openState == NotYetOpened
	if first {
		b.openState = Opened
	}
	b.mu.Unlock()

	if prev.Serial != dev.Serial || prev.Status() != dev.Status() {
		logrus.Infof("device %s (%s) is %s", dev.Serial, dev.DisplayModel(), dev.Status())
	}

	if first {
		return b.Open(ctx, b.opts.RootPath)
	}
	return nil
}

// Open navigates to p. Without a connected device the listing is left as is.
func (b *Browser) Open(ctx context.Context, p string) error {
	b.spinner.Show("Loading files...")

	b.mu.Lock()
	b.currentPath = p
	b.breadcrumbs = Breadcrumbs(p)
	b.selected = nil
	dev := b.device
	b.mu.Unlock()

	if dev.Status() != adb.StatusConnected {
		b.spinner.Hide()
		return nil
	}

	entries, err := b.list(ctx, dev.Serial, p)
	if err != nil {
		b.spinner.Hide()
		b.status.ShowStatus(err.Error(), true)
		return err
	}

	b.mu.Lock()
	b.entries = entries
	b.mu.Unlock()

	b.spinner.Hide()
	logrus.Debugf("opened %s: %d entries", p, len(entries))
	return nil
}

// Refresh re-lists the current directory
func (b *Browser) Refresh(ctx context.Context) error {
	return b.Open(ctx, b.State().CurrentPath)
}

// Up navigates to the parent of the current directory
func (b *Browser) Up(ctx context.Context) error {
	current := strings.TrimSuffix(b.State().CurrentPath, "/")
	parent := path.Dir(current)
	if parent == "." || parent == "" {
		parent = "/"
	}
	return b.Open(ctx, parent)
}

// OpenBreadcrumb navigates to the directory a crumb names
func (b *Browser) OpenBreadcrumb(ctx context.Context, c Breadcrumb) error {
	return b.Open(ctx, c.DevicePath())
}

// SelectFile opens folders and toggles files in and out of the selection
func (b *Browser) SelectFile(ctx context.Context, e Entry) error {
	if e.IsFolder() {
		b.mu.Lock()
		b.selected = nil
		current := b.currentPath
		b.mu.Unlock()
		return b.Open(ctx, path.Join(current, e.Name))
	}

	b.ToggleSelection(e)
	return nil
}

// ToggleSelection adds or removes a file and reports whether it is now selected
func (b *Browser) ToggleSelection(e Entry) bool {
	if e.IsFolder() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sel := range b.selected {
		if sel.FullPath == e.FullPath {
			b.selected = append(b.selected[:i:i], b.selected[i+1:]...)
			return false
		}
	}
	b.selected = append(b.selected, e)
	return true
}

// ClearSelection empties the selection
func (b *Browser) ClearSelection() {
	b.mu.Lock()
	b.selected = nil
	b.mu.Unlock()
}

// MakeFolder creates name under the current directory and re-lists it
func (b *Browser) MakeFolder(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		b.status.ShowStatus("Folder name cannot be empty!!", true)
		return ErrEmptyFolderName
	}

	b.mu.RLock()
	exists := false
	for _, e := range b.entries {
		if e.IsFolder() && e.Name == name {
			exists = true
			break
		}
	}
	b.mu.RUnlock()

	if exists {
		b.status.ShowStatus("A folder already exists with that name!!", true)
		return ErrFolderExists
	}

	serial, current, err := b.target()
	if err != nil {
		return err
	}

	target := path.Join(current, name)
	if err := b.bridge.MakeDirectory(ctx, serial, target); err != nil {
		err = &TransferError{Op: "create", Path: target, Err: err}
		b.status.ShowStatus(err.Error(), true)
		return err
	}

	return b.Open(ctx, current)
}

// DeleteFile removes one entry recursively and re-lists the directory
func (b *Browser) DeleteFile(ctx context.Context, e Entry) error {
	serial, current, err := b.target()
	if err != nil {
		return err
	}

	if err := b.remove(ctx, serial, e); err != nil {
		b.status.ShowStatus(err.Error(), true)
		return err
	}

	if err := b.Open(ctx, current); err != nil {
		return err
	}

	b.status.ShowStatus("Item Deleted!! "+e.FullPath, false)
	return nil
}

// DeleteFiles removes entries one by one and drops each deleted entry from the
// local listing and selection without re-listing. A delete that the device
// accepts but silently ignores leaves the local state out of sync until the
// next navigation.
func (b *Browser) DeleteFiles(ctx context.Context, entries []Entry) (int, error) {
	serial, _, err := b.target()
	if err != nil {
		return 0, err
	}

	var firstErr error
	deleted := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		if err := b.remove(ctx, serial, e); err != nil {
			logrus.Warnf("delete failed: %v", err)
			b.status.ShowStatus(err.Error(), true)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		b.forget(e)
		deleted++
	}

	if failed := len(entries) - deleted; failed > 0 {
		b.status.ShowStatus(fmt.Sprintf("%d items deleted, %d failed", deleted, failed), true)
	} else {
		b.status.ShowStatus(fmt.Sprintf("%d items deleted!!", deleted), false)
	}
	return deleted, firstErr
}

// DeleteSelected removes every selected file
func (b *Browser) DeleteSelected(ctx context.Context) (int, error) {
	return b.DeleteFiles(ctx, b.State().Selected)
}

// UploadFiles pushes local files into the current directory one at a time.
// The first failure abandons the rest of the queue; nothing is rolled back.
func (b *Browser) UploadFiles(ctx context.Context, localPaths []string) error {
	if len(localPaths) == 0 {
		return nil
	}

	serial, current, err := b.target()
	if err != nil {
		return err
	}

	jobs := make([]Job, 0, len(localPaths))
	for _, lp := range localPaths {
		lp := lp
		jobs = append(jobs, Job{
			Name: filepath.Base(lp),
			Run: func(ctx context.Context) error {
				return b.upload(ctx, serial, current, lp)
			},
		})
	}

	b.spinner.Show("Uploading files...")
	queue := &TransferQueue{Delay: b.opts.UploadDelay, Sleep: b.opts.Sleep}
	if _, err := queue.Run(ctx, jobs); err != nil {
		b.spinner.Hide()
		b.status.ShowStatus(err.Error(), true)
		return err
	}

	b.spinner.Update("Files Uploaded!!")
	err = b.Open(ctx, current)
	b.spinner.Hide()
	if err != nil {
		return err
	}

	b.status.ShowStatus("Files Uploaded!!", false)
	return nil
}

func (b *Browser) upload(ctx context.Context, serial, current, localPath string) error {
	src := localPath
	if b.opts.PrepareUpload != nil {
		prepared, err := b.opts.PrepareUpload(ctx, localPath)
		if err != nil {
			return &TransferError{Op: "prepare", Path: localPath, Err: err}
		}
		if prepared != localPath {
			defer removePrepared(prepared)
		}
		src = prepared
	}

	name := filepath.Base(src)
	remote := path.Join(current, name)
	logrus.Infof("pushing %s to %s", src, remote)

	err := b.bridge.Push(ctx, serial, src, remote, func(p adb.Progress) {
		b.spinner.Update(fmt.Sprintf("File uploading: %s %sMB", name, formatMB(p.BytesTransferred)))
	})
	if err != nil {
		return &TransferError{Op: "upload", Path: localPath, Err: err}
	}
	return nil
}

// SaveFiles pulls entries into the save directory one at a time. A failed
// pull is reported and skipped; the returned count only includes successes.
func (b *Browser) SaveFiles(ctx context.Context, entries []Entry) (int, error) {
	return b.save(ctx, entries, false)
}

// SaveSelected pulls the selection and clears it afterwards
func (b *Browser) SaveSelected(ctx context.Context) (int, error) {
	return b.save(ctx, b.State().Selected, true)
}

func (b *Browser) save(ctx context.Context, entries []Entry, fromSelection bool) (int, error) {
	serial, _, err := b.target()
	if err != nil {
		return 0, err
	}

	dir := b.SaveDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		err = fmt.Errorf("failed to create save directory %s: %w", dir, err)
		b.status.ShowStatus(err.Error(), true)
		return 0, err
	}

	jobs := make([]Job, 0, len(entries))
	for _, e := range entries {
		e := e
		jobs = append(jobs, Job{
			Name: e.Name,
			Run: func(ctx context.Context) error {
				return b.pull(ctx, serial, dir, e)
			},
		})
	}

	b.spinner.Show("Downloading files...")
	queue := &TransferQueue{
		ContinueOnError: true,
		OnError: func(job Job, err error) {
			logrus.Warnf("download failed: %v", err)
			b.status.ShowStatus(err.Error(), true)
		},
	}
	saved, err := queue.Run(ctx, jobs)
	b.spinner.Hide()
	if err != nil {
		return saved, err
	}

	b.status.ShowStatus(fmt.Sprintf("%d files saved to %s!!", saved, dir), false)

	if fromSelection {
		b.ClearSelection()
	}
	return saved, nil
}

func (b *Browser) pull(ctx context.Context, serial, dir string, e Entry) error {
	local := filepath.Join(dir, e.Name)
	logrus.Infof("pulling %s to %s", e.FullPath, local)

	err := b.bridge.Pull(ctx, serial, e.FullPath, local, func(p adb.Progress) {
		mb := math.Round(float64(p.BytesTransferred) / 1024 / 1024)
		b.spinner.Update(fmt.Sprintf("File downloading: %s %dMB", e.Name, int64(mb)))
	})
	if err != nil {
		return &TransferError{Op: "download", Path: e.FullPath, Err: err}
	}
	return nil
}

// ModelSupported reports whether the headset model writes capture folders
func (b *Browser) ModelSupported(model string) bool {
	want := normalizeModel(model)
	if want == "" {
		return false
	}
	for _, m := range b.opts.SupportedModels {
		if normalizeModel(m) == want {
			return true
		}
	}
	return false
}

// DownloadMedia saves every file in the capture folders. Unsupported models
// are never listed.
func (b *Browser) DownloadMedia(ctx context.Context) (int, error) {
	dev := b.State().Device
	if dev.Status() != adb.StatusConnected {
		b.status.ShowStatus(ErrNotConnected.Error(), true)
		return 0, ErrNotConnected
	}

	model := dev.DisplayModel()
	if !b.ModelSupported(model) {
		if model == "" {
			model = "this device"
		}
		b.status.ShowStatus(fmt.Sprintf("Media download is not supported on %s", model), false)
		return 0, nil
	}

	var media []Entry
	for _, dir := range b.opts.MediaPaths {
		entries, err := b.list(ctx, dev.Serial, dir)
		if err != nil {
			logrus.Warnf("skipping media folder %s: %v", dir, err)
			continue
		}
		for _, e := range entries {
			if !e.IsFolder() {
				media = append(media, e)
			}
		}
	}

	return b.SaveFiles(ctx, media)
}

// list reads and classifies dir
func (b *Browser) list(ctx context.Context, serial, dir string) ([]Entry, error) {
	files, err := b.bridge.ReadDir(ctx, serial, dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, NewEntry(dir, f))
	}
	SortEntries(entries)
	return entries, nil
}

func (b *Browser) remove(ctx context.Context, serial string, e Entry) error {
	if _, err := b.bridge.Shell(ctx, serial, "rm "+adb.Quote(e.FullPath)+" -r"); err != nil {
		return &TransferError{Op: "delete", Path: e.FullPath, Err: err}
	}
	logrus.Infof("deleted %s", e.FullPath)
	return nil
}

// forget drops e from the local listing and selection
func (b *Browser) forget(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = without(b.entries, e)
	b.selected = without(b.selected, e)
}

// target returns the serial and directory for a device operation
func (b *Browser) target() (string, string, error) {
	b.mu.RLock()
	dev, current := b.device, b.currentPath
	b.mu.RUnlock()

	if dev.Status() != adb.StatusConnected {
		b.status.ShowStatus(ErrNotConnected.Error(), true)
		return "", "", ErrNotConnected
	}
	return dev.Serial, current, nil
}

func without(entries []Entry, e Entry) []Entry {
	out := entries[:0:0]
	for _, x := range entries {
		if x.FullPath != e.FullPath {
			out = append(out, x)
		}
	}
	return out
}

func normalizeModel(m string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(m, "_", " ")))
}

// formatMB renders bytes as megabytes rounded to two decimals
func formatMB(bytes int64) string {
	return strconv.FormatFloat(toMiB(bytes), 'f', -1, 64)
}

type nopStatus struct{}

func (nopStatus) ShowStatus(string, bool) {}

type nopSpinner struct{}

func (nopSpinner) Show(string)   {}
func (nopSpinner) Update(string) {}
func (nopSpinner) Hide()         {}

// removePrepared drops a temporary upload copy once it has been pushed
func removePrepared(p string) {
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove %s: %v", p, err)
	}
}
