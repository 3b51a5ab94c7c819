package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// MockBridge is a mock implementation of Bridge
type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) ReadDir(ctx context.Context, serial, dir string) ([]adb.FileInfo, error) {
	args := m.Called(ctx, serial, dir)
	files, _ := args.Get(0).([]adb.FileInfo)
	return files, args.Error(1)
}

func (m *MockBridge) Push(ctx context.Context, serial, localPath, remotePath string, progress adb.ProgressFunc) error {
	args := m.Called(ctx, serial, localPath, remotePath, progress)
	return args.Error(0)
}

func (m *MockBridge) Pull(ctx context.Context, serial, remotePath, localPath string, progress adb.ProgressFunc) error {
	args := m.Called(ctx, serial, remotePath, localPath, progress)
	return args.Error(0)
}

func (m *MockBridge) Shell(ctx context.Context, serial, command string) (string, error) {
	args := m.Called(ctx, serial, command)
	return args.String(0), args.Error(1)
}

func (m *MockBridge) MakeDirectory(ctx context.Context, serial, dir string) error {
	args := m.Called(ctx, serial, dir)
	return args.Error(0)
}

type statusLine struct {
	message string
	isError bool
}

// recorder implements StatusReporter and Spinner
type recorder struct {
	mu       sync.Mutex
	statuses []statusLine
	updates  []string
	visible  bool
}

func (r *recorder) ShowStatus(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, statusLine{message, isError})
}

func (r *recorder) Show(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = true
	r.updates = append(r.updates, message)
}

func (r *recorder) Update(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, message)
}

func (r *recorder) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
}

func (r *recorder) last() statusLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return statusLine{}
	}
	return r.statuses[len(r.statuses)-1]
}

const serial = "1WMHH815L10123"

var quest2 = adb.Device{Serial: serial, State: "device", Model: "Quest_2"}

func createTestBrowser(t *testing.T) (*Browser, *MockBridge, *recorder, *[]time.Duration) {
	t.Helper()

	bridge := &MockBridge{}
	rec := &recorder{}
	sleeps := &[]time.Duration{}

	b := New(bridge, rec, rec, Options{
		RootPath:    "/sdcard/",
		SaveDir:     filepath.Join(t.TempDir(), "saved"),
		UploadDelay: 500 * time.Millisecond,
		Sleep:       recordingSleep(sleeps),
	})
	return b, bridge, rec, sleeps
}

// connectAt puts the browser on a connected device with a preloaded listing
func connectAt(b *Browser, dir string, entries ...Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.device = quest2
	b.openState = Opened
	b.currentPath = dir
	b.breadcrumbs = Breadcrumbs(dir)
	b.entries = entries
}

func file(dir, name string) Entry {
	return NewEntry(dir, adb.FileInfo{Name: name, Size: 2048, IsFile: true})
}

func folder(dir, name string) Entry {
	return NewEntry(dir, adb.FileInfo{Name: name})
}

func TestOpen_ListsAndSorts(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")

	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Music").Return([]adb.FileInfo{
		{Name: "zed.mp3", IsFile: true, Size: 1048576},
		{Name: "Beat Saber", IsFile: false},
		{Name: "Alpha.ogg", IsFile: true},
	}, nil).Once()

	b.ToggleSelection(file("/sdcard", "x.txt"))
	require.NoError(t, b.Open(context.Background(), "/sdcard/Music"))

	state := b.State()
	assert.Equal(t, "/sdcard/Music", state.CurrentPath)
	assert.Empty(t, state.Selected)
	require.Len(t, state.Breadcrumbs, 2)
	assert.Equal(t, "Music", state.Breadcrumbs[1].Name)

	require.Len(t, state.Entries, 3)
	assert.Equal(t, "Beat Saber", state.Entries[0].Name)
	assert.Equal(t, "Alpha.ogg", state.Entries[1].Name)
	assert.Equal(t, "zed.mp3", state.Entries[2].Name)
	assert.Equal(t, "/sdcard/Music/zed.mp3", state.Entries[2].FullPath)
	assert.Equal(t, 1.0, state.Entries[2].SizeMiB)

	assert.False(t, rec.visible)
	bridge.AssertExpectations(t)
}

func TestOpen_WithoutDeviceKeepsEntries(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	existing := file("/sdcard", "keep.txt")
	b.entries = []Entry{existing}

	require.NoError(t, b.Open(context.Background(), "/sdcard/Music"))

	state := b.State()
	assert.Equal(t, "/sdcard/Music", state.CurrentPath)
	assert.Len(t, state.Breadcrumbs, 2)
	assert.Equal(t, []Entry{existing}, state.Entries)
	assert.False(t, rec.visible)
	bridge.AssertNotCalled(t, "ReadDir", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpen_ListingFailure(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")

	boom := errors.New("permission denied")
	bridge.On("ReadDir", mock.Anything, serial, "/data").Return(nil, boom).Once()

	err := b.Open(context.Background(), "/data")
	assert.ErrorIs(t, err, boom)
	assert.True(t, rec.last().isError)
	assert.False(t, rec.visible)
}

func TestObserveConnection_OpensRootOnce(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	ctx := context.Background()

	require.NoError(t, b.ObserveConnection(ctx, adb.Device{Serial: serial, State: "unauthorized"}))
	assert.Equal(t, NotYetOpened, b.State().OpenState)

	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/").Return([]adb.FileInfo{{Name: "Android"}}, nil).Once()

	require.NoError(t, b.ObserveConnection(ctx, quest2))
	require.NoError(t, b.ObserveConnection(ctx, quest2))
	require.NoError(t, b.ObserveConnection(ctx, adb.Device{Serial: serial, State: "offline"}))
	require.NoError(t, b.ObserveConnection(ctx, quest2))

	state := b.State()
	assert.Equal(t, Opened, state.OpenState)
	assert.Equal(t, "/sdcard/", state.CurrentPath)
	assert.Len(t, state.Entries, 1)
	bridge.AssertNumberOfCalls(t, "ReadDir", 1)
}

func TestSelectFile_ToggleTwiceRestoresSelection(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	a := file("/sdcard", "a.txt")
	c := file("/sdcard", "c.txt")
	connectAt(b, "/sdcard", a, c)
	ctx := context.Background()

	require.NoError(t, b.SelectFile(ctx, a))
	before := b.State().Selected

	require.NoError(t, b.SelectFile(ctx, c))
	assert.True(t, b.State().IsSelected(c))
	require.NoError(t, b.SelectFile(ctx, c))

	assert.Equal(t, before, b.State().Selected)
	bridge.AssertNotCalled(t, "ReadDir", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectFile_RemovesOnlyThatEntry(t *testing.T) {
	b, _, _, _ := createTestBrowser(t)
	a, c, d := file("/sdcard", "a.txt"), file("/sdcard", "c.txt"), file("/sdcard", "d.txt")
	connectAt(b, "/sdcard", a, c, d)
	ctx := context.Background()

	for _, e := range []Entry{a, c, d} {
		require.NoError(t, b.SelectFile(ctx, e))
	}
	require.NoError(t, b.SelectFile(ctx, a))

	assert.Equal(t, []Entry{c, d}, b.State().Selected)
}

func TestSelectFile_FolderNavigates(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	music := folder("/sdcard", "Music")
	a := file("/sdcard", "a.txt")
	connectAt(b, "/sdcard", music, a)
	b.ToggleSelection(a)

	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Music").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.SelectFile(context.Background(), music))

	state := b.State()
	assert.Equal(t, "/sdcard/Music", state.CurrentPath)
	assert.Empty(t, state.Selected)
	assert.False(t, state.IsSelected(music))
	bridge.AssertExpectations(t)
}

func TestMakeFolder_ExistingNameMakesNoDeviceCalls(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard", folder("/sdcard", "Existing"))

	err := b.MakeFolder(context.Background(), "Existing")

	assert.ErrorIs(t, err, ErrFolderExists)
	assert.Equal(t, statusLine{"A folder already exists with that name!!", true}, rec.last())
	assert.Empty(t, bridge.Calls)
}

func TestMakeFolder_FileWithSameNameIsNotAConflict(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	connectAt(b, "/sdcard", file("/sdcard", "Existing"))

	bridge.On("MakeDirectory", mock.Anything, serial, "/sdcard/Existing").Return(nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.MakeFolder(context.Background(), "Existing"))
	bridge.AssertExpectations(t)
}

func TestMakeFolder_EmptyName(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")

	assert.ErrorIs(t, b.MakeFolder(context.Background(), "   "), ErrEmptyFolderName)
	assert.Empty(t, bridge.Calls)
}

func TestMakeFolder_CreatesAndRelists(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	connectAt(b, "/sdcard", folder("/sdcard", "Music"))

	bridge.On("MakeDirectory", mock.Anything, serial, "/sdcard/Songs").Return(nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard").Return([]adb.FileInfo{
		{Name: "Music"}, {Name: "Songs"},
	}, nil).Once()

	require.NoError(t, b.MakeFolder(context.Background(), "Songs"))
	assert.Len(t, b.State().Entries, 2)
	bridge.AssertExpectations(t)
}

func TestUploadFiles_SequentialWithDelayAndOneRelist(t *testing.T) {
	b, bridge, rec, sleeps := createTestBrowser(t)
	connectAt(b, "/sdcard/Music")

	local := []string{"/home/me/a.png", "/home/me/b.ogg", "/home/me/c.mp4"}

	var active, overlapped int32
	var order []string
	bridge.On("Push", mock.Anything, serial, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if atomic.AddInt32(&active, 1) > 1 {
				atomic.StoreInt32(&overlapped, 1)
			}
			order = append(order, args.String(3))
			progress := args.Get(4).(adb.ProgressFunc)
			progress(adb.Progress{BytesTransferred: 1572864})
			atomic.AddInt32(&active, -1)
		}).Return(nil).Times(3)
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Music").Return([]adb.FileInfo{
		{Name: "a.png", IsFile: true}, {Name: "b.ogg", IsFile: true}, {Name: "c.mp4", IsFile: true},
	}, nil).Once()

	require.NoError(t, b.UploadFiles(context.Background(), local))

	assert.Equal(t, []string{"/sdcard/Music/a.png", "/sdcard/Music/b.ogg", "/sdcard/Music/c.mp4"}, order)
	assert.Zero(t, atomic.LoadInt32(&overlapped))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, *sleeps)
	assert.Contains(t, rec.updates, "File uploading: a.png 1.5MB")
	assert.Equal(t, statusLine{"Files Uploaded!!", false}, rec.last())
	assert.False(t, rec.visible)
	assert.Len(t, b.State().Entries, 3)
	bridge.AssertNumberOfCalls(t, "ReadDir", 1)
	bridge.AssertExpectations(t)
}

func TestUploadFiles_RealDelaySeparatesPushes(t *testing.T) {
	bridge := &MockBridge{}
	b := New(bridge, nil, nil, Options{UploadDelay: 30 * time.Millisecond})
	connectAt(b, "/sdcard")

	var starts []time.Time
	bridge.On("Push", mock.Anything, serial, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { starts = append(starts, time.Now()) }).
		Return(nil).Times(3)
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.UploadFiles(context.Background(), []string{"a", "b", "c"}))

	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), 30*time.Millisecond)
	}
}

func TestUploadFiles_FailureAbandonsQueue(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")

	boom := errors.New("device full")
	bridge.On("Push", mock.Anything, serial, "/tmp/a.txt", "/sdcard/a.txt", mock.Anything).Return(nil).Once()
	bridge.On("Push", mock.Anything, serial, "/tmp/b.txt", "/sdcard/b.txt", mock.Anything).Return(boom).Once()

	err := b.UploadFiles(context.Background(), []string{"/tmp/a.txt", "/tmp/b.txt", "/tmp/c.txt"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal(t, "upload", transferErr.Op)

	assert.True(t, rec.last().isError)
	assert.False(t, rec.visible)
	bridge.AssertNumberOfCalls(t, "Push", 2)
	bridge.AssertNotCalled(t, "ReadDir", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadFiles_PrepareReplacesSource(t *testing.T) {
	bridge := &MockBridge{}
	b := New(bridge, nil, nil, Options{
		Sleep: recordingSleep(&[]time.Duration{}),
		PrepareUpload: func(ctx context.Context, localPath string) (string, error) {
			return "/tmp/compressed/photo.jpg", nil
		},
	})
	connectAt(b, "/sdcard/Pictures")

	bridge.On("Push", mock.Anything, serial, "/tmp/compressed/photo.jpg", "/sdcard/Pictures/photo.jpg", mock.Anything).Return(nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Pictures").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.UploadFiles(context.Background(), []string{"/home/me/photo.png"}))
	bridge.AssertExpectations(t)
}

func TestUploadFiles_RemovesPreparedCopy(t *testing.T) {
	copyPath := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(copyPath, []byte("jpeg"), 0644))

	bridge := &MockBridge{}
	b := New(bridge, nil, nil, Options{
		Sleep: recordingSleep(&[]time.Duration{}),
		PrepareUpload: func(ctx context.Context, localPath string) (string, error) {
			return copyPath, nil
		},
	})
	connectAt(b, "/sdcard/Pictures")

	bridge.On("Push", mock.Anything, serial, copyPath, "/sdcard/Pictures/photo.jpg", mock.Anything).Return(nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Pictures").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.UploadFiles(context.Background(), []string{"/home/me/photo.png"}))
	assert.NoFileExists(t, copyPath)
	bridge.AssertExpectations(t)
}

func TestDeleteFile_Relists(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	target := file("/sdcard", "a.txt")
	connectAt(b, "/sdcard", target)

	bridge.On("Shell", mock.Anything, serial, `rm "/sdcard/a.txt" -r`).Return("", nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard").Return([]adb.FileInfo{}, nil).Once()

	require.NoError(t, b.DeleteFile(context.Background(), target))

	assert.Empty(t, b.State().Entries)
	assert.Equal(t, statusLine{"Item Deleted!! /sdcard/a.txt", false}, rec.last())
	bridge.AssertExpectations(t)
}

func TestDeleteFiles_BatchSkipsRelisting(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	a, c, keep := file("/sdcard", "a.txt"), file("/sdcard", "c.txt"), file("/sdcard", "keep.txt")
	music := folder("/sdcard", "Music")
	connectAt(b, "/sdcard", music, a, c, keep)
	b.ToggleSelection(a)
	b.ToggleSelection(c)

	bridge.On("Shell", mock.Anything, serial, mock.Anything).Return("", nil)

	deleted, err := b.DeleteSelected(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, deleted)
	state := b.State()
	assert.Equal(t, []Entry{music, keep}, state.Entries)
	assert.Empty(t, state.Selected)
	assert.Equal(t, statusLine{"2 items deleted!!", false}, rec.last())
	bridge.AssertNumberOfCalls(t, "Shell", 2)
	bridge.AssertNotCalled(t, "ReadDir", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteFiles_FailureKeepsEntry(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	a, c := file("/sdcard", "a.txt"), file("/sdcard", "c.txt")
	connectAt(b, "/sdcard", a, c)

	boom := errors.New("read-only file system")
	bridge.On("Shell", mock.Anything, serial, `rm "/sdcard/a.txt" -r`).Return("", boom).Once()
	bridge.On("Shell", mock.Anything, serial, `rm "/sdcard/c.txt" -r`).Return("", nil).Once()

	deleted, err := b.DeleteFiles(context.Background(), []Entry{a, c})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []Entry{a}, b.State().Entries)
	assert.Equal(t, statusLine{"1 items deleted, 1 failed", true}, rec.last())
}

func TestSaveSelected_CountsSuccessesAndClearsSelection(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	a, c := file("/sdcard", "a.txt"), file("/sdcard", "c.txt")
	connectAt(b, "/sdcard", a, c)
	b.ToggleSelection(a)
	b.ToggleSelection(c)
	dir := b.SaveDir()

	bridge.On("Pull", mock.Anything, serial, "/sdcard/a.txt", filepath.Join(dir, "a.txt"), mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(4).(adb.ProgressFunc)(adb.Progress{BytesTransferred: 3 * 1024 * 1024})
		}).Return(nil).Once()
	bridge.On("Pull", mock.Anything, serial, "/sdcard/c.txt", filepath.Join(dir, "c.txt"), mock.Anything).
		Return(errors.New("remote object does not exist")).Once()

	saved, err := b.SaveSelected(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, saved)
	assert.DirExists(t, dir)
	assert.Contains(t, rec.updates, "File downloading: a.txt 3MB")
	assert.Equal(t, statusLine{"1 files saved to " + dir + "!!", false}, rec.last())
	assert.True(t, rec.statuses[0].isError)
	assert.Empty(t, b.State().Selected)
	assert.Len(t, b.State().Entries, 2)
	bridge.AssertExpectations(t)
}

func TestSaveFiles_KeepsSelection(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	a := file("/sdcard", "a.txt")
	connectAt(b, "/sdcard", a)
	b.ToggleSelection(a)

	bridge.On("Pull", mock.Anything, serial, "/sdcard/a.txt", mock.Anything, mock.Anything).Return(nil).Once()

	saved, err := b.SaveFiles(context.Background(), []Entry{a})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Len(t, b.State().Selected, 1)
}

func TestSaveFiles_SaveDirNotCreatable(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	b.SetSaveDir(filepath.Join(blocker, "sub"))

	_, err := b.SaveFiles(context.Background(), []Entry{file("/sdcard", "a.txt")})
	require.Error(t, err)
	assert.True(t, rec.last().isError)
	assert.Empty(t, bridge.Calls)
}

func TestDownloadMedia_UnsupportedModel(t *testing.T) {
	b, bridge, rec, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")
	b.device = adb.Device{Serial: serial, State: "device", Model: "Pixel_7"}

	saved, err := b.DownloadMedia(context.Background())

	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.False(t, rec.last().isError)
	assert.Empty(t, bridge.Calls)
}

func TestDownloadMedia_CollectsFilesFromCaptureFolders(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	connectAt(b, "/sdcard")
	dir := b.SaveDir()

	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Oculus/Screenshots").Return([]adb.FileInfo{
		{Name: "shot.jpg", IsFile: true},
		{Name: "thumbs"},
	}, nil).Once()
	bridge.On("ReadDir", mock.Anything, serial, "/sdcard/Oculus/VideoShots").
		Return(nil, errors.New("No such file or directory")).Once()
	bridge.On("Pull", mock.Anything, serial, "/sdcard/Oculus/Screenshots/shot.jpg", filepath.Join(dir, "shot.jpg"), mock.Anything).
		Return(nil).Once()

	saved, err := b.DownloadMedia(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Equal(t, "/sdcard", b.State().CurrentPath)
	bridge.AssertExpectations(t)
}

func TestModelSupported(t *testing.T) {
	b, _, _, _ := createTestBrowser(t)

	assert.True(t, b.ModelSupported("Quest 2"))
	assert.True(t, b.ModelSupported("quest_3s"))
	assert.True(t, b.ModelSupported("Quest Pro"))
	assert.False(t, b.ModelSupported("Quest 4"))
	assert.False(t, b.ModelSupported(""))
}

func TestOperationsRequireDevice(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	ctx := context.Background()

	assert.ErrorIs(t, b.MakeFolder(ctx, "new"), ErrNotConnected)
	assert.ErrorIs(t, b.UploadFiles(ctx, []string{"a"}), ErrNotConnected)
	assert.ErrorIs(t, b.DeleteFile(ctx, file("/", "a")), ErrNotConnected)
	_, err := b.DownloadMedia(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, bridge.Calls)
}

func TestUp(t *testing.T) {
	b, bridge, _, _ := createTestBrowser(t)
	connectAt(b, "/sdcard/Music/")

	bridge.On("ReadDir", mock.Anything, serial, "/sdcard").Return([]adb.FileInfo{}, nil).Once()
	require.NoError(t, b.Up(context.Background()))
	assert.Equal(t, "/sdcard", b.State().CurrentPath)

	bridge.On("ReadDir", mock.Anything, serial, "/").Return([]adb.FileInfo{}, nil).Once()
	require.NoError(t, b.Up(context.Background()))
	assert.Equal(t, "/", b.State().CurrentPath)
}
