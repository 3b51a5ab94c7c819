package favourites

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hsq-cli/internal/config"
)

func createTestManager() (*Manager, *int) {
	saves := 0
	m := newManager(&config.UserData{}, func() error {
		saves++
		return nil
	})
	return m, &saves
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	m, _ := createTestManager()

	files := m.Get(File)
	require.Len(t, files, 6)
	assert.Equal(t, "/sdcard/Audica/", files[3].URI)

	assert.Len(t, m.Get(Command), 5)
	assert.Empty(t, m.Get(Browser))
}

func TestAddRemoveReset(t *testing.T) {
	m, saves := createTestManager()

	require.NoError(t, m.Add(File, config.Favourite{Name: "Music", URI: "/sdcard/Music/"}))
	files := m.Get(File)
	require.Len(t, files, 7)
	assert.Equal(t, "Music", files[6].Name)

	require.NoError(t, m.Remove(File, 0))
	files = m.Get(File)
	require.Len(t, files, 6)
	assert.Equal(t, "Song Beater", files[0].Name)

	assert.Error(t, m.Remove(File, 6))
	assert.Error(t, m.Remove(File, -1))

	require.NoError(t, m.Reset(File))
	assert.Equal(t, Defaults(File), m.Get(File))
	assert.Equal(t, 3, *saves)
}

func TestRemoveLastKeepsEmptyList(t *testing.T) {
	m, _ := createTestManager()

	require.NoError(t, m.Add(Browser, config.Favourite{Name: "Docs", URI: "https://example.com"}))
	require.NoError(t, m.Remove(Browser, 0))
	assert.Empty(t, m.Get(Browser))

	for range Defaults(Command) {
		require.NoError(t, m.Remove(Command, 0))
	}
	assert.Empty(t, m.Get(Command))
}

func TestAdd_RequiresNameAndURI(t *testing.T) {
	m, saves := createTestManager()

	assert.Error(t, m.Add(File, config.Favourite{Name: "x"}))
	assert.Error(t, m.Add(File, config.Favourite{URI: "/sdcard"}))
	assert.Zero(t, *saves)
}

func TestExportImport(t *testing.T) {
	src, _ := createTestManager()
	require.NoError(t, src.Add(Command, config.Favourite{Name: "Battery", URI: "adb shell dumpsys battery"}))

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf))

	dst, saves := createTestManager()
	require.NoError(t, dst.Import(&buf))

	assert.Equal(t, src.Get(Command), dst.Get(Command))
	assert.Equal(t, src.Get(File), dst.Get(File))
	assert.Equal(t, 1, *saves)
}

func TestImport_RejectsUnknownList(t *testing.T) {
	m, saves := createTestManager()

	err := m.Import(strings.NewReader(`{"bookmarks": []}`))
	assert.Error(t, err)
	assert.Zero(t, *saves)

	assert.Error(t, m.Import(strings.NewReader(`not json`)))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" File ")
	require.NoError(t, err)
	assert.Equal(t, File, k)

	_, err = ParseKind("apps")
	assert.Error(t, err)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"kill-server"}, CommandArgs("adb kill-server"))
	assert.Equal(t, []string{"shell", "dumpsys", "battery"}, CommandArgs("shell dumpsys battery"))
	assert.Empty(t, CommandArgs("  "))
}
