package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "adb", cfg.ADB.Path)
	assert.Equal(t, 2, cfg.ADB.PollInterval)
	assert.Equal(t, 500, cfg.ADB.ProgressInterval)
	assert.Equal(t, "/sdcard/", cfg.Browser.RootPath)
	assert.Equal(t, 500, cfg.Transfer.UploadDelay)
	assert.Equal(t, filepath.Join(home, "Downloads", "hsq"), cfg.Transfer.SavePath)
	assert.Equal(t, DefaultMediaPaths, cfg.Media.Paths)
	assert.Equal(t, DefaultSupportedModels, cfg.Media.SupportedModels)
	assert.Equal(t, "debug", cfg.Logcat.Priority)
	assert.Equal(t, 200, cfg.Logcat.BufferSize)
	assert.Equal(t, 0, cfg.General.MaxRetries)
	assert.True(t, cfg.UI.InteractiveMode)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[adb]
serial = "1WMHH815L10123"

[transfer]
upload_delay = 250
save_path = "/tmp/hsq"

[media]
supported_models = ["Quest 3"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("HSQ_LOG_LEVEL", "debug")
	t.Setenv("HSQ_SERIAL", "192.168.1.20:5555")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.20:5555", cfg.ADB.Serial)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 250, cfg.Transfer.UploadDelay)
	assert.Equal(t, "/tmp/hsq", cfg.Transfer.SavePath)
	assert.Equal(t, []string{"Quest 3"}, cfg.Media.SupportedModels)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func validConfig() *Config {
	return &Config{
		ADB:      ADBConfig{Path: "adb", PollInterval: 2, ProgressInterval: 500},
		Log:      LogConfig{Level: "info", Format: "text"},
		General:  GeneralConfig{DefaultTimeout: 30},
		Browser:  BrowserConfig{RootPath: "/sdcard/"},
		Transfer: TransferConfig{SavePath: "/tmp/hsq", UploadDelay: 500},
		Logcat:   LogcatConfig{Priority: "debug", BufferSize: 200},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"relative root", func(c *Config) { c.Browser.RootPath = "sdcard" }, "root_path"},
		{"negative delay", func(c *Config) { c.Transfer.UploadDelay = -1 }, "upload_delay"},
		{"bad compress", func(c *Config) { c.Transfer.DefaultCompress = "ultra" }, "default_compress"},
		{"bad priority", func(c *Config) { c.Logcat.Priority = "loud" }, "invalid priority"},
		{"empty buffer", func(c *Config) { c.Logcat.BufferSize = 0 }, "buffer_size"},
		{"missing adb", func(c *Config) { c.ADB.Path = " " }, "path is required"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUserData_SaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ud, err := LoadUserData()
	require.NoError(t, err)
	assert.Empty(t, ud.SavePath)
	assert.Equal(t, "/fallback", ud.ResolveSavePath("/fallback"))

	require.NoError(t, ud.SetSavePath("/tmp/captures"))
	require.NoError(t, ud.SetLastPath("/sdcard/Music"))

	loaded, err := LoadUserData()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/captures", loaded.ResolveSavePath("/fallback"))
	assert.Equal(t, "/sdcard/Music", loaded.LastPath)
	assert.NotNil(t, loaded.Favourites)
}

func TestUserData_CorruptFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".hsq-cli")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.data"), []byte("{not json"), 0644))

	ud, err := LoadUserData()
	require.NoError(t, err)
	assert.Empty(t, ud.LastPath)
	assert.NotNil(t, ud.Favourites)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
