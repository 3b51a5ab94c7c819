package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	ADB      ADBConfig      `mapstructure:"adb"`
	Log      LogConfig      `mapstructure:"log"`
	General  GeneralConfig  `mapstructure:"general"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Media    MediaConfig    `mapstructure:"media"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Logcat   LogcatConfig   `mapstructure:"logcat"`
	UI       UIConfig       `mapstructure:"ui"`
}

// ADBConfig holds the bridge executable and device selection
type ADBConfig struct {
	Path             string `mapstructure:"path"`
	Serial           string `mapstructure:"serial"`
	PollInterval     int    `mapstructure:"poll_interval"`
	ProgressInterval int    `mapstructure:"progress_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeneralConfig holds general application configuration
type GeneralConfig struct {
	DefaultTimeout int    `mapstructure:"default_timeout"`
	MaxRetries     int    `mapstructure:"max_retries"`
	ConfigPath     string `mapstructure:"config_path"`
}

// BrowserConfig holds file browser configuration
type BrowserConfig struct {
	RootPath string `mapstructure:"root_path"`
}

// TransferConfig holds push/pull configuration
type TransferConfig struct {
	SavePath        string `mapstructure:"save_path"`
	UploadDelay     int    `mapstructure:"upload_delay"`
	DefaultCompress string `mapstructure:"default_compress"`
}

// MediaConfig holds the capture folders and the models that have them
type MediaConfig struct {
	Paths           []string `mapstructure:"paths"`
	SupportedModels []string `mapstructure:"supported_models"`
}

// MirrorConfig holds scrcpy options
type MirrorConfig struct {
	Binary      string `mapstructure:"binary"`
	AlwaysOnTop bool   `mapstructure:"always_on_top"`
	BitRate     string `mapstructure:"bit_rate"`
	Crop        string `mapstructure:"crop"`
	NoControl   bool   `mapstructure:"no_control"`
	Fullscreen  bool   `mapstructure:"fullscreen"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxFPS      int    `mapstructure:"max_fps"`
}

// LogcatConfig holds logcat viewer configuration
type LogcatConfig struct {
	Priority   string `mapstructure:"priority"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// UIConfig holds user interface configuration
type UIConfig struct {
	InteractiveMode bool `mapstructure:"interactive_mode"`
}

// DefaultMediaPaths are the capture folders on the headset
var DefaultMediaPaths = []string{
	"/sdcard/Oculus/Screenshots",
	"/sdcard/Oculus/VideoShots",
}

// DefaultSupportedModels are the headsets known to write capture folders
var DefaultSupportedModels = []string{
	"Quest",
	"Quest 2",
	"Quest 3",
	"Quest 3S",
	"Quest Pro",
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HSQ")
	v.AutomaticEnv()

	// Environment variable mappings
	v.BindEnv("adb.path", "HSQ_ADB_PATH")
	v.BindEnv("adb.serial", "HSQ_SERIAL")
	v.BindEnv("adb.poll_interval", "HSQ_ADB_POLL_INTERVAL")
	v.BindEnv("adb.progress_interval", "HSQ_ADB_PROGRESS_INTERVAL")
	v.BindEnv("log.level", "HSQ_LOG_LEVEL")
	v.BindEnv("log.format", "HSQ_LOG_FORMAT")
	v.BindEnv("general.default_timeout", "HSQ_DEFAULT_TIMEOUT")
	v.BindEnv("general.max_retries", "HSQ_MAX_RETRIES")
	v.BindEnv("browser.root_path", "HSQ_ROOT_PATH")
	v.BindEnv("transfer.save_path", "HSQ_SAVE_PATH")
	v.BindEnv("transfer.upload_delay", "HSQ_UPLOAD_DELAY")
	v.BindEnv("transfer.default_compress", "HSQ_DEFAULT_COMPRESS")
	v.BindEnv("mirror.binary", "HSQ_SCRCPY")
	v.BindEnv("logcat.priority", "HSQ_LOGCAT_PRIORITY")
	v.BindEnv("ui.interactive_mode", "HSQ_UI_INTERACTIVE_MODE")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hsq-cli")
		v.AddConfigPath("/etc/hsq-cli/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Transfer.SavePath = ExpandHome(config.Transfer.SavePath)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// ADB defaults
	v.SetDefault("adb.path", "adb")
	v.SetDefault("adb.serial", "")
	v.SetDefault("adb.poll_interval", 2)
	v.SetDefault("adb.progress_interval", 500)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// General defaults
	v.SetDefault("general.default_timeout", 30)
	v.SetDefault("general.max_retries", 0)

	v.SetDefault("browser.root_path", "/sdcard/")

	// Transfer defaults
	v.SetDefault("transfer.save_path", "~/Downloads/hsq")
	v.SetDefault("transfer.upload_delay", 500)
	v.SetDefault("transfer.default_compress", "")

	v.SetDefault("media.paths", DefaultMediaPaths)
	v.SetDefault("media.supported_models", DefaultSupportedModels)

	// Mirror defaults
	v.SetDefault("mirror.binary", "scrcpy")
	v.SetDefault("mirror.always_on_top", false)
	v.SetDefault("mirror.bit_rate", "8M")
	v.SetDefault("mirror.crop", "1280:720:1500:350")
	v.SetDefault("mirror.no_control", true)
	v.SetDefault("mirror.fullscreen", false)
	v.SetDefault("mirror.max_size", 0)
	v.SetDefault("mirror.max_fps", 0)

	v.SetDefault("logcat.priority", "debug")
	v.SetDefault("logcat.buffer_size", 200)

	v.SetDefault("ui.interactive_mode", true)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(homeDir, strings.TrimPrefix(p, "~"))
}

// GetConfigDir returns the per-user configuration directory
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hsq-cli"
	}
	return filepath.Join(homeDir, ".hsq-cli")
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), 0700)
}
