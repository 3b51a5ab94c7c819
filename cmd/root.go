package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/browser"
	"github.com/HaiFongPan/hsq-cli/internal/compress"
	"github.com/HaiFongPan/hsq-cli/internal/config"
	"github.com/HaiFongPan/hsq-cli/internal/favourites"
	"github.com/HaiFongPan/hsq-cli/internal/logcat"
	"github.com/HaiFongPan/hsq-cli/internal/mirror"
	"github.com/HaiFongPan/hsq-cli/internal/tui"
	img "github.com/HaiFongPan/hsq-cli/internal/tui/image"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	serialFlag   string
	globalConfig *config.Config
	userData     *config.UserData
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hsq-cli",
	Short: "Manage files on a headset over adb",
	Long: `HSQ-CLI browses, uploads and downloads files on a headset connected
over the adb debug bridge. It also streams logcat, mirrors the screen,
installs apps and keeps favourite folders and commands.

Example usage:
  hsq-cli                          # Interactive file browser
  hsq-cli ls /sdcard/Download
  hsq-cli push song.zip /sdcard/ModData/com.beatgames.beatsaber/Mods/SongLoader/CustomLevels
  hsq-cli pull /sdcard/Oculus/Screenshots/shot.jpg --to ~/Pictures
  hsq-cli media                    # Save screenshots and recordings`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !globalConfig.UI.InteractiveMode {
			return cmd.Help()
		}
		return runInteractiveBrowser()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.hsq-cli/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")
	rootCmd.PersistentFlags().StringVarP(&serialFlag, "serial", "s", "", "device serial (overrides config)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging()

	userData, err = config.LoadUserData()
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}
	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := filepath.Join(os.TempDir(), "hsq-cli")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

// runInteractiveBrowser wires the browser, its collaborators and the TUI
func runInteractiveBrowser() error {
	cfg := globalConfig

	client, err := adb.NewClient(&cfg.ADB)
	if err != nil {
		return err
	}

	reporter := tui.NewReporter()
	b := browser.New(client, reporter, reporter, browserOptions(cfg, cfg.Browser.RootPath, cfg.Transfer.DefaultCompress))

	priority, err := adb.ParsePriority(cfg.Logcat.Priority)
	if err != nil {
		return err
	}
	session := logcat.NewSession(client, logcat.NewBuffer(cfg.Logcat.BufferSize))

	var previewer tui.Previewer
	cache, err := img.NewCacheManager(filepath.Join(os.TempDir(), "hsq-cli", "preview"), img.DefaultCacheSize)
	if err != nil {
		logrus.Warnf("photo preview disabled: %v", err)
	} else {
		previewer = img.NewImageManager(cache, img.NewImageRenderer(), client)
	}

	model := tui.NewFileBrowserModel(tui.Options{
		Browser:      b,
		Reporter:     reporter,
		Devices:      client,
		Commands:     client,
		Mirror:       mirror.NewLauncher(cfg.Mirror),
		Logcat:       tui.NewLogcatModel(session, priority),
		Favourites:   favourites.NewManager(userData),
		Previewer:    previewer,
		Store:        userData,
		Serial:       effectiveSerial(),
		PollInterval: time.Duration(cfg.ADB.PollInterval) * time.Second,
	})

	return tui.Run(model)
}

// browserOptions maps configuration onto the browser; root overrides the
// configured root path and level selects upload compression
func browserOptions(cfg *config.Config, root, level string) browser.Options {
	if root == "" {
		root = cfg.Browser.RootPath
	}
	return browser.Options{
		RootPath:        root,
		SaveDir:         userData.ResolveSavePath(cfg.Transfer.SavePath),
		UploadDelay:     time.Duration(cfg.Transfer.UploadDelay) * time.Millisecond,
		MediaPaths:      cfg.Media.Paths,
		SupportedModels: cfg.Media.SupportedModels,
		PrepareUpload:   compress.Preparer(level, filepath.Join(os.TempDir(), "hsq-cli", "compressed")),
	}
}
