package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/fetch"
	"github.com/HaiFongPan/hsq-cli/internal/installer"
)

var fetchOutput string

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install <apk-or-url>...",
	Short: "Install apps on the headset",
	Long: `Install local APK files or APK download links, one at a time. A
failed install is reported and the rest continue.

Examples:
  hsq-cli install game.apk
  hsq-cli install https://example.com/builds/app.apk other.apk`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := connect(ctx)
		if err != nil {
			return err
		}

		inst := installer.New(s.client, newDownloader(), s.console, s.console)
		installed, err := inst.InstallAll(ctx, s.device.Serial, args)
		if err != nil {
			return err
		}
		if installed < len(args) {
			return fmt.Errorf("%d of %d apps could not be installed", len(args)-installed, len(args))
		}
		return nil
	},
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a file over HTTP",
	Long: `Download a file to the local disk with retries. Without --output the
file is named after the last path segment of the link.

Examples:
  hsq-cli fetch https://example.com/builds/app.apk
  hsq-cli fetch https://example.com/songs.zip -o ~/Downloads/songs.zip`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		console := newConsole()
		update, finish := console.Percent("Downloading")
		dest, err := newDownloader().Download(ctx, args[0], fetchOutput, update)
		finish()
		if err != nil {
			return err
		}
		console.ShowStatus("Saved "+dest, false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "destination file")
}

func newDownloader() *fetch.Client {
	return fetch.NewClient(fetch.Options{
		RetryMax: globalConfig.General.MaxRetries,
		Timeout:  fetch.DefaultTimeout,
	})
}
