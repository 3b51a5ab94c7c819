package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
	"github.com/HaiFongPan/hsq-cli/internal/config"
)

var pullTo string

// pullCmd represents the pull command
var pullCmd = &cobra.Command{
	Use:     "pull <remote-path>...",
	Aliases: []string{"download"},
	Short:   "Download files from the headset",
	Long: `Download files from the headset into the save location. A failed
file is reported and the rest continue. --to changes the save location
and remembers it for later runs.

Examples:
  hsq-cli pull /sdcard/Oculus/Screenshots/shot.jpg
  hsq-cli pull /sdcard/Download/a.zip /sdcard/Download/b.zip --to ~/Desktop`,
	Args: cobra.MinimumNArgs(1),
	RunE: pullFiles,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().StringVarP(&pullTo, "to", "t", "", "save location (remembered)")
}

func pullFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := openBrowser(ctx, "", "")
	if err != nil {
		return err
	}

	if pullTo != "" {
		if err := applySaveLocation(s.browser, pullTo); err != nil {
			return err
		}
	}

	entries := make([]browser.Entry, 0, len(args))
	for _, remote := range args {
		e, err := s.findEntry(ctx, remote)
		if err != nil {
			return err
		}
		if e.IsFolder() {
			return fmt.Errorf("%s is a folder", e.FullPath)
		}
		entries = append(entries, e)
	}

	saved, err := s.browser.SaveFiles(ctx, entries)
	if err != nil {
		return err
	}
	if saved < len(entries) {
		return fmt.Errorf("%d of %d files could not be downloaded", len(entries)-saved, len(entries))
	}
	return nil
}

// applySaveLocation switches the browser to dir and persists it
func applySaveLocation(b *browser.Browser, dir string) error {
	dir = config.ExpandHome(dir)
	b.SetSaveDir(dir)
	if err := userData.SetSavePath(dir); err != nil {
		return fmt.Errorf("failed to remember save location: %w", err)
	}
	logrus.Infof("save location set to %s", dir)
	return nil
}
