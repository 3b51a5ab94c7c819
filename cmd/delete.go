package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
)

var deleteForce bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "rm <remote-path>...",
	Aliases: []string{"delete"},
	Short:   "Delete files or folders on the headset",
	Long: `Delete files or folders on the headset. Folders are removed with
their contents.

Examples:
  hsq-cli rm /sdcard/Download/old.apk
  hsq-cli rm /sdcard/Oculus/Screenshots/a.jpg /sdcard/Oculus/Screenshots/b.jpg
  hsq-cli rm /sdcard/Old --force          # Delete without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: deleteFiles,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "force delete without confirmation")
}

func deleteFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := openBrowser(ctx, "", "")
	if err != nil {
		return err
	}

	entries := make([]browser.Entry, 0, len(args))
	for _, remote := range args {
		e, err := s.findEntry(ctx, remote)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	if !deleteForce {
		prompt := fmt.Sprintf("Are you sure you want to delete '%s'?", entries[0].FullPath)
		if len(entries) > 1 {
			fmt.Printf("The following %d items will be deleted:\n", len(entries))
			for _, e := range entries {
				fmt.Printf("  - %s\n", e.FullPath)
			}
			prompt = "Are you sure you want to delete all these items? This cannot be undone!"
		}
		if !confirm(prompt) {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	return deleteEntries(ctx, s.browser, entries)
}

// entryDeleter is the part of the browser rm needs
type entryDeleter interface {
	DeleteFile(ctx context.Context, e browser.Entry) error
	DeleteFiles(ctx context.Context, entries []browser.Entry) (int, error)
}

func deleteEntries(ctx context.Context, d entryDeleter, entries []browser.Entry) error {
	if len(entries) == 1 {
		return d.DeleteFile(ctx, entries[0])
	}

	deleted, err := d.DeleteFiles(ctx, entries)
	logrus.Infof("deleted %d of %d items", deleted, len(entries))
	if err != nil {
		return fmt.Errorf("%d of %d items could not be deleted: %w", len(entries)-deleted, len(entries), err)
	}
	return nil
}
