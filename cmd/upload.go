package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/compress"
)

var uploadCompress string

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:     "push <file-path>... <remote-folder>",
	Aliases: []string{"upload"},
	Short:   "Upload files to a folder on the headset",
	Long: `Upload local files into a folder on the headset, one at a time.
The first failure stops the remaining uploads.

Examples:
  hsq-cli push song.zip /sdcard/Download
  hsq-cli push *.jpg /sdcard/Pictures --compress high   # Re-encode photos first`,
	Args: cobra.MinimumNArgs(2),
	RunE: uploadFiles,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadCompress, "compress", "z", "", "image compression level (high, fine, normal, low)")
}

func uploadFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	level := uploadCompress
	if !cmd.Flags().Changed("compress") {
		level = GetConfig().Transfer.DefaultCompress
	}
	if level != "" {
		if _, err := compress.Quality(level); err != nil {
			return err
		}
	}

	files, remote := args[:len(args)-1], args[len(args)-1]
	locals := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", f, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("cannot upload %s: %w", f, err)
		}
		if info.IsDir() {
			return fmt.Errorf("cannot upload %s: is a directory", f)
		}
		locals = append(locals, abs)
	}

	s, err := openBrowser(ctx, remote, level)
	if err != nil {
		return err
	}
	return s.browser.UploadFiles(ctx, locals)
}
