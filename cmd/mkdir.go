package cmd

import (
	"github.com/spf13/cobra"
)

// mkdirCmd represents the mkdir command
var mkdirCmd = &cobra.Command{
	Use:   "mkdir <remote-folder> <name>",
	Short: "Create a folder on the headset",
	Long: `Create a folder inside an existing folder on the headset. The name
must not match a folder that is already there.

Examples:
  hsq-cli mkdir /sdcard/Download Mods`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openBrowser(ctx, args[0], "")
		if err != nil {
			return err
		}
		if err := s.browser.MakeFolder(ctx, args[1]); err != nil {
			return err
		}
		s.console.ShowStatus("Folder created: "+args[1], false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
