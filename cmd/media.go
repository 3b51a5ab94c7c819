package cmd

import (
	"github.com/spf13/cobra"
)

var mediaTo string

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Download screenshots and recordings from the headset",
	Long: `Download every file in the headset capture folders into the save
location. Only headset models that write capture folders are supported.

Examples:
  hsq-cli media
  hsq-cli media --to ~/Pictures/quest`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openBrowser(ctx, "", "")
		if err != nil {
			return err
		}
		if mediaTo != "" {
			if err := applySaveLocation(s.browser, mediaTo); err != nil {
				return err
			}
		}

		_, err = s.browser.DownloadMedia(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)

	mediaCmd.Flags().StringVarP(&mediaTo, "to", "t", "", "save location (remembered)")
}
