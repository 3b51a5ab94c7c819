package cmd

import (
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/mirror"
)

// mirrorCmd represents the mirror command
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror the headset screen with scrcpy",
	Long: `Open a scrcpy window for the headset and wait until it closes.
Window options come from the mirror section of the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		if err := mirror.NewLauncher(globalConfig.Mirror).Run(ctx, s.device.Serial); err != nil {
			return err
		}
		s.console.ShowStatus(mirror.ClosedMessage, false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
}
