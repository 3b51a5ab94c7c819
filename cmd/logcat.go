package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/logcat"
)

var (
	logcatPriority string
	logcatTag      string
	logcatSearch   string
)

// logcatCmd represents the logcat command
var logcatCmd = &cobra.Command{
	Use:   "logcat",
	Short: "Stream the headset log",
	Long: `Stream log entries from the headset until interrupted.

Examples:
  hsq-cli logcat
  hsq-cli logcat --priority warn
  hsq-cli logcat --tag Unity --search exception`,
	Args: cobra.NoArgs,
	RunE: streamLogcat,
}

func init() {
	rootCmd.AddCommand(logcatCmd)

	logcatCmd.Flags().StringVarP(&logcatPriority, "priority", "p", "", "minimum priority (verbose, debug, info, warn, error, fatal, silent)")
	logcatCmd.Flags().StringVar(&logcatTag, "tag", "", "only show this tag")
	logcatCmd.Flags().StringVar(&logcatSearch, "search", "", "only show entries whose message or tag contains this text")
}

func streamLogcat(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	level := logcatPriority
	if level == "" {
		level = GetConfig().Logcat.Priority
	}
	priority, err := adb.ParsePriority(level)
	if err != nil {
		return err
	}

	s, err := connect(ctx)
	if err != nil {
		return err
	}

	buffer := logcat.NewBuffer(GetConfig().Logcat.BufferSize)
	buffer.SetSearch(logcatSearch)
	session := logcat.NewSession(s.client, buffer)

	err = session.Start(ctx, s.device.Serial, adb.LogcatOptions{Tag: logcatTag, Priority: priority}, func(e adb.LogEntry) {
		fmt.Fprintln(os.Stdout, formatLogLine(e))
	})
	if err != nil {
		return err
	}
	return session.Wait()
}

func formatLogLine(e adb.LogEntry) string {
	return fmt.Sprintf("%s %5d %5d %s %s: %s", e.Date, e.PID, e.TID, e.Priority.Letter(), strings.TrimSpace(e.Tag), e.Message)
}
