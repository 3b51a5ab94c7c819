package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
)

var (
	showSize bool
	showDate bool
	listJSON bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "ls [remote-path]",
	Aliases: []string{"list"},
	Short:   "List a folder on the headset",
	Long: `List a folder on the headset, folders first, each group by name.
Without a path the configured root folder is listed.

Examples:
  hsq-cli ls
  hsq-cli ls /sdcard/Oculus/Screenshots
  hsq-cli ls /sdcard/Download --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: listFiles,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&showSize, "size", true, "show file sizes")
	listCmd.Flags().BoolVar(&showDate, "date", true, "show modification dates")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print entries as JSON")
}

func listFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}

	s, err := openBrowser(ctx, dir, "")
	if err != nil {
		return err
	}

	entries := s.browser.State().Entries
	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return outputTable(os.Stdout, entries)
}

func outputTable(out io.Writer, entries []browser.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := "NAME\tTYPE"
	if showSize {
		header += "\tSIZE"
	}
	if showDate {
		header += "\tMODIFIED"
	}
	fmt.Fprintln(w, header)

	for _, e := range entries {
		name := e.Name
		if e.IsFolder() {
			name += "/"
		}
		line := name + "\t" + strings.ToUpper(e.Kind.String())

		if showSize {
			size := "-"
			if !e.IsFolder() {
				size = humanize.IBytes(uint64(e.Size))
			}
			line += "\t" + size
		}

		if showDate {
			modified := "-"
			if !e.ModTime.IsZero() {
				modified = e.ModTime.Format("2006-01-02 15:04")
			}
			line += "\t" + modified
		}

		fmt.Fprintln(w, line)
	}

	return w.Flush()
}
