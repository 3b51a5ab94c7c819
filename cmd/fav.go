package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/config"
	"github.com/HaiFongPan/hsq-cli/internal/favourites"
)

var favIcon string

// favCmd represents the fav command
var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favourites"},
	Short:   "Manage favourite folders, commands and links",
	Long: `Manage the three favourites lists: file, command and browser.

Examples:
  hsq-cli fav list
  hsq-cli fav add file Beat /sdcard/BeatSaber/
  hsq-cli fav run command 0
  hsq-cli fav export > favourites.json`,
}

var favListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "Show favourites",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := favourites.Kinds
		if len(args) == 1 {
			k, err := favourites.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []favourites.Kind{k}
		}

		m := favourites.NewManager(userData)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LIST\t#\tNAME\tURI")
		for _, k := range kinds {
			for i, f := range m.Get(k) {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", k, i, f.Name, f.URI)
			}
		}
		return w.Flush()
	},
}

var favAddCmd = &cobra.Command{
	Use:   "add <kind> <name> <uri>",
	Short: "Add a favourite",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := favourites.ParseKind(args[0])
		if err != nil {
			return err
		}
		fav := config.Favourite{Name: args[1], URI: args[2], Icon: favIcon}
		if err := favourites.NewManager(userData).Add(kind, fav); err != nil {
			return err
		}
		newConsole().ShowStatus(fmt.Sprintf("Added %s to %s favourites", fav.Name, kind), false)
		return nil
	},
}

var favRemoveCmd = &cobra.Command{
	Use:     "rm <kind> <index>",
	Aliases: []string{"remove"},
	Short:   "Remove a favourite by its list position",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, index, err := favouriteRef(args)
		if err != nil {
			return err
		}
		return favourites.NewManager(userData).Remove(kind, index)
	},
}

var favResetCmd = &cobra.Command{
	Use:   "reset <kind>",
	Short: "Restore a list to its built-in entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := favourites.ParseKind(args[0])
		if err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Reset %s favourites?", kind)) {
			fmt.Println("Reset cancelled.")
			return nil
		}
		return favourites.NewManager(userData).Reset(kind)
	},
}

var favExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every list as JSON to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return favourites.NewManager(userData).Export(os.Stdout)
	},
}

var favImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace lists from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		return favourites.NewManager(userData).Import(f)
	},
}

var favRunCmd = &cobra.Command{
	Use:   "run <kind> <index>",
	Short: "Use a favourite",
	Long: `Use a favourite outside the browser: a file favourite prints its
listing, a command favourite runs adb and a browser favourite is copied
to the clipboard.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, index, err := favouriteRef(args)
		if err != nil {
			return err
		}
		list := favourites.NewManager(userData).Get(kind)
		if index >= len(list) {
			return fmt.Errorf("no %s favourite at %d", kind, index)
		}
		fav := list[index]

		switch kind {
		case favourites.Command:
			ctx, cancel := commandContext(cmd)
			defer cancel()
			return runAdb(ctx, favourites.CommandArgs(fav.URI))
		case favourites.Browser:
			if err := clipboard.WriteAll(fav.URI); err != nil {
				return fmt.Errorf("failed to copy link: %w", err)
			}
			newConsole().ShowStatus("Link copied to clipboard: "+fav.URI, false)
			return nil
		default:
			return listFiles(cmd, []string{fav.URI})
		}
	},
}

func init() {
	rootCmd.AddCommand(favCmd)
	favCmd.AddCommand(favListCmd, favAddCmd, favRemoveCmd, favResetCmd, favExportCmd, favImportCmd, favRunCmd)

	favAddCmd.Flags().StringVar(&favIcon, "icon", "", "icon shown next to the name")
}

// favouriteRef parses "<kind> <index>"
func favouriteRef(args []string) (favourites.Kind, int, error) {
	kind, err := favourites.ParseKind(args[0])
	if err != nil {
		return "", 0, err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("invalid index: %s", args[1])
	}
	return kind, index, nil
}
