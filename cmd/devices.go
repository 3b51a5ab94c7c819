package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

var wifiSettle time.Duration

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List headsets known to adb",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		client, err := adb.NewClient(&globalConfig.ADB)
		if err != nil {
			return err
		}
		devices, err := client.Devices(ctx)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERIAL\tSTATUS\tMODEL")
		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Serial, d.Status(), d.DisplayModel())
		}
		return w.Flush()
	},
}

// wifiCmd represents the connect-wifi command
var wifiCmd = &cobra.Command{
	Use:   "connect-wifi",
	Short: "Switch the USB headset to network adb",
	Long: `Put the connected headset into tcpip mode and connect to it over
the network. Unplug the cable once the address is printed.

Examples:
  hsq-cli connect-wifi
  hsq-cli connect-wifi --settle 10s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := connect(ctx)
		if err != nil {
			return err
		}

		s.console.Show("Connecting over Wi-Fi...")
		addr, err := s.client.ConnectWifi(ctx, s.device.Serial, wifiSettle)
		s.console.Hide()
		if err != nil {
			return fmt.Errorf("wifi connection failed: %w", err)
		}
		s.console.ShowStatus("Connected to "+addr, false)
		return nil
	},
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <adb-args>...",
	Short: "Run an adb command",
	Long: `Run adb with the given arguments and print its output.

Examples:
  hsq-cli run reboot
  hsq-cli run -- shell getprop ro.product.model`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runAdb(ctx, args)
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(wifiCmd)
	rootCmd.AddCommand(runCmd)

	wifiCmd.Flags().DurationVar(&wifiSettle, "settle", 5*time.Second, "time the headset gets to restart adb")
}

// runAdb runs adb and prints what it wrote
func runAdb(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty adb command")
	}
	client, err := adb.NewClient(&globalConfig.ADB)
	if err != nil {
		return err
	}
	out, err := client.Run(ctx, args...)
	if out = strings.TrimRight(out, "\n"); out != "" {
		fmt.Println(out)
	}
	return err
}
