// Package cmd holds the auxiliary cobra subcommands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monocap/internal/devices"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available capture devices",
		Long: `Enumerates the video capture devices on this machine together with ` +
			`the index to pass to --cam. Device enumeration is implemented for ` +
			`V4L2 (Linux); on other platforms cameras are still reachable by index.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			detector := devices.NewDetector()
			deviceList, err := detector.FindDevices()
			if err != nil {
				return fmt.Errorf("finding devices: %w", err)
			}

			if len(deviceList) == 0 {
				fmt.Println("No capture devices found.")
				return nil
			}

			fmt.Printf("Found %d capture devices:\n", len(deviceList))
			for _, dev := range deviceList {
				fmt.Printf("  --cam %d\n", dev.Index)
				fmt.Printf("    Device Path: %s\n", dev.DevicePath)
				if dev.DeviceName != "" {
					fmt.Printf("    Device Name: %s\n", dev.DeviceName)
				}
				fmt.Printf("    Device ID:   %s\n", dev.DeviceID)
			}
			return nil
		},
	}
}
