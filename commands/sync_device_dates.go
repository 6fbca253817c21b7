package commands

import (
	"flag"
	"fmt"

	"github.com/leasehub/hubspot-app-sheets/workflow"
)

var SyncDeviceDatesCmd = SyncDeviceDates{
	command: newCommand(),
}

// SyncDeviceDates pushes the install and lease end dates of each worksheet row to the matching HubSpot device.
type SyncDeviceDates struct {
	command
}

func (cmd *SyncDeviceDates) Name() string {
	return "sync-device-dates"
}

func (cmd *SyncDeviceDates) Description() string {
	return "Updates the HubSpot device install and lease end dates from the worksheet"
}

func (cmd *SyncDeviceDates) Usage() string {
	return "--credentials <file> --url <url>"
}

func (cmd *SyncDeviceDates) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync-device-dates [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Updates the HubSpot device install and lease end dates from the worksheet")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug sync-device-dates --credentials \"credentials.json\" \\\n", APP)
	fmt.Println(`        --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *SyncDeviceDates) FlagSet() *flag.FlagSet {
	return cmd.flagset("sync-device-dates")
}

func (cmd *SyncDeviceDates) Execute(args ...any) error {
	ctx, options := arguments(args...)

	return cmd.run(ctx, options, cmd.Name(), func(w *workflow.Workflow) (*workflow.Summary, error) {
		cmd.override(&w.Config.DeviceDates.Sheet)

		return w.SyncDeviceDates(ctx)
	})
}
