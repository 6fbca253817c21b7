package commands

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/leasehub/hubspot-app-sheets/workflow"
)

var LookupDevicesCmd = LookupDevices{
	command: newCommand(),
}

// LookupDevices fills in the device ID of each worksheet row from the devices associated with the row's company.
type LookupDevices struct {
	command
}

func (cmd *LookupDevices) Name() string {
	return "lookup-devices"
}

func (cmd *LookupDevices) Description() string {
	return "Assigns a HubSpot device ID to every worksheet row with a company ID"
}

func (cmd *LookupDevices) Usage() string {
	return "--credentials <file> --url <url>"
}

func (cmd *LookupDevices) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] lookup-devices [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Assigns a HubSpot device ID to every worksheet row with a company ID")
	fmt.Println()
	fmt.Println("  Companies are processed in batches of 'batch-size' (default 10) with a pause of 'batch-pause'")
	fmt.Println("  (default 200ms) between batches. Each batch is written to the worksheet before the next starts.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug lookup-devices --credentials \"credentials.json\" \\\n", APP)
	fmt.Println(`        --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *LookupDevices) FlagSet() *flag.FlagSet {
	return cmd.flagset("lookup-devices")
}

func (cmd *LookupDevices) Execute(args ...any) error {
	ctx, options := arguments(args...)

	return cmd.run(ctx, options, cmd.Name(), func(w *workflow.Workflow) (*workflow.Summary, error) {
		cmd.override(&w.Config.Devices.Sheet)
		if cmd.dryrun {
			logrus.Warnf("dry run: device associations are still retrieved from HubSpot")
		}

		return w.LookupDevices(ctx)
	})
}
