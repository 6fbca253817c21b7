package commands

import (
	"flag"
	"fmt"

	"github.com/leasehub/hubspot-app-sheets/workflow"
)

var SyncDealsCmd = SyncDeals{
	command: newCommand(),
}

// SyncDeals pushes the leasing properties of each worksheet row to its HubSpot deal and records the deal's company ID.
type SyncDeals struct {
	command
}

func (cmd *SyncDeals) Name() string {
	return "sync-deals"
}

func (cmd *SyncDeals) Description() string {
	return "Updates the HubSpot deals from the worksheet and records the deal company"
}

func (cmd *SyncDeals) Usage() string {
	return "--credentials <file> --url <url>"
}

func (cmd *SyncDeals) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync-deals [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Updates the HubSpot deals from the worksheet and records the deal company")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug sync-deals --credentials \"credentials.json\" \\\n", APP)
	fmt.Println(`        --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *SyncDeals) FlagSet() *flag.FlagSet {
	return cmd.flagset("sync-deals")
}

func (cmd *SyncDeals) Execute(args ...any) error {
	ctx, options := arguments(args...)

	return cmd.run(ctx, options, cmd.Name(), func(w *workflow.Workflow) (*workflow.Summary, error) {
		cmd.override(&w.Config.Deals.Sheet)

		return w.SyncDeals(ctx)
	})
}
