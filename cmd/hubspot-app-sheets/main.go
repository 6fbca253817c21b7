package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/leasehub/hubspot-app-sheets/commands"
)

var cli = []uhppoted.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.SyncDeviceDatesCmd,
	&commands.SyncDealsCmd,
	&commands.LookupDevicesCmd,
}

var options = commands.Options{
	Debug:  false,
	Config: "",
}

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.StringVar(&options.Config, "config", options.Config, fmt.Sprintf("Configuration file path. Defaults to %v", commands.DEFAULT_CONFIG))
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if options.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if cmd == nil {
		help.Execute(ctx)
		os.Exit(1)
	}

	if err = cmd.Execute(ctx, &options); err != nil {
		cancel()
		logrus.Fatalf("%v", err)
	}
}
