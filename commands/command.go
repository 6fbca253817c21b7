package commands

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/leasehub/hubspot-app-sheets/config"
	"github.com/leasehub/hubspot-app-sheets/hubspot"
	"github.com/leasehub/hubspot-app-sheets/sheet"
	"github.com/leasehub/hubspot-app-sheets/workflow"
)

const APP = "hubspot-app-sheets"

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// Options are the global command line options.
type Options struct {
	Debug  bool
	Config string
}

type command struct {
	workdir         string
	credentials     string
	tokens          string
	url             string
	sheet           string
	dryrun          bool
	noRevisionCheck bool
}

func newCommand() command {
	return command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	}
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the 'credentials.json' file")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Directory for the authorisation tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL. Defaults to the 'spreadsheet' configuration value")
	flagset.StringVar(&c.sheet, "sheet", c.sheet, "Worksheet name. Defaults to the worksheet in the configuration")
	flagset.BoolVar(&c.dryrun, "dryrun", c.dryrun, "Reads and validates the worksheet without updating HubSpot or the worksheet")
	flagset.BoolVar(&c.noRevisionCheck, "no-revision-check", c.noRevisionCheck, "Disables the check for changes to the spreadsheet while it is being processed")

	return flagset
}

func (c *command) tokensDir() string {
	if c.tokens != "" {
		return c.tokens
	}

	return filepath.Join(c.workdir, ".google")
}

// run loads the configuration, connects to Google Sheets and HubSpot and then executes the
// workflow returned by 'f'.
func (c *command) run(ctx context.Context, options *Options, name string, f func(*workflow.Workflow) (*workflow.Summary, error)) error {
	conf, err := loadConfig(options)
	if err != nil {
		return err
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	if file := setLogFile(logrus.StandardLogger(), conf); file != nil {
		defer file.Close()
	}

	url := strings.TrimSpace(c.url)
	if url == "" {
		url = strings.TrimSpace(conf.Spreadsheet)
	}

	spreadsheet, err := spreadsheetID(url)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	log := logrus.WithField("command", name)
	log.Debugf("spreadsheet - ID:%s  credentials:%s  tokens:%s", spreadsheet, c.credentials, c.tokensDir())

	scopes := []string{SHEETS}
	if !c.noRevisionCheck {
		scopes = append(scopes, DRIVE)
	}

	client, err := authorize(c.credentials, scopes, c.tokensDir())
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	store, err := sheet.NewGoogle(ctx, client, spreadsheet)
	if err != nil {
		return err
	}

	w := workflow.Workflow{
		Store:  store,
		CRM:    hubspot.NewClient(ctx, conf.BaseURL, conf.Token, conf.Timeout),
		Config: conf,
		Log:    log,
		DryRun: c.dryrun,
	}

	if !c.noRevisionCheck {
		gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return fmt.Errorf("unable to create new Drive client (%w)", err)
		}

		w.Revision = revisions(gdrive, spreadsheet)
	}

	summary, err := f(&w)
	if err != nil {
		return err
	}

	report(log, summary)

	return nil
}

func (c *command) override(worksheet *string) {
	if s := strings.TrimSpace(c.sheet); s != "" {
		*worksheet = s
	}
}

func loadConfig(options *Options) (*config.Config, error) {
	conf := config.NewConfig()

	path := options.Config
	required := path != ""
	if path == "" {
		path = DEFAULT_CONFIG
	}

	if err := conf.Load(path, required); err != nil {
		return nil, err
	}

	return conf, nil
}

func spreadsheetID(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("--url is a required option")
	}

	match := spreadsheetURL.FindStringSubmatch(url)
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

func report(log *logrus.Entry, summary *workflow.Summary) {
	if summary == nil {
		return
	}

	for _, r := range summary.Results {
		if r.Status.Kind != workflow.Failed {
			continue
		}

		for _, e := range r.Errors {
			log.WithField("row", r.Row).Errorf("%v", e)
		}
	}

	log.Infof("%v  succeeded:%v  failed:%v  skipped:%v", summary.Workflow, summary.Succeeded, summary.Failed, summary.Skipped)
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	fmt.Println()

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-17s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Global options:")
	fmt.Println()
	fmt.Printf("    --%-17s %s\n", "debug", "Displays verbose debugging information")
	fmt.Printf("    --%-17s %s\n", "config", "Configuration file path. Defaults to "+DEFAULT_CONFIG)
}
