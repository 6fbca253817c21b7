package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var AuthoriseCmd = Authorise{
	command: newCommand(),
	in:      os.Stdin,
	out:     os.Stdout,
}

// Authorise runs the OAuth2 console flow for the Google Sheets and Drive APIs and saves the
// resulting token for the sync commands.
type Authorise struct {
	command
	in  io.Reader
	out io.Writer
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return fmt.Sprintf("Authorises %s to access the Google Sheets spreadsheet", APP)
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Printf("  Authorises %s to access the Google Sheets spreadsheet and saves the access token\n", APP)
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s authorise --credentials \"credentials.json\"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the authorisation tokens. Defaults to <workdir>/.google")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, _ := arguments(args...)

	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	config, err := oauthConfig(cmd.credentials, []string{SHEETS, DRIVE})
	if err != nil {
		return fmt.Errorf("invalid credentials file %v (%w)", cmd.credentials, err)
	}

	token, err := cmd.exchange(ctx, config)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	file := tokensFile(cmd.credentials, cmd.tokensDir())
	if err := saveToken(file, token); err != nil {
		return err
	}

	logrus.Infof("saved authorisation token to %v", file)

	return nil
}

func (cmd *Authorise) exchange(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Fprintf(cmd.out, "Go to the following link in your browser then type the authorization code:\n%v\n", url)

	scanner := bufio.NewScanner(cmd.in)
	code := ""
	for code == "" && scanner.Scan() {
		code = strings.TrimSpace(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read authorization code (%w)", err)
	} else if code == "" {
		return nil, fmt.Errorf("no authorization code")
	}

	return config.Exchange(ctx, code)
}

// arguments unpacks the context and global options passed to Execute by main().
func arguments(args ...any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}
