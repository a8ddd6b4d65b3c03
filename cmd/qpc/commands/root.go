// Package commands contains all CLI command definitions for qpc.
//
// Commands are organized by resource family, mirroring the server's API:
// cred, source, scan, report, server, and insights. Each command collects
// flags into an options struct and hands it to the matching handler; the
// handlers package owns validation, the request lifecycle, and rendering,
// so the files here are wiring only.
//
// Exit codes follow the argparse convention: 0 on success, 1 when a
// handler reports a failure, 2 when cobra rejects the command line itself.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/config"
	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/cmd/qpc/utils"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
	"github.com/quipucords/qpc/internal/validate"
	"github.com/quipucords/qpc/internal/version"
)

// verbosity counts the -v flags; 0 is WARN, 1 INFO, 2+ DEBUG.
var verbosity int

// RootCmd is the qpc entrypoint command.
var RootCmd = &cobra.Command{
	Use:   "qpc",
	Short: "Discover and manage product entitlement metadata across your IT infrastructure",
	Long: `qpc is the client for the quipucords inspection server.

It configures the server connection, manages the credentials and sources
that describe your infrastructure, drives scans against them, and retrieves
the reports the server builds from scan results.`,
	Version:       version.QpcVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Configure the server connection and log in
		qpc server config --host 10.0.0.5 --port 8443
		qpc server login --username admin

		# Describe what to scan
		qpc cred add --name cred1 --type network --username root --sshkeyfile /keys/id_rsa
		qpc source add --name src1 --type network --hosts 192.168.0.0/24 --cred cred1

		# Run a scan and fetch its report
		qpc scan add --name scan1 --sources src1
		qpc scan start --name scan1
		qpc report details --scan-job 1 --json --output-file report.json`),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.SetupLogging(verbosity)
		if err := config.EnsureDirs(); err != nil {
			logging.Error("%v", err)
			return handlers.ErrHandled
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase log verbosity (repeatable)")

	RootCmd.AddCommand(serverCmd)
	RootCmd.AddCommand(credCmd)
	RootCmd.AddCommand(sourceCmd)
	RootCmd.AddCommand(scanCmd)
	RootCmd.AddCommand(reportCmd)
	RootCmd.AddCommand(insightsCmd)
}

// Execute runs the CLI and maps the outcome to a process exit code.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, handlers.ErrHandled) {
		return 1
	}
	// Anything else came from cobra itself: bad flags, unknown
	// subcommands, argument count mismatches.
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 2
}

// requireServerConfig loads the stored connection settings, directing the
// operator to `server config` when none exist.
func requireServerConfig() (*config.ServerConfig, error) {
	cfg := config.ReadServerConfig()
	if cfg == nil {
		logging.Error("%s", messages.Lookup(messages.ServerConfigRequired))
		return nil, handlers.ErrHandled
	}
	return cfg, nil
}

// apiContext builds the handler context for commands that need an
// authenticated session, directing the operator to `server login` when no
// token is stored.
func apiContext() (*handlers.Context, error) {
	cfg, err := requireServerConfig()
	if err != nil {
		return nil, err
	}
	token := config.ReadToken()
	if token == "" {
		logging.Error("%s", messages.Lookup(messages.ServerLoginRequired))
		return nil, handlers.ErrHandled
	}
	api := client.NewAPIClient(cfg, token)
	logging.Debug("dispatching to %s", api.BaseURL())
	return &handlers.Context{
		Client:   api,
		Prompter: utils.TerminalPrompter{},
		Out:      os.Stdout,
	}, nil
}

// anonymousContext builds the handler context for login, which needs the
// configured server but no session.
func anonymousContext() (*handlers.Context, error) {
	cfg, err := requireServerConfig()
	if err != nil {
		return nil, err
	}
	return &handlers.Context{
		Client:   client.NewAPIClient(cfg, ""),
		Prompter: utils.TerminalPrompter{},
		Out:      os.Stdout,
	}, nil
}

// sessionContext builds the handler context for logout: the token rides
// along when present, but its absence is not an error.
func sessionContext() (*handlers.Context, error) {
	cfg, err := requireServerConfig()
	if err != nil {
		return nil, err
	}
	return &handlers.Context{
		Client:   client.NewAPIClient(cfg, config.ReadToken()),
		Prompter: utils.TerminalPrompter{},
		Out:      os.Stdout,
	}, nil
}

// changedFlags records which flags were explicitly set, so edit commands
// can distinguish "not provided" from a zero value.
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	return changed
}

// portValue is a pflag.Value for --port flags that rejects out-of-range
// ports during argument parsing, so a bad port is a usage error (exit 2)
// rather than a handler failure.
type portValue int

func (p *portValue) String() string { return strconv.Itoa(int(*p)) }

func (p *portValue) Type() string { return "port" }

func (p *portValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if err := validate.ValidatePortRange(n); err != nil {
		return err
	}
	*p = portValue(n)
	return nil
}
