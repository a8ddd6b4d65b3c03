// Server connection commands: config, login, logout, status.
package commands

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/config"
	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/internal/logging"
)

var serverFlags struct {
	host       string
	port       int
	useHTTP    bool
	sslVerify  string
	username   string
	outputFile string
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the connection to the quipucords server",
	Long: `Commands for connecting qpc to a quipucords server.

The connection settings persist locally; every other command family uses
them. Logging in stores a session token that rides along on subsequent
requests until logout.`,
}

var serverConfigCmd = &cobra.Command{
	Use:   "config --host HOST [flags]",
	Short: "Configure the server connection",
	Long: `Store the host, port, and TLS settings used to reach the server.

No request is made: a bad host surfaces on the next command that talks to
the server. Reconfiguring discards any stored session token, since it may
belong to a different server.`,
	Example: heredoc.Doc(`
		# HTTPS on the default port
		qpc server config --host 10.0.0.5

		# Custom port, plain HTTP
		qpc server config --host localhost --port 8000 --use-http

		# Verify the server certificate against a CA bundle
		qpc server config --host scan.example.com --ssl-verify /etc/pki/ca.pem`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handlers.ConfigureServer(cmd.OutOrStdout(), serverFlags.host,
			serverFlags.port, serverFlags.useHTTP, serverFlags.sslVerify)
	},
}

var serverLoginCmd = &cobra.Command{
	Use:   "login --username USER",
	Short: "Log in to the server",
	Long: `Exchange a username and password for a session token.

The password is always collected interactively; it cannot be passed on the
command line. The token is stored locally with owner-only permissions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := anonymousContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewLogin(serverFlags.username))
	},
}

var serverLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the server",
	Long: `End the server session and remove the stored token.

Logout always succeeds locally: an unreachable server is logged but does
not keep the token alive on this machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := sessionContext()
		if err != nil {
			return err
		}
		return handlers.Logout(ctx)
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server's build and version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewServerStatus(serverFlags.outputFile))
	},
}

func init() {
	serverConfigCmd.Flags().StringVar(&serverFlags.host, "host", "", "server host or IP address")
	serverFlags.port = config.DefaultPort
	serverConfigCmd.Flags().Var((*portValue)(&serverFlags.port), "port", "server port")
	serverConfigCmd.Flags().BoolVar(&serverFlags.useHTTP, "use-http", false, "connect over plain HTTP")
	serverConfigCmd.Flags().StringVar(&serverFlags.sslVerify, "ssl-verify", "", "CA bundle for server certificate verification")
	if err := serverConfigCmd.MarkFlagRequired("host"); err != nil {
		logging.Error("%v", err)
	}

	serverLoginCmd.Flags().StringVar(&serverFlags.username, "username", "", "server username")
	if err := serverLoginCmd.MarkFlagRequired("username"); err != nil {
		logging.Error("%v", err)
	}

	serverStatusCmd.Flags().StringVar(&serverFlags.outputFile, "output-file", "", "write the status document to this file")

	serverCmd.AddCommand(serverConfigCmd)
	serverCmd.AddCommand(serverLoginCmd)
	serverCmd.AddCommand(serverLogoutCmd)
	serverCmd.AddCommand(serverStatusCmd)
}
