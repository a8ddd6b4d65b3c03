// Source commands: add, edit, show, list, clear.
package commands

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/internal/logging"
)

var sourceOpts handlers.SourceOptions

var sourceFlags struct {
	typeFilter string
	clearName  string
	clearAll   bool
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the sources that describe what to scan",
	Long: `Commands for managing scan sources.

A source names the hosts to inspect and the credentials that can reach
them. Network sources accept IPs, CIDR blocks, and bracket ranges;
vcenter and satellite sources address a single server.`,
}

// addSourceFlags registers the shared source field flags on cmd.
func addSourceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&sourceOpts.Name, "name", "", "source name")
	flags.StringSliceVar(&sourceOpts.Hosts, "hosts", nil, "hosts, IPs, CIDR blocks, or ranges to scan")
	flags.StringSliceVar(&sourceOpts.ExcludeHosts, "exclude-hosts", nil, "hosts to skip within the scanned ranges")
	flags.StringSliceVar(&sourceOpts.CredNames, "cred", nil, "credential names to authenticate with")
	flags.Var((*portValue)(&sourceOpts.Port), "port", "connection port (defaults by source type)")
	flags.StringVar(&sourceOpts.UseParamiko, "use-paramiko", "", "use the paramiko SSH backend (true/false, network only)")
	flags.StringVar(&sourceOpts.SSLCertVerify, "ssl-cert-verify", "", "verify the source's SSL certificate (true/false)")
	flags.StringVar(&sourceOpts.SSLProtocol, "ssl-protocol", "", "SSL protocol for the source connection")
	flags.StringVar(&sourceOpts.DisableSSL, "disable-ssl", "", "connect to the source without SSL (true/false)")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		logging.Error("%v", err)
	}
}

var sourceAddCmd = &cobra.Command{
	Use:   "add --name NAME --type TYPE --hosts HOSTS --cred CRED [flags]",
	Short: "Add a source",
	Example: heredoc.Doc(`
		# A network range with two credentials
		qpc source add --name dc1 --type network --hosts 192.168.0.0/24 --cred root,svc

		# Numbered hosts, excluding a gateway
		qpc source add --name racks --type network \
		    --hosts rack[1:12].example.com --exclude-hosts 192.168.0.1 --cred root

		# A vcenter server without certificate verification
		qpc source add --name vc --type vcenter --hosts vcenter.example.com \
		    --cred vc-admin --ssl-cert-verify false`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewSourceAdd(sourceOpts, changedFlags(cmd)))
	},
}

var sourceEditCmd = &cobra.Command{
	Use:   "edit --name NAME [flags]",
	Short: "Edit a source",
	Long: `Update fields of an existing source.

Only the flags provided change; everything else keeps its stored value.
At least one field flag is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewSourceEdit(sourceOpts, changedFlags(cmd)))
	},
}

var sourceShowCmd = &cobra.Command{
	Use:   "show --name NAME",
	Short: "Show a source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewShow("/sources/", "Source", sourceOpts.Name))
	},
}

var sourceListCmd = &cobra.Command{
	Use:   "list [--type TYPE]",
	Short: "List sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		params := map[string]string{"source_type": sourceFlags.typeFilter}
		return handlers.Run(ctx, handlers.NewList("/sources/", "sources", params))
	},
}

var sourceClearCmd = &cobra.Command{
	Use:   "clear (--name NAME | --all)",
	Short: "Remove a source, or all of them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		if sourceFlags.clearAll {
			return handlers.ClearAll(ctx, "/sources/", "sources")
		}
		return handlers.Run(ctx, handlers.NewClearOne("/sources/", "Source", sourceFlags.clearName))
	},
}

func init() {
	addSourceFlags(sourceAddCmd)
	sourceAddCmd.Flags().StringVar(&sourceOpts.SourceType, "type", "", "source type: network, vcenter, or satellite")
	for _, flag := range []string{"type", "hosts", "cred"} {
		if err := sourceAddCmd.MarkFlagRequired(flag); err != nil {
			logging.Error("%v", err)
		}
	}

	addSourceFlags(sourceEditCmd)

	sourceShowCmd.Flags().StringVar(&sourceOpts.Name, "name", "", "source name")
	if err := sourceShowCmd.MarkFlagRequired("name"); err != nil {
		logging.Error("%v", err)
	}

	sourceListCmd.Flags().StringVar(&sourceFlags.typeFilter, "type", "", "filter by source type")

	sourceClearCmd.Flags().StringVar(&sourceFlags.clearName, "name", "", "source to remove")
	sourceClearCmd.Flags().BoolVar(&sourceFlags.clearAll, "all", false, "remove every source")
	sourceClearCmd.MarkFlagsMutuallyExclusive("name", "all")
	sourceClearCmd.MarkFlagsOneRequired("name", "all")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceEditCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceClearCmd)
}
