// Credential commands: add, edit, show, list, clear.
package commands

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/internal/logging"
)

var credOpts handlers.CredOptions

var credFlags struct {
	typeFilter string
	clearName  string
	clearAll   bool
}

var credCmd = &cobra.Command{
	Use:   "cred",
	Short: "Manage authentication credentials for scanning",
	Long: `Commands for managing the credentials used to inspect systems.

A credential holds the username and secret for one access path: SSH for
network sources, HTTPS logins for vcenter and satellite. Secrets are
always collected interactively, never from the command line or from files
other than SSH keys.`,
}

// addCredFlags registers the shared credential field flags on cmd.
func addCredFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&credOpts.Name, "name", "", "credential name")
	flags.StringVar(&credOpts.Username, "username", "", "username for authentication")
	flags.BoolVar(&credOpts.Password, "password", false, "prompt for a password")
	flags.StringVar(&credOpts.SSHKeyfile, "sshkeyfile", "", "absolute path to an SSH private key")
	flags.BoolVar(&credOpts.SSHPassphrase, "sshpassphrase", false, "prompt for the SSH key passphrase")
	flags.StringVar(&credOpts.BecomeMethod, "become-method", "", "privilege escalation method")
	flags.StringVar(&credOpts.BecomeUser, "become-user", "", "privilege escalation user")
	flags.BoolVar(&credOpts.BecomePassword, "become-password", false, "prompt for the privilege escalation password")

	cmd.MarkFlagsMutuallyExclusive("password", "sshkeyfile")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		logging.Error("%v", err)
	}
}

var credAddCmd = &cobra.Command{
	Use:   "add --name NAME --type TYPE --username USER [flags]",
	Short: "Add a credential",
	Example: heredoc.Doc(`
		# Network credential with an SSH key
		qpc cred add --name cred1 --type network --username root --sshkeyfile /keys/id_rsa

		# Network credential with a prompted password and sudo escalation
		qpc cred add --name cred2 --type network --username svc --password --become-method sudo

		# vcenter credential
		qpc cred add --name vc --type vcenter --username admin --password`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewCredAdd(credOpts))
	},
}

var credEditCmd = &cobra.Command{
	Use:   "edit --name NAME [flags]",
	Short: "Edit a credential",
	Long: `Update fields of an existing credential.

Only the flags provided change; everything else keeps its stored value.
At least one field flag is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewCredEdit(credOpts, changedFlags(cmd)))
	},
}

var credShowCmd = &cobra.Command{
	Use:   "show --name NAME",
	Short: "Show a credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewShow("/credentials/", "Credential", credOpts.Name))
	},
}

var credListCmd = &cobra.Command{
	Use:   "list [--type TYPE]",
	Short: "List credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		params := map[string]string{"cred_type": credFlags.typeFilter}
		return handlers.Run(ctx, handlers.NewList("/credentials/", "credentials", params))
	},
}

var credClearCmd = &cobra.Command{
	Use:   "clear (--name NAME | --all)",
	Short: "Remove a credential, or all of them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		if credFlags.clearAll {
			return handlers.ClearAll(ctx, "/credentials/", "credentials")
		}
		return handlers.Run(ctx, handlers.NewClearOne("/credentials/", "Credential", credFlags.clearName))
	},
}

func init() {
	addCredFlags(credAddCmd)
	credAddCmd.Flags().StringVar(&credOpts.CredType, "type", "", "credential type: network, vcenter, or satellite")
	if err := credAddCmd.MarkFlagRequired("username"); err != nil {
		logging.Error("%v", err)
	}

	addCredFlags(credEditCmd)

	credShowCmd.Flags().StringVar(&credOpts.Name, "name", "", "credential name")
	if err := credShowCmd.MarkFlagRequired("name"); err != nil {
		logging.Error("%v", err)
	}

	credListCmd.Flags().StringVar(&credFlags.typeFilter, "type", "", "filter by credential type")

	credClearCmd.Flags().StringVar(&credFlags.clearName, "name", "", "credential to remove")
	credClearCmd.Flags().BoolVar(&credFlags.clearAll, "all", false, "remove every credential")
	credClearCmd.MarkFlagsMutuallyExclusive("name", "all")
	credClearCmd.MarkFlagsOneRequired("name", "all")

	credCmd.AddCommand(credAddCmd)
	credCmd.AddCommand(credEditCmd)
	credCmd.AddCommand(credShowCmd)
	credCmd.AddCommand(credListCmd)
	credCmd.AddCommand(credClearCmd)
}
