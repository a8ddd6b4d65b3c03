// Scan commands: definition management plus the job lifecycle verbs.
package commands

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/internal/logging"
)

var scanOpts handlers.ScanOptions

var scanFlags struct {
	clearName string
	clearAll  bool
	jobID     int
	jobStatus string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Manage scans and their jobs",
	Long: `Commands for defining scans and driving their jobs.

A scan names the sources to inspect and how deep to look. Starting a scan
creates a job; jobs can be paused, canceled, restarted, and inspected
while the scan definition stays put.`,
}

// addScanFlags registers the shared scan field flags on cmd.
func addScanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&scanOpts.Name, "name", "", "scan name")
	flags.StringSliceVar(&scanOpts.SourceNames, "sources", nil, "source names to scan")
	flags.IntVar(&scanOpts.MaxConcurrency, "max-concurrency", 50, "maximum concurrent host inspections")
	flags.StringSliceVar(&scanOpts.DisabledProducts, "disabled-optional-products", nil, "optional products to skip")
	flags.StringSliceVar(&scanOpts.EnabledExtSearch, "enabled-ext-product-search", nil, "optional products to search exhaustively")
	flags.StringSliceVar(&scanOpts.ExtSearchDirs, "ext-product-search-dirs", nil, "absolute directories for extended product search")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		logging.Error("%v", err)
	}
}

var scanAddCmd = &cobra.Command{
	Use:   "add --name NAME --sources SOURCES [flags]",
	Short: "Add a scan",
	Example: heredoc.Doc(`
		# Scan two sources with the defaults
		qpc scan add --name nightly --sources dc1,dc2

		# Skip JBoss BRMS and search /opt for EAP
		qpc scan add --name deep --sources dc1 \
		    --disabled-optional-products jboss_brms \
		    --enabled-ext-product-search jboss_eap --ext-product-search-dirs /opt`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanAdd(scanOpts, changedFlags(cmd)))
	},
}

var scanEditCmd = &cobra.Command{
	Use:   "edit --name NAME [flags]",
	Short: "Edit a scan",
	Long: `Update fields of an existing scan definition.

Only the flags provided change; everything else keeps its stored value.
At least one field flag is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanEdit(scanOpts, changedFlags(cmd)))
	},
}

var scanShowCmd = &cobra.Command{
	Use:   "show --name NAME",
	Short: "Show a scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewShow("/scans/", "Scan", scanOpts.Name))
	},
}

var scanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewList("/scans/", "scans", nil))
	},
}

var scanClearCmd = &cobra.Command{
	Use:   "clear (--name NAME | --all)",
	Short: "Remove a scan, or all of them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		if scanFlags.clearAll {
			return handlers.ClearAll(ctx, "/scans/", "scans")
		}
		return handlers.Run(ctx, handlers.NewClearOne("/scans/", "Scan", scanFlags.clearName))
	},
}

var scanStartCmd = &cobra.Command{
	Use:   "start --name NAME",
	Short: "Start a job for a scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanStart(scanOpts.Name))
	},
}

var scanPauseCmd = &cobra.Command{
	Use:   "pause --id JOB_ID",
	Short: "Pause a running scan job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanPause(scanFlags.jobID))
	},
}

var scanCancelCmd = &cobra.Command{
	Use:   "cancel --id JOB_ID",
	Short: "Cancel a scan job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanCancel(scanFlags.jobID))
	},
}

var scanRestartCmd = &cobra.Command{
	Use:   "restart --id JOB_ID",
	Short: "Restart a paused scan job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewScanRestart(scanFlags.jobID))
	},
}

var scanJobCmd = &cobra.Command{
	Use:   "job (--name NAME [--status STATUS] | --id JOB_ID)",
	Short: "Inspect a scan's jobs",
	Long: `Show the jobs of a named scan, or a single job by id.

The status filter applies only when listing by scan name; a job id already
selects a single job.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		h := handlers.NewScanJob(scanOpts.Name, scanFlags.jobID, scanFlags.jobStatus, changedFlags(cmd))
		return handlers.Run(ctx, h)
	},
}

func init() {
	addScanFlags(scanAddCmd)
	if err := scanAddCmd.MarkFlagRequired("sources"); err != nil {
		logging.Error("%v", err)
	}

	addScanFlags(scanEditCmd)

	for _, cmd := range []*cobra.Command{scanShowCmd, scanStartCmd} {
		cmd.Flags().StringVar(&scanOpts.Name, "name", "", "scan name")
		if err := cmd.MarkFlagRequired("name"); err != nil {
			logging.Error("%v", err)
		}
	}

	scanClearCmd.Flags().StringVar(&scanFlags.clearName, "name", "", "scan to remove")
	scanClearCmd.Flags().BoolVar(&scanFlags.clearAll, "all", false, "remove every scan")
	scanClearCmd.MarkFlagsMutuallyExclusive("name", "all")
	scanClearCmd.MarkFlagsOneRequired("name", "all")

	for _, cmd := range []*cobra.Command{scanPauseCmd, scanCancelCmd, scanRestartCmd} {
		cmd.Flags().IntVar(&scanFlags.jobID, "id", 0, "scan job id")
		if err := cmd.MarkFlagRequired("id"); err != nil {
			logging.Error("%v", err)
		}
	}

	scanJobCmd.Flags().StringVar(&scanOpts.Name, "name", "", "scan name")
	scanJobCmd.Flags().IntVar(&scanFlags.jobID, "id", 0, "scan job id")
	scanJobCmd.Flags().StringVar(&scanFlags.jobStatus, "status", "", "filter jobs by status")
	scanJobCmd.MarkFlagsMutuallyExclusive("name", "id")
	scanJobCmd.MarkFlagsOneRequired("name", "id")

	scanCmd.AddCommand(scanAddCmd)
	scanCmd.AddCommand(scanEditCmd)
	scanCmd.AddCommand(scanShowCmd)
	scanCmd.AddCommand(scanListCmd)
	scanCmd.AddCommand(scanClearCmd)
	scanCmd.AddCommand(scanStartCmd)
	scanCmd.AddCommand(scanPauseCmd)
	scanCmd.AddCommand(scanCancelCmd)
	scanCmd.AddCommand(scanRestartCmd)
	scanCmd.AddCommand(scanJobCmd)
}
