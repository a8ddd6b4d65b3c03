// Report commands: details, deployments, merge, merge-status.
package commands

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/handlers"
	"github.com/quipucords/qpc/internal/logging"
)

var reportFlags struct {
	reportID   int
	scanJobID  int
	useJSON    bool
	useCSV     bool
	outputFile string
	mergeJobs  []int
	mergeJobID int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Retrieve the reports built from scan results",
	Long: `Commands for downloading and combining scan reports.

A report is addressed by its own id or by the scan job that produced it.
The details view carries the raw facts; the deployments view carries the
fingerprinted summary.`,
}

// addReportDownloadFlags registers the selection and output flags shared
// by the details and deployments commands.
func addReportDownloadFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&reportFlags.reportID, "report", 0, "report id")
	flags.IntVar(&reportFlags.scanJobID, "scan-job", 0, "scan job id whose report to fetch")
	flags.BoolVar(&reportFlags.useJSON, "json", false, "write the report as JSON")
	flags.BoolVar(&reportFlags.useCSV, "csv", false, "write the report as CSV")
	flags.StringVar(&reportFlags.outputFile, "output-file", "", "write the report to this file")

	cmd.MarkFlagsMutuallyExclusive("report", "scan-job")
	cmd.MarkFlagsOneRequired("report", "scan-job")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")
	cmd.MarkFlagsOneRequired("json", "csv")
}

// runReportDownload builds and runs the download handler for scope.
func runReportDownload(cmd *cobra.Command, scope string) error {
	ctx, err := apiContext()
	if err != nil {
		return err
	}
	h := handlers.NewReportDownload(scope, reportFlags.reportID, reportFlags.scanJobID,
		reportFlags.useJSON, reportFlags.outputFile, changedFlags(cmd))
	return handlers.Run(ctx, h)
}

var reportDetailsCmd = &cobra.Command{
	Use:   "details (--report ID | --scan-job ID) (--json | --csv) --output-file PATH",
	Short: "Download the detailed facts report",
	Example: heredoc.Doc(`
		# JSON details by report id
		qpc report details --report 1 --json --output-file details.json

		# CSV details for the report a scan job produced
		qpc report details --scan-job 4 --csv --output-file details.csv`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportDownload(cmd, "details")
	},
}

var reportDeploymentsCmd = &cobra.Command{
	Use:   "deployments (--report ID | --scan-job ID) (--json | --csv) --output-file PATH",
	Short: "Download the deployments summary report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportDownload(cmd, "deployments")
	},
}

var reportMergeCmd = &cobra.Command{
	Use:   "merge --ids ID,ID...",
	Short: "Merge the reports of several scan jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewReportMerge(reportFlags.mergeJobs))
	},
}

var reportMergeStatusCmd = &cobra.Command{
	Use:   "merge-status --job ID",
	Short: "Show the state of a report merge job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		return handlers.Run(ctx, handlers.NewReportMergeStatus(reportFlags.mergeJobID))
	},
}

func init() {
	addReportDownloadFlags(reportDetailsCmd)
	addReportDownloadFlags(reportDeploymentsCmd)

	reportMergeCmd.Flags().IntSliceVar(&reportFlags.mergeJobs, "ids", nil, "scan job ids to merge")
	if err := reportMergeCmd.MarkFlagRequired("ids"); err != nil {
		logging.Error("%v", err)
	}

	reportMergeStatusCmd.Flags().IntVar(&reportFlags.mergeJobID, "job", 0, "merge job id")
	if err := reportMergeStatusCmd.MarkFlagRequired("job"); err != nil {
		logging.Error("%v", err)
	}

	reportCmd.AddCommand(reportDetailsCmd)
	reportCmd.AddCommand(reportDeploymentsCmd)
	reportCmd.AddCommand(reportMergeCmd)
	reportCmd.AddCommand(reportMergeStatusCmd)
}
