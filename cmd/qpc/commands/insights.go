// Insights commands: upload reports to the Red Hat Insights service.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/quipucords/qpc/cmd/qpc/handlers"
)

var insightsOpts handlers.InsightsUploadOptions

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Publish scan reports to Red Hat Insights",
}

var insightsUploadCmd = &cobra.Command{
	Use:   "upload (--report ID | --scan-job ID) [--no-gpg]",
	Short: "Upload a details report through insights-client",
	Long: `Download a details report archive and hand it to the local
insights-client tool for delivery to Red Hat Insights.

Requires insights-client to be installed and registered on this machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := apiContext()
		if err != nil {
			return err
		}
		insightsOpts.Changed = changedFlags(cmd)
		return handlers.InsightsUpload(ctx, insightsOpts)
	},
}

func init() {
	insightsUploadCmd.Flags().IntVar(&insightsOpts.ReportID, "report", 0, "report id to upload")
	insightsUploadCmd.Flags().IntVar(&insightsOpts.ScanJobID, "scan-job", 0, "scan job id whose report to upload")
	insightsUploadCmd.Flags().BoolVar(&insightsOpts.NoGPG, "no-gpg", false, "skip GPG verification in insights-client")
	insightsUploadCmd.MarkFlagsMutuallyExclusive("report", "scan-job")
	insightsUploadCmd.MarkFlagsOneRequired("report", "scan-job")

	insightsCmd.AddCommand(insightsUploadCmd)
}
