package handlers

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// The insights-client invocation used to hand a report archive to the
// Red Hat Insights service.
const (
	insightsClient      = "insights-client"
	insightsContentType = "application/vnd.redhat.qpc.tar+tgz"
)

// Overridable for tests.
var (
	lookPath    = exec.LookPath
	execCommand = exec.Command
)

// InsightsUploadOptions carries the flags of `qpc insights upload`.
type InsightsUploadOptions struct {
	ReportID  int
	ScanJobID int
	NoGPG     bool

	// Changed records whether the report or scan-job flag was set.
	Changed map[string]bool
}

// InsightsUpload downloads a details report archive and hands it to the
// local insights-client tool for delivery. The archive is fetched rather
// than rebuilt so the uploaded payload is exactly what the server produced.
func InsightsUpload(ctx *Context, opts InsightsUploadOptions) error {
	if !opts.Changed["report"] && !opts.Changed["scan-job"] {
		return fail(ctx, messages.InsightsReportRequired)
	}

	reportID := opts.ReportID
	if opts.Changed["scan-job"] {
		id, err := resolveReportID(ctx, opts.ScanJobID)
		if err != nil {
			return err
		}
		reportID = id
	}

	if _, err := lookPath(insightsClient); err != nil {
		return fail(ctx, messages.InsightsClientMissing)
	}

	path := fmt.Sprintf("%s%d/details/", reportsPath, reportID)
	headers := map[string]string{"Accept": acceptJSONGzip}
	resp, err := ctx.Client.Get(path, nil, headers)
	if err != nil {
		return reportTransportError(ctx, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fail(ctx, messages.DoesNotExist, "Report", fmt.Sprint(reportID))
	}
	if resp.StatusCode() != http.StatusOK {
		return ReportServerError(resp)
	}

	archive, err := os.CreateTemp("", "qpc-insights-*.tar.gz")
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	defer os.Remove(archive.Name())

	if _, err := archive.Write(resp.Body()); err != nil {
		archive.Close()
		logging.Error("%v", err)
		return ErrHandled
	}
	if err := archive.Close(); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}

	args := []string{
		"--payload=" + archive.Name(),
		"--content-type=" + insightsContentType,
	}
	if opts.NoGPG {
		args = append(args, "--no-gpg")
	}

	cmd := execCommand(insightsClient, args...)
	output, err := cmd.CombinedOutput()
	if err != nil || !strings.Contains(string(output), "Successfully uploaded") {
		logging.Error("%s: %s", insightsClient, strings.TrimSpace(string(output)))
		if err != nil {
			logging.Error("%v", err)
		}
		return fail(ctx, messages.InsightsUploadFailed, fmt.Sprint(reportID))
	}

	logging.Debug("%s: %s", insightsClient, strings.TrimSpace(string(output)))
	display.Line(ctx.Out, messages.Lookup(messages.InsightsUploadSuccess, fmt.Sprint(reportID)))
	return nil
}
