package handlers

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// Report endpoints and the Accept values that select a rendering. The
// JSON rendering arrives as a gzipped tar holding the report document;
// CSV arrives as raw bytes.
const (
	reportsPath = "/reports/"

	acceptJSONGzip = "application/json+gzip"
	acceptCSV      = "text/csv"
)

// resolveReportID looks up the report id produced by a scan job.
func resolveReportID(ctx *Context, scanJobID int) (int, error) {
	resp, err := ctx.Client.Get(fmt.Sprintf("%s%d/", scanJobsPath, scanJobID), nil, nil)
	if err != nil {
		return 0, reportTransportError(ctx, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return 0, fail(ctx, messages.DoesNotExist, "Scan job", fmt.Sprint(scanJobID))
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, ReportServerError(resp)
	}

	job, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return 0, ErrHandled
	}
	reportID, ok := job["report_id"].(float64)
	if !ok || reportID == 0 {
		return 0, fail(ctx, messages.ReportNoReportID, fmt.Sprint(scanJobID))
	}
	return int(reportID), nil
}

// extractReportJSON unpacks the gzipped tar the server sends for JSON
// renderings and returns the contained report document.
func extractReportJSON(raw []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decompressing report archive")
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading report archive")
		}
		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, ".json") {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Wrap(err, "reading report document")
		}
		return data, nil
	}
	return nil, errors.New("report archive contains no JSON document")
}

// ReportDownloadHandler fetches a report rendering and writes it to a
// local file. Scope selects the details or deployments view.
type ReportDownloadHandler struct {
	Base
	spec RequestSpec

	Scope      string
	ReportID   int
	ScanJobID  int
	UseJSON    bool
	OutputFile string

	// Changed records whether the report or scan-job flag selected the
	// report.
	Changed map[string]bool
}

// NewReportDownload builds the handler for `qpc report details` and
// `qpc report deployments`.
func NewReportDownload(scope string, reportID, scanJobID int, useJSON bool, outputFile string, changed map[string]bool) *ReportDownloadHandler {
	return &ReportDownloadHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         reportsPath,
			SuccessCodes: []int{http.StatusOK},
		},
		Scope:      scope,
		ReportID:   reportID,
		ScanJobID:  scanJobID,
		UseJSON:    useJSON,
		OutputFile: outputFile,
		Changed:    changed,
	}
}

func (h *ReportDownloadHandler) Spec() *RequestSpec { return &h.spec }

func (h *ReportDownloadHandler) Validate(ctx *Context) error {
	if h.OutputFile == "" {
		return fail(ctx, messages.OutputFileRequired)
	}
	dir := filepath.Dir(h.OutputFile)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fail(ctx, messages.OutputDirNotExist, dir)
	}

	if h.Changed["scan-job"] {
		reportID, err := resolveReportID(ctx, h.ScanJobID)
		if err != nil {
			return err
		}
		h.ReportID = reportID
	}

	accept := acceptCSV
	if h.UseJSON {
		accept = acceptJSONGzip
	}
	h.spec.Path = fmt.Sprintf("%s%d/%s/", reportsPath, h.ReportID, h.Scope)
	h.spec.Headers = map[string]string{"Accept": accept}
	return nil
}

func (h *ReportDownloadHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	data := resp.Body()
	if h.UseJSON {
		document, err := extractReportJSON(data)
		if err != nil {
			logging.Error("%v", err)
			return ErrHandled
		}
		data = document
	}

	if err := os.WriteFile(h.OutputFile, data, 0o644); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	size := humanize.Bytes(uint64(len(data)))
	display.Line(ctx.Out, messages.Lookup(messages.WriteFileSuccess, h.OutputFile, size))
	return nil
}

func (h *ReportDownloadHandler) HandleError(ctx *Context, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return fail(ctx, messages.DoesNotExist, "Report", fmt.Sprint(h.ReportID))
	}
	return ReportServerError(resp)
}

// ReportMergeHandler merges the reports of several scan jobs into one.
type ReportMergeHandler struct {
	Base
	spec   RequestSpec
	JobIDs []int
}

// NewReportMerge builds the handler for `qpc report merge`.
func NewReportMerge(jobIDs []int) *ReportMergeHandler {
	return &ReportMergeHandler{
		spec: RequestSpec{
			Method:       http.MethodPut,
			Path:         reportsPath + "merge/jobs/",
			SuccessCodes: []int{http.StatusCreated},
		},
		JobIDs: jobIDs,
	}
}

func (h *ReportMergeHandler) Spec() *RequestSpec { return &h.spec }

func (h *ReportMergeHandler) Validate(ctx *Context) error {
	if len(h.JobIDs) < 2 {
		return fail(ctx, messages.ReportMergeTooFew)
	}
	return nil
}

func (h *ReportMergeHandler) BuildPayload() (any, error) {
	return map[string]any{"jobs": h.JobIDs}, nil
}

func (h *ReportMergeHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	job, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	display.Line(ctx.Out, messages.Lookup(messages.ReportMergeStarted, fmt.Sprint(itemID(job))))
	return nil
}

// ReportMergeStatusHandler reports the state of a merge job and, once the
// merge completes, the id of the merged report.
type ReportMergeStatusHandler struct {
	Base
	spec  RequestSpec
	JobID int
}

// NewReportMergeStatus builds the handler for `qpc report merge-status`.
func NewReportMergeStatus(jobID int) *ReportMergeStatusHandler {
	return &ReportMergeStatusHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         fmt.Sprintf("%smerge/jobs/%d/", reportsPath, jobID),
			SuccessCodes: []int{http.StatusOK},
		},
		JobID: jobID,
	}
}

func (h *ReportMergeStatusHandler) Spec() *RequestSpec { return &h.spec }

func (h *ReportMergeStatusHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	job, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}

	status, _ := job["status"].(string)
	display.Line(ctx.Out, messages.Lookup(messages.ReportMergeStatus, fmt.Sprint(h.JobID), status))
	if reportID, ok := job["report_id"].(float64); ok && reportID != 0 {
		display.Line(ctx.Out, messages.Lookup(messages.ReportMergeReportID, fmt.Sprint(int(reportID))))
	}
	return nil
}

func (h *ReportMergeStatusHandler) HandleError(ctx *Context, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return fail(ctx, messages.DoesNotExist, "Merge job", fmt.Sprint(h.JobID))
	}
	return ReportServerError(resp)
}
