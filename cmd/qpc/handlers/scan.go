package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
	"github.com/quipucords/qpc/internal/validate"
)

// Scan endpoints. Jobs live under a scan for creation and listing but are
// addressed directly once they have an id.
const (
	scansPath    = "/scans/"
	scanJobsPath = "/jobs/"
)

// ScanOptions carries the scan flag values shared by add and edit.
type ScanOptions struct {
	Name             string
	SourceNames      []string
	MaxConcurrency   int
	DisabledProducts []string
	EnabledExtSearch []string
	ExtSearchDirs    []string
}

// validateScanTuning checks the option inputs shared by add and edit:
// concurrency bounds, known product names, and absolute search paths.
func validateScanTuning(ctx *Context, o *ScanOptions, changed map[string]bool) error {
	if changed["max-concurrency"] && o.MaxConcurrency < 1 {
		return fail(ctx, messages.ScanConcurrencyBounds)
	}
	for _, p := range o.DisabledProducts {
		if !validate.IsValidOptionalProduct(p) {
			return fail(ctx, messages.ScanProductInvalid, p,
				validate.SetString(validate.OptionalProducts))
		}
	}
	for _, p := range o.EnabledExtSearch {
		if !validate.IsValidOptionalProduct(p) {
			return fail(ctx, messages.ScanProductInvalid, p,
				validate.SetString(validate.OptionalProducts))
		}
	}
	for _, dir := range o.ExtSearchDirs {
		if !filepath.IsAbs(dir) {
			return fail(ctx, messages.ScanDirNotAbsolute, dir)
		}
	}
	return nil
}

// productFlags renders a product list as the per-product boolean object the
// server expects.
func productFlags(products []string) map[string]any {
	flags := map[string]any{}
	for _, p := range products {
		flags[p] = true
	}
	return flags
}

// scanOptionsPayload assembles the nested options object for the fields in
// changed (or all fields, for add, where every key of interest is set).
func scanOptionsPayload(o *ScanOptions, changed map[string]bool) map[string]any {
	options := map[string]any{}
	if changed["max-concurrency"] {
		options["max_concurrency"] = o.MaxConcurrency
	}
	if changed["disabled-optional-products"] {
		options["disabled_optional_products"] = productFlags(o.DisabledProducts)
	}
	if changed["enabled-ext-product-search"] || changed["ext-product-search-dirs"] {
		search := productFlags(o.EnabledExtSearch)
		if len(o.ExtSearchDirs) > 0 {
			search["search_directories"] = o.ExtSearchDirs
		}
		options["enabled_extended_product_search"] = search
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

// ScanAddHandler creates a new scan definition.
type ScanAddHandler struct {
	Base
	spec    RequestSpec
	Options ScanOptions
	Changed map[string]bool

	sourceIDs []int
}

// NewScanAdd builds the handler for `qpc scan add`.
func NewScanAdd(opts ScanOptions, changed map[string]bool) *ScanAddHandler {
	return &ScanAddHandler{
		spec: RequestSpec{
			Method:       http.MethodPost,
			Path:         scansPath,
			SuccessCodes: []int{http.StatusCreated},
		},
		Options: opts,
		Changed: changed,
	}
}

func (h *ScanAddHandler) Spec() *RequestSpec { return &h.spec }

func (h *ScanAddHandler) Validate(ctx *Context) error {
	o := &h.Options

	if err := validate.ValidateName(o.Name); err != nil {
		return fail(ctx, messages.NameInvalid, o.Name)
	}
	if len(o.SourceNames) == 0 {
		return fail(ctx, messages.ScanSourcesEmpty)
	}
	if err := validateScanTuning(ctx, o, h.Changed); err != nil {
		return err
	}

	missing, ids, err := ResolveSourceIDs(ctx, o.SourceNames)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fail(ctx, messages.DoesNotExist, "Source", strings.Join(missing, ", "))
	}
	h.sourceIDs = ids
	return nil
}

func (h *ScanAddHandler) BuildPayload() (any, error) {
	o := &h.Options

	payload := map[string]any{
		"name":      o.Name,
		"sources":   h.sourceIDs,
		"scan_type": "inspect",
	}
	if options := scanOptionsPayload(o, h.Changed); options != nil {
		payload["options"] = options
	}
	return payload, nil
}

func (h *ScanAddHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceAdded, "Scan", h.Options.Name))
	return nil
}

// ScanEditHandler updates an existing scan definition.
type ScanEditHandler struct {
	Base
	spec    RequestSpec
	Options ScanOptions
	Changed map[string]bool

	sourceIDs []int
}

// NewScanEdit builds the handler for `qpc scan edit`.
func NewScanEdit(opts ScanOptions, changed map[string]bool) *ScanEditHandler {
	return &ScanEditHandler{
		spec: RequestSpec{
			Method:       http.MethodPatch,
			Path:         scansPath,
			SuccessCodes: []int{http.StatusOK},
		},
		Options: opts,
		Changed: changed,
	}
}

func (h *ScanEditHandler) Spec() *RequestSpec { return &h.spec }

// scanEditFlags are the flags that constitute an actual edit.
var scanEditFlags = []string{
	"sources", "max-concurrency", "disabled-optional-products",
	"enabled-ext-product-search", "ext-product-search-dirs",
}

func (h *ScanEditHandler) Validate(ctx *Context) error {
	o := &h.Options

	edited := false
	for _, flag := range scanEditFlags {
		if h.Changed[flag] {
			edited = true
			break
		}
	}
	if !edited {
		return fail(ctx, messages.EditNoArgs, "scan", o.Name)
	}
	if err := validateScanTuning(ctx, o, h.Changed); err != nil {
		return err
	}

	if h.Changed["sources"] {
		if len(o.SourceNames) == 0 {
			return fail(ctx, messages.ScanSourcesEmpty)
		}
		missing, ids, err := ResolveSourceIDs(ctx, o.SourceNames)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fail(ctx, messages.DoesNotExist, "Source", strings.Join(missing, ", "))
		}
		h.sourceIDs = ids
	}

	found, id, err := ResolveScan(ctx, o.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, "Scan", o.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/", scansPath, id)
	return nil
}

func (h *ScanEditHandler) BuildPayload() (any, error) {
	o := &h.Options

	payload := map[string]any{"name": o.Name}
	if h.Changed["sources"] {
		payload["sources"] = h.sourceIDs
	}
	if options := scanOptionsPayload(o, h.Changed); options != nil {
		payload["options"] = options
	}
	return payload, nil
}

func (h *ScanEditHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceUpdated, "Scan", h.Options.Name))
	return nil
}

// ScanStartHandler kicks off a new job for a named scan.
type ScanStartHandler struct {
	Base
	spec RequestSpec
	Name string
}

// NewScanStart builds the handler for `qpc scan start`.
func NewScanStart(name string) *ScanStartHandler {
	return &ScanStartHandler{
		spec: RequestSpec{
			Method:       http.MethodPost,
			Path:         scansPath,
			SuccessCodes: []int{http.StatusCreated},
		},
		Name: name,
	}
}

func (h *ScanStartHandler) Spec() *RequestSpec { return &h.spec }

func (h *ScanStartHandler) Validate(ctx *Context) error {
	found, id, err := ResolveScan(ctx, h.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, "Scan", h.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/jobs/", scansPath, id)
	return nil
}

func (h *ScanStartHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	job, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	jobID := itemID(job)
	if jobID == 0 {
		logging.Error("scan job response for %q is missing an id", h.Name)
		return ErrHandled
	}
	display.Line(ctx.Out, messages.Lookup(messages.ScanStarted, fmt.Sprint(jobID)))
	return nil
}

// ScanJobActionHandler transitions a scan job: pause, cancel, or restart.
type ScanJobActionHandler struct {
	Base
	spec  RequestSpec
	JobID int
	msg   messages.ID
}

// jobAction builds a job transition handler for the given action verb.
func jobAction(jobID int, action string, msg messages.ID) *ScanJobActionHandler {
	return &ScanJobActionHandler{
		spec: RequestSpec{
			Method:       http.MethodPut,
			Path:         fmt.Sprintf("%s%d/%s/", scanJobsPath, jobID, action),
			SuccessCodes: []int{http.StatusOK},
		},
		JobID: jobID,
		msg:   msg,
	}
}

// NewScanPause builds the handler for `qpc scan pause`.
func NewScanPause(jobID int) *ScanJobActionHandler {
	return jobAction(jobID, "pause", messages.ScanPaused)
}

// NewScanCancel builds the handler for `qpc scan cancel`.
func NewScanCancel(jobID int) *ScanJobActionHandler {
	return jobAction(jobID, "cancel", messages.ScanCanceled)
}

// NewScanRestart builds the handler for `qpc scan restart`.
func NewScanRestart(jobID int) *ScanJobActionHandler {
	return jobAction(jobID, "restart", messages.ScanRestarted)
}

func (h *ScanJobActionHandler) Spec() *RequestSpec { return &h.spec }

func (h *ScanJobActionHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(h.msg, fmt.Sprint(h.JobID)))
	return nil
}

// ScanJobHandler inspects scan jobs: a single job by id, or the job list
// of a named scan with an optional status filter.
type ScanJobHandler struct {
	Base
	spec RequestSpec

	Name   string
	JobID  int
	Status string

	// Changed records which of the id and status flags were set.
	Changed map[string]bool
}

// NewScanJob builds the handler for `qpc scan job`.
func NewScanJob(name string, jobID int, status string, changed map[string]bool) *ScanJobHandler {
	return &ScanJobHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         scansPath,
			SuccessCodes: []int{http.StatusOK},
		},
		Name:    name,
		JobID:   jobID,
		Status:  status,
		Changed: changed,
	}
}

func (h *ScanJobHandler) Spec() *RequestSpec { return &h.spec }

func (h *ScanJobHandler) Validate(ctx *Context) error {
	if h.Changed["id"] {
		if h.Changed["status"] {
			return fail(ctx, messages.ScanJobIDStatus)
		}
		h.spec.Path = fmt.Sprintf("%s%d/", scanJobsPath, h.JobID)
		return nil
	}

	found, id, err := ResolveScan(ctx, h.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, "Scan", h.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/jobs/", scansPath, id)
	return nil
}

func (h *ScanJobHandler) BuildParams() map[string]string {
	params := map[string]string{}
	if !h.Changed["id"] && h.Status != "" {
		params["status"] = h.Status
	}
	return params
}

func (h *ScanJobHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	if h.Changed["id"] {
		job, err := client.ParseObject(resp)
		if err != nil {
			logging.Error("%v", err)
			return ErrHandled
		}
		display.JSON(ctx.Out, job)
		return nil
	}

	list, err := client.ParseList(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	if list.Count == 0 {
		display.Line(ctx.Out, messages.Lookup(messages.NoneExist, "scan jobs"))
		return nil
	}
	return Paginate(ctx, &h.spec, h.BuildParams(), list, func(results []map[string]any) {
		display.Results(ctx.Out, results)
	})
}

func (h *ScanJobHandler) HandleError(ctx *Context, resp *resty.Response) error {
	if h.Changed["id"] && resp.StatusCode() == http.StatusNotFound {
		return fail(ctx, messages.DoesNotExist, "Scan job", fmt.Sprint(h.JobID))
	}
	return ReportServerError(resp)
}
