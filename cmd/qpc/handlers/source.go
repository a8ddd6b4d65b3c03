package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/messages"
	"github.com/quipucords/qpc/internal/validate"
)

// sourcesPath is the source collection endpoint.
const sourcesPath = "/sources/"

// SourceOptions carries the source flag values shared by add and edit.
// The tri-state boolean options are strings so an unset flag is
// distinguishable from an explicit false.
type SourceOptions struct {
	Name         string
	SourceType   string
	Hosts        []string
	ExcludeHosts []string
	CredNames    []string
	Port         int

	UseParamiko   string
	SSLCertVerify string
	SSLProtocol   string
	DisableSSL    string
}

// parseBoolOption converts a tri-state option string to a bool, failing
// with a usage message when the value is not true or false.
func parseBoolOption(ctx *Context, flag, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fail(ctx, messages.SourceOptionNotBool, flag)
}

// SourceAddHandler creates a new source.
type SourceAddHandler struct {
	Base
	spec    RequestSpec
	Options SourceOptions

	// Changed records which flags were set on the command line.
	Changed map[string]bool

	credIDs []int
	options map[string]any
}

// NewSourceAdd builds the handler for `qpc source add`.
func NewSourceAdd(opts SourceOptions, changed map[string]bool) *SourceAddHandler {
	return &SourceAddHandler{
		spec: RequestSpec{
			Method:       http.MethodPost,
			Path:         sourcesPath,
			SuccessCodes: []int{http.StatusCreated},
		},
		Options: opts,
		Changed: changed,
	}
}

func (h *SourceAddHandler) Spec() *RequestSpec { return &h.spec }

// validateSourceShape checks the inputs every source must satisfy: valid
// name and type, a non-empty host list matching the type's grammar, and a
// non-empty credential list. Shared between add and the checks edit applies
// to the fields it changes.
func (h *SourceAddHandler) Validate(ctx *Context) error {
	o := &h.Options

	if err := validate.ValidateName(o.Name); err != nil {
		return fail(ctx, messages.NameInvalid, o.Name)
	}
	if !validate.IsValidSourceType(o.SourceType) {
		return fail(ctx, messages.SourceTypeInvalid, o.SourceType)
	}

	if len(o.Hosts) == 0 {
		return fail(ctx, messages.SourceHostsEmpty)
	}
	if o.SourceType != "network" && len(o.Hosts) > 1 {
		return fail(ctx, messages.SourceMultipleHostsOnly, o.SourceType)
	}
	if bad, ok := validate.ValidateHosts(o.Hosts, o.SourceType); !ok {
		return fail(ctx, messages.SourceHostInvalid, bad)
	}

	if len(o.ExcludeHosts) > 0 {
		if o.SourceType != "network" {
			return fail(ctx, messages.SourceExcludeNetOnly)
		}
		if bad, ok := validate.ValidateHosts(o.ExcludeHosts, o.SourceType); !ok {
			return fail(ctx, messages.SourceHostInvalid, bad)
		}
	}

	if len(o.CredNames) == 0 {
		return fail(ctx, messages.SourceCredsEmpty)
	}

	if h.Changed["port"] {
		if err := validate.ValidatePortRange(o.Port); err != nil {
			return fail(ctx, messages.PortInvalid, o.Port)
		}
	}

	options, err := h.buildOptions(ctx)
	if err != nil {
		return err
	}
	h.options = options

	missing, ids, err := ResolveCredentialIDs(ctx, o.CredNames)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fail(ctx, messages.DoesNotExist, "Credential", strings.Join(missing, ", "))
	}
	h.credIDs = ids
	return nil
}

// buildOptions assembles the nested options object, enforcing which option
// belongs to which source type: use_paramiko is SSH-only, the SSL options
// only apply to the HTTPS-speaking types.
func (h *SourceAddHandler) buildOptions(ctx *Context) (map[string]any, error) {
	o := &h.Options
	options := map[string]any{}

	if o.UseParamiko != "" {
		if o.SourceType != "network" {
			return nil, fail(ctx, messages.SourceOptionWrongType, "--use-paramiko", o.SourceType)
		}
		v, err := parseBoolOption(ctx, "--use-paramiko", o.UseParamiko)
		if err != nil {
			return nil, err
		}
		options["use_paramiko"] = v
	}

	sslOnly := func(flag string) error {
		if o.SourceType == "network" {
			return fail(ctx, messages.SourceOptionWrongType, flag, o.SourceType)
		}
		return nil
	}
	if o.SSLCertVerify != "" {
		if err := sslOnly("--ssl-cert-verify"); err != nil {
			return nil, err
		}
		v, err := parseBoolOption(ctx, "--ssl-cert-verify", o.SSLCertVerify)
		if err != nil {
			return nil, err
		}
		options["ssl_cert_verify"] = v
	}
	if o.DisableSSL != "" {
		if err := sslOnly("--disable-ssl"); err != nil {
			return nil, err
		}
		v, err := parseBoolOption(ctx, "--disable-ssl", o.DisableSSL)
		if err != nil {
			return nil, err
		}
		options["disable_ssl"] = v
	}
	if o.SSLProtocol != "" {
		if err := sslOnly("--ssl-protocol"); err != nil {
			return nil, err
		}
		options["ssl_protocol"] = o.SSLProtocol
	}

	if len(options) == 0 {
		return nil, nil
	}
	return options, nil
}

func (h *SourceAddHandler) BuildPayload() (any, error) {
	o := &h.Options

	port := o.Port
	if !h.Changed["port"] {
		port = validate.DefaultPort(o.SourceType)
	}

	payload := map[string]any{
		"name":        o.Name,
		"source_type": o.SourceType,
		"hosts":       o.Hosts,
		"port":        port,
		"credentials": h.credIDs,
	}
	if len(o.ExcludeHosts) > 0 {
		payload["exclude_hosts"] = o.ExcludeHosts
	}
	if h.options != nil {
		payload["options"] = h.options
	}
	return payload, nil
}

func (h *SourceAddHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceAdded, "Source", h.Options.Name))
	return nil
}

// SourceEditHandler updates an existing source. Only changed fields are
// sent; type-specific restrictions on unchanged fields are left to the
// server, which knows the source's type.
type SourceEditHandler struct {
	Base
	spec    RequestSpec
	Options SourceOptions
	Changed map[string]bool

	credIDs []int
	options map[string]any
}

// NewSourceEdit builds the handler for `qpc source edit`.
func NewSourceEdit(opts SourceOptions, changed map[string]bool) *SourceEditHandler {
	return &SourceEditHandler{
		spec: RequestSpec{
			Method:       http.MethodPatch,
			Path:         sourcesPath,
			SuccessCodes: []int{http.StatusOK},
		},
		Options: opts,
		Changed: changed,
	}
}

func (h *SourceEditHandler) Spec() *RequestSpec { return &h.spec }

// sourceEditFlags are the flags that constitute an actual edit.
var sourceEditFlags = []string{
	"hosts", "exclude-hosts", "cred", "port",
	"use-paramiko", "ssl-cert-verify", "ssl-protocol", "disable-ssl",
}

func (h *SourceEditHandler) Validate(ctx *Context) error {
	o := &h.Options

	edited := false
	for _, flag := range sourceEditFlags {
		if h.Changed[flag] {
			edited = true
			break
		}
	}
	if !edited {
		return fail(ctx, messages.EditNoArgs, "source", o.Name)
	}

	// Host grammar is checked against the permissive network form here;
	// single-host types are enforced server-side where the type is known.
	if h.Changed["hosts"] {
		if len(o.Hosts) == 0 {
			return fail(ctx, messages.SourceHostsEmpty)
		}
		if bad, ok := validate.ValidateHosts(o.Hosts, "network"); !ok {
			return fail(ctx, messages.SourceHostInvalid, bad)
		}
	}
	if h.Changed["exclude-hosts"] && len(o.ExcludeHosts) > 0 {
		if bad, ok := validate.ValidateHosts(o.ExcludeHosts, "network"); !ok {
			return fail(ctx, messages.SourceHostInvalid, bad)
		}
	}
	if h.Changed["port"] {
		if err := validate.ValidatePortRange(o.Port); err != nil {
			return fail(ctx, messages.PortInvalid, o.Port)
		}
	}

	options := map[string]any{}
	boolOptions := []struct {
		flag, key, value string
	}{
		{"--use-paramiko", "use_paramiko", o.UseParamiko},
		{"--ssl-cert-verify", "ssl_cert_verify", o.SSLCertVerify},
		{"--disable-ssl", "disable_ssl", o.DisableSSL},
	}
	for _, opt := range boolOptions {
		if opt.value == "" {
			continue
		}
		v, err := parseBoolOption(ctx, opt.flag, opt.value)
		if err != nil {
			return err
		}
		options[opt.key] = v
	}
	if o.SSLProtocol != "" {
		options["ssl_protocol"] = o.SSLProtocol
	}
	if len(options) > 0 {
		h.options = options
	}

	if h.Changed["cred"] {
		if len(o.CredNames) == 0 {
			return fail(ctx, messages.SourceCredsEmpty)
		}
		missing, ids, err := ResolveCredentialIDs(ctx, o.CredNames)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fail(ctx, messages.DoesNotExist, "Credential", strings.Join(missing, ", "))
		}
		h.credIDs = ids
	}

	found, id, err := resolveOne(ctx, sourcesPath, o.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, "Source", o.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/", sourcesPath, id)
	return nil
}

func (h *SourceEditHandler) BuildPayload() (any, error) {
	o := &h.Options

	payload := map[string]any{"name": o.Name}
	if h.Changed["hosts"] {
		payload["hosts"] = o.Hosts
	}
	if h.Changed["exclude-hosts"] {
		payload["exclude_hosts"] = o.ExcludeHosts
	}
	if h.Changed["port"] {
		payload["port"] = o.Port
	}
	if h.Changed["cred"] {
		payload["credentials"] = h.credIDs
	}
	if h.options != nil {
		payload["options"] = h.options
	}
	return payload, nil
}

func (h *SourceEditHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceUpdated, "Source", h.Options.Name))
	return nil
}
