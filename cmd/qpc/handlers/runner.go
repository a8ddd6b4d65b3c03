// Package handlers provides the command handlers and shared request
// lifecycle for qpc.
//
// This package contains all the command execution logic for qpc commands,
// organized by resource family for maintainability and clean separation of
// concerns. Each handler file corresponds to a resource family and contains
// all related lifecycle handlers and helper functions:
//   - cred.go:     credential add, edit, show, list, clear
//   - source.go:   source add, edit, show, list, clear
//   - scan.go:     scan add, edit, show, list, clear, start, pause, cancel,
//     restart, and job inspection
//   - report.go:   report details, deployments, merge, merge-status
//   - server.go:   server config, login, logout, status
//   - insights.go: insights upload (thin wrapper over insights-client)
//
// Every handler implements the same lifecycle: validate, build params, build
// payload, dispatch, classify. This file holds the lifecycle contract and
// the shared runner, paginator, and clear-all driver; handlers never open
// sockets themselves.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/cmd/qpc/utils"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// ErrHandled signals that the failure has already been reported to the
// operator; the dispatcher converts it to exit code 1 without reprinting.
var ErrHandled = errors.New("command failed")

// Context carries the capabilities every handler uses: the transport, the
// interactive prompter, and the output writer. The dispatcher constructs
// one per invocation; there is no package-level state.
type Context struct {
	Client   *client.APIClient
	Prompter utils.Prompter
	Out      io.Writer
}

// RequestSpec fixes the wire shape of a command: HTTP method, request path,
// per-request headers, and the statuses treated as success. Validate may
// rewrite Path after resolving a name to a server id.
type RequestSpec struct {
	Method       string
	Path         string
	Headers      map[string]string
	SuccessCodes []int
}

// Handler is the lifecycle every concrete command implements. Commands are
// values implementing this interface; the shared Run function owns control
// flow so no handler talks to the transport directly.
type Handler interface {
	// Spec returns the mutable request shape for this invocation.
	Spec() *RequestSpec

	// Validate rejects malformed input and resolves names to ids. Runs
	// exactly once, before any request is dispatched.
	Validate(ctx *Context) error

	// BuildParams produces the query string map.
	BuildParams() map[string]string

	// BuildPayload produces the JSON request body.
	BuildPayload() (any, error)

	// HandleSuccess renders output for an accepted status.
	HandleSuccess(ctx *Context, resp *resty.Response) error

	// HandleError renders output for a rejected status.
	HandleError(ctx *Context, resp *resty.Response) error
}

// Base provides default lifecycle phases; concrete handlers embed it and
// override what they need.
type Base struct{}

// Validate accepts all input by default.
func (Base) Validate(*Context) error { return nil }

// BuildParams sends no query parameters by default.
func (Base) BuildParams() map[string]string { return nil }

// BuildPayload sends no body by default.
func (Base) BuildPayload() (any, error) { return nil, nil }

// HandleError walks the server's error body and logs each field message.
func (Base) HandleError(ctx *Context, resp *resty.Response) error {
	return ReportServerError(resp)
}

// Run executes the full lifecycle for a handler: validate, build, dispatch,
// classify, render.
func Run(ctx *Context, h Handler) error {
	if err := h.Validate(ctx); err != nil {
		return err
	}

	payload, err := h.BuildPayload()
	if err != nil {
		return err
	}

	spec := h.Spec()
	resp, err := dispatch(ctx, spec, h.BuildParams(), payload)
	if err != nil {
		return reportTransportError(ctx, err)
	}

	if statusAccepted(resp.StatusCode(), spec.SuccessCodes) {
		return h.HandleSuccess(ctx, resp)
	}
	return h.HandleError(ctx, resp)
}

// dispatch routes the request through the transport by method.
func dispatch(ctx *Context, spec *RequestSpec, params map[string]string, payload any) (*resty.Response, error) {
	switch spec.Method {
	case http.MethodGet:
		return ctx.Client.Get(spec.Path, params, spec.Headers)
	case http.MethodPost:
		return ctx.Client.Post(spec.Path, payload)
	case http.MethodPatch:
		return ctx.Client.Patch(spec.Path, payload)
	case http.MethodPut:
		return ctx.Client.Put(spec.Path, payload)
	case http.MethodDelete:
		return ctx.Client.Delete(spec.Path)
	default:
		// Programmer error: a handler registered an unsupported method
		logging.Error("unsupported HTTP method %q for %s", spec.Method, spec.Path)
		return nil, ErrHandled
	}
}

func statusAccepted(status int, accepted []int) bool {
	for _, code := range accepted {
		if status == code {
			return true
		}
	}
	return false
}

// fail prints a catalog message and returns ErrHandled.
func fail(ctx *Context, id messages.ID, args ...any) error {
	display.Line(ctx.Out, messages.Lookup(id, args...))
	return ErrHandled
}

// reportTransportError prints the localized TLS or connection message and
// logs the underlying cause.
func reportTransportError(ctx *Context, err error) error {
	if errors.Is(err, ErrHandled) {
		return err
	}

	var tlsErr *client.TLSError
	if errors.As(err, &tlsErr) {
		logging.Error("%v", tlsErr.Err)
		return fail(ctx, messages.SSLError)
	}

	var connErr *client.ConnectionError
	if errors.As(err, &connErr) {
		logging.Error("%v", connErr.Err)
		return fail(ctx, messages.ConnectionError)
	}

	logging.Error("%v", err)
	return fail(ctx, messages.ConnectionError)
}

// ReportServerError walks a non-2xx response body and logs each message.
// Bodies are typically {"detail": "..."} or {field: ["...", "..."]}.
func ReportServerError(resp *resty.Response) error {
	logging.Error("server returned %d for %s", resp.StatusCode(), resp.Request.URL)

	obj, err := client.ParseObject(resp)
	if err != nil {
		if body := string(resp.Body()); body != "" {
			logging.Error("%s", body)
		}
		return ErrHandled
	}

	for field, value := range obj {
		switch v := value.(type) {
		case string:
			logging.Error("%s: %s", field, v)
		case []any:
			for _, item := range v {
				logging.Error("%s: %v", field, item)
			}
		default:
			logging.Error("%s: %v", field, v)
		}
	}
	return ErrHandled
}

// Paginate iterates the server's next links starting from the already
// fetched first page. Each page of results goes through render; between
// pages the operator confirms through the prompter. Validation does not
// rerun: the loop re-dispatches only the GET with an updated page number.
func Paginate(ctx *Context, spec *RequestSpec, params map[string]string, first *client.ListResponse, render func([]map[string]any)) error {
	if params == nil {
		params = map[string]string{}
	}

	page := first
	for {
		render(page.Results)

		if page.Next == nil {
			return nil
		}

		pageNum, err := pageParam(*page.Next)
		if err != nil {
			logging.Error("cannot parse next link %q: %v", *page.Next, err)
			return ErrHandled
		}
		params["page"] = pageNum

		if err := ctx.Prompter.PromptContinue(messages.Lookup(messages.NextResultsPrompt)); err != nil {
			return err
		}

		resp, err := ctx.Client.Get(spec.Path, params, spec.Headers)
		if err != nil {
			return reportTransportError(ctx, err)
		}
		if !statusAccepted(resp.StatusCode(), spec.SuccessCodes) {
			return ReportServerError(resp)
		}

		page, err = client.ParseList(resp)
		if err != nil {
			logging.Error("%v", err)
			return ErrHandled
		}
	}
}

// pageParam extracts the page query parameter from a next link. The host
// portion of the link is ignored; only the page number is reused.
func pageParam(next string) (string, error) {
	u, err := url.Parse(next)
	if err != nil {
		return "", err
	}
	page := u.Query().Get("page")
	if page == "" {
		return "", errors.New("next link has no page parameter")
	}
	return page, nil
}
