// Shared handlers for the lifecycle phases that are identical across the
// credential, source, and scan families: show by name, filtered listing
// with pagination, and single-resource clear. Only the endpoint path and
// the kind used in messages differ per family.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// ShowHandler fetches a single resource by name and pretty-prints it.
// When the server's name index tolerates near-matches, the exact-name
// match is selected from the results.
type ShowHandler struct {
	Base
	spec RequestSpec

	// Kind is the capitalized resource kind for messages ("Credential").
	Kind string
	Name string
}

// NewShow builds a show handler for the collection at path.
func NewShow(path, kind, name string) *ShowHandler {
	return &ShowHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         path,
			SuccessCodes: []int{http.StatusOK},
		},
		Kind: kind,
		Name: name,
	}
}

func (h *ShowHandler) Spec() *RequestSpec { return &h.spec }

func (h *ShowHandler) BuildParams() map[string]string {
	return map[string]string{"name": h.Name}
}

func (h *ShowHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	list, err := client.ParseList(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}

	for _, item := range list.Results {
		if itemName(item) == h.Name {
			display.JSON(ctx.Out, item)
			return nil
		}
	}
	return fail(ctx, messages.DoesNotExist, h.Kind, h.Name)
}

// ListHandler fetches a filtered collection and walks its pages through the
// paginator, prompting the operator between pages.
type ListHandler struct {
	Base
	spec RequestSpec

	// Plural is the lowercase plural kind for messages ("credentials").
	Plural string
	Params map[string]string
}

// NewList builds a list handler for the collection at path with optional
// filter params (nil entries and empty values are dropped).
func NewList(path, plural string, params map[string]string) *ListHandler {
	filtered := map[string]string{}
	for k, v := range params {
		if v != "" {
			filtered[k] = v
		}
	}
	return &ListHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         path,
			SuccessCodes: []int{http.StatusOK},
		},
		Plural: plural,
		Params: filtered,
	}
}

func (h *ListHandler) Spec() *RequestSpec { return &h.spec }

func (h *ListHandler) BuildParams() map[string]string { return h.Params }

func (h *ListHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	list, err := client.ParseList(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}

	if list.Count == 0 {
		display.Line(ctx.Out, messages.Lookup(messages.NoneExist, h.Plural))
		return nil
	}

	return Paginate(ctx, &h.spec, h.BuildParams(), list, func(results []map[string]any) {
		display.Results(ctx.Out, results)
	})
}

// ClearOneHandler deletes a single named resource: a name lookup followed
// by a DELETE of the resolved id.
type ClearOneHandler struct {
	Base
	spec RequestSpec

	Kind string
	Name string
	path string
}

// NewClearOne builds a single-resource clear handler for the collection at
// path.
func NewClearOne(path, kind, name string) *ClearOneHandler {
	return &ClearOneHandler{
		spec: RequestSpec{
			Method:       http.MethodDelete,
			Path:         path,
			SuccessCodes: []int{http.StatusNoContent},
		},
		Kind: kind,
		Name: name,
		path: path,
	}
}

func (h *ClearOneHandler) Spec() *RequestSpec { return &h.spec }

func (h *ClearOneHandler) Validate(ctx *Context) error {
	found, id, err := resolveOne(ctx, h.path, h.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, h.Kind, h.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/", h.path, id)
	return nil
}

func (h *ClearOneHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceRemoved, h.Kind, h.Name))
	return nil
}

// promptSecret collects one secret through the context's prompter,
// reporting prompt failures (such as a missing TTY) to the operator.
func promptSecret(ctx *Context, label string) (string, error) {
	secret, err := ctx.Prompter.PromptSecret(label)
	if err != nil {
		display.Line(ctx.Out, err.Error())
		return "", ErrHandled
	}
	return secret, nil
}
