// Clear-all driver: bulk delete with partial-failure reporting.
//
// Combines the list traversal with a per-item delete fan-out. The driver
// never aborts on the first failed delete; every failure is collected and
// reported together so the operator knows exactly which resources survived.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// ClearAll deletes every resource in the collection at basePath. plural
// names the resource kind in messages ("credentials", "sources", "scans").
//
// Page by page, each item is deleted individually; deletes that do not
// return 204 are logged with the server's error body and remembered. An
// empty collection and any failed delete both exit 1.
func ClearAll(ctx *Context, basePath, plural string) error {
	params := map[string]string{}
	var failures []string
	firstPage := true

	for {
		resp, err := ctx.Client.Get(basePath, params, nil)
		if err != nil {
			return reportTransportError(ctx, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return ReportServerError(resp)
		}

		list, err := client.ParseList(resp)
		if err != nil {
			logging.Error("%v", err)
			return ErrHandled
		}

		if firstPage && list.Count == 0 {
			return fail(ctx, messages.NoneExistToRemove, plural)
		}
		firstPage = false

		for _, item := range list.Results {
			id := itemID(item)
			name := itemName(item)

			dresp, derr := ctx.Client.Delete(fmt.Sprintf("%s%d/", basePath, id))
			if derr != nil {
				return reportTransportError(ctx, derr)
			}
			if dresp.StatusCode() != http.StatusNoContent {
				logging.Error("failed to remove %q (id %d): %s", name, id, dresp.Body())
				failures = append(failures, name)
			}
		}

		if list.Next == nil {
			break
		}
		pageNum, err := pageParam(*list.Next)
		if err != nil {
			logging.Error("cannot parse next link %q: %v", *list.Next, err)
			return ErrHandled
		}
		params["page"] = pageNum
	}

	if len(failures) > 0 {
		return fail(ctx, messages.ClearAllPartial, plural, plural, strings.Join(failures, ", "))
	}
	display.Line(ctx.Out, messages.Lookup(messages.ClearAllSuccess, plural))
	return nil
}

// itemID extracts the server-assigned integer id from a result document.
func itemID(item map[string]any) int {
	if f, ok := item["id"].(float64); ok {
		return int(f)
	}
	return 0
}

// itemName extracts the name from a result document.
func itemName(item map[string]any) string {
	if s, ok := item["name"].(string); ok {
		return s
	}
	return ""
}
