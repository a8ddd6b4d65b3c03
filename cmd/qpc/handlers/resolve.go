// Name resolution helpers: translate human resource names into server ids.
//
// Each helper issues a single GET against the matching list endpoint with a
// comma-joined name filter, matches the returned results by exact name, and
// reports which input names found no match. Resolution operates on real
// string slices throughout; names are never round-tripped through the
// comma-joined form.
package handlers

import (
	"net/http"
	"strings"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
)

// resolveIDs looks up ids for names against the collection at path. The
// returned ids follow input order; missing carries the names with no exact
// match. On a transport failure or non-200, the localized process error is
// printed and ErrHandled returned.
func resolveIDs(ctx *Context, path string, names []string) (missing []string, ids []int, err error) {
	resp, getErr := ctx.Client.Get(path, map[string]string{"name": strings.Join(names, ",")}, nil)
	if getErr != nil {
		logging.Error("%v", getErr)
		return nil, nil, fail(ctx, messages.NameResolutionErr, strings.Join(names, ","))
	}
	if resp.StatusCode() != http.StatusOK {
		logging.Error("lookup against %s returned %d: %s", path, resp.StatusCode(), resp.Body())
		return nil, nil, fail(ctx, messages.NameResolutionErr, strings.Join(names, ","))
	}

	list, parseErr := client.ParseList(resp)
	if parseErr != nil {
		logging.Error("%v", parseErr)
		return nil, nil, fail(ctx, messages.NameResolutionErr, strings.Join(names, ","))
	}

	byName := make(map[string]int, len(list.Results))
	for _, item := range list.Results {
		byName[itemName(item)] = itemID(item)
	}

	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		} else {
			missing = append(missing, name)
		}
	}
	return missing, ids, nil
}

// ResolveCredentialIDs resolves credential names against /credentials/.
func ResolveCredentialIDs(ctx *Context, names []string) (missing []string, ids []int, err error) {
	return resolveIDs(ctx, credentialsPath, names)
}

// ResolveSourceIDs resolves source names against /sources/.
func ResolveSourceIDs(ctx *Context, names []string) (missing []string, ids []int, err error) {
	return resolveIDs(ctx, sourcesPath, names)
}

// ResolveScan resolves a single scan name to its id.
func ResolveScan(ctx *Context, name string) (found bool, id int, err error) {
	missing, ids, err := resolveIDs(ctx, scansPath, []string{name})
	if err != nil {
		return false, 0, err
	}
	if len(missing) > 0 || len(ids) == 0 {
		return false, 0, nil
	}
	return true, ids[0], nil
}

// resolveOne resolves a single name against a collection, for the edit and
// single-clear flows that address one resource.
func resolveOne(ctx *Context, path, name string) (found bool, id int, err error) {
	missing, ids, err := resolveIDs(ctx, path, []string{name})
	if err != nil {
		return false, 0, err
	}
	if len(missing) > 0 || len(ids) == 0 {
		return false, 0, nil
	}
	return true, ids[0], nil
}
