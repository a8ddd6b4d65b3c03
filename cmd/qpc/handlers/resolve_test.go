package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestResolveIDsOrderAndMissing verifies ids come back in input order and
// unmatched names are reported
func TestResolveIDsOrderAndMissing(t *testing.T) {
	var nameFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nameFilter = r.URL.Query().Get("name")
		writeList(w, 2, "", []map[string]any{
			{"id": float64(9), "name": "beta"},
			{"id": float64(4), "name": "alpha"},
		})
	}))
	defer srv.Close()

	ctx, _, _ := testContext(t, srv)
	missing, ids, err := ResolveCredentialIDs(ctx, []string{"alpha", "ghost", "beta"})
	if err != nil {
		t.Fatalf("ResolveCredentialIDs() unexpected error: %v", err)
	}

	if nameFilter != "alpha,ghost,beta" {
		t.Errorf("name filter = %q, want comma-joined input", nameFilter)
	}
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 9 {
		t.Errorf("ids = %v, want [4 9] in input order", ids)
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v, want [ghost]", missing)
	}
}

// TestResolveIDsServerError verifies a failed lookup prints the process
// error and stops
func TestResolveIDsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	_, _, err := ResolveSourceIDs(ctx, []string{"s1"})
	if !errors.Is(err, ErrHandled) {
		t.Fatalf("ResolveSourceIDs() error = %v, want ErrHandled", err)
	}
	if !strings.Contains(out.String(), "An error occurred while processing") {
		t.Errorf("output = %q, want process error message", out.String())
	}
}

// TestResolveScan tests the single-scan lookup
func TestResolveScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeList(w, 1, "", []map[string]any{{"id": float64(12), "name": "weekly"}})
	}))
	defer srv.Close()

	ctx, _, _ := testContext(t, srv)

	found, id, err := ResolveScan(ctx, "weekly")
	if err != nil || !found || id != 12 {
		t.Errorf("ResolveScan(weekly) = (%v, %d, %v), want (true, 12, nil)", found, id, err)
	}

	found, _, err = ResolveScan(ctx, "nightly")
	if err != nil || found {
		t.Errorf("ResolveScan(nightly) = (%v, _, %v), want (false, _, nil)", found, err)
	}
}
