package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/config"
)

// scriptPrompter scripts the interactive prompter for tests, recording
// every prompt it answers.
type scriptPrompter struct {
	secrets   []string
	prompts   []string
	continues int
}

func (p *scriptPrompter) PromptSecret(label string) (string, error) {
	p.prompts = append(p.prompts, label)
	if len(p.secrets) == 0 {
		return "", errors.New("no scripted secret for prompt")
	}
	secret := p.secrets[0]
	p.secrets = p.secrets[1:]
	return secret, nil
}

func (p *scriptPrompter) PromptContinue(string) error {
	p.continues++
	return nil
}

// testContext builds a handler context talking to srv.
func testContext(t *testing.T, srv *httptest.Server) (*Context, *scriptPrompter, *bytes.Buffer) {
	t.Helper()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parsing test server port: %v", err)
	}

	cfg := &config.ServerConfig{Host: u.Hostname(), Port: port, UseHTTP: true}
	out := &bytes.Buffer{}
	prompter := &scriptPrompter{}
	ctx := &Context{
		Client:   client.NewAPIClient(cfg, "testtoken"),
		Prompter: prompter,
		Out:      out,
	}
	return ctx, prompter, out
}

// writeList writes a pagination envelope response.
func writeList(w http.ResponseWriter, count int, next string, results []map[string]any) {
	envelope := map[string]any{
		"count":    count,
		"previous": nil,
		"results":  results,
	}
	if next != "" {
		envelope["next"] = next
	} else {
		envelope["next"] = nil
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

// echoHandler is a minimal handler used to exercise the shared runner.
type echoHandler struct {
	Base
	spec     RequestSpec
	rendered bool
}

func (h *echoHandler) Spec() *RequestSpec { return &h.spec }

func (h *echoHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	h.rendered = true
	return nil
}

// TestRunAcceptsConfiguredStatuses tests the success/error split of the
// shared runner
func TestRunAcceptsConfiguredStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		accepted    []int
		expectError bool
	}{
		{name: "matching status succeeds", status: 201, accepted: []int{201}, expectError: false},
		{name: "second accepted status", status: 200, accepted: []int{200, 201}, expectError: false},
		{name: "rejected status handled", status: 400, accepted: []int{201}, expectError: true},
		{name: "server error handled", status: 500, accepted: []int{200}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{}`)
			}))
			defer srv.Close()

			ctx, _, _ := testContext(t, srv)
			h := &echoHandler{spec: RequestSpec{
				Method:       http.MethodPost,
				Path:         "/credentials/",
				SuccessCodes: tt.accepted,
			}}

			err := Run(ctx, h)
			if tt.expectError {
				if !errors.Is(err, ErrHandled) {
					t.Errorf("Run() error = %v, want ErrHandled", err)
				}
				if h.rendered {
					t.Error("HandleSuccess ran for a rejected status")
				}
			} else {
				if err != nil {
					t.Errorf("Run() unexpected error: %v", err)
				}
				if !h.rendered {
					t.Error("HandleSuccess did not run for an accepted status")
				}
			}
		})
	}
}

// failingValidateHandler always rejects its own input.
type failingValidateHandler struct {
	Base
	spec RequestSpec
}

func (h *failingValidateHandler) Spec() *RequestSpec        { return &h.spec }
func (h *failingValidateHandler) Validate(*Context) error   { return ErrHandled }
func (h *failingValidateHandler) HandleSuccess(*Context, *resty.Response) error {
	return nil
}

// TestRunValidateBlocksDispatch verifies no request leaves the client when
// validation fails
func TestRunValidateBlocksDispatch(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	ctx, _, _ := testContext(t, srv)
	h := &failingValidateHandler{spec: RequestSpec{
		Method:       http.MethodPost,
		Path:         "/credentials/",
		SuccessCodes: []int{201},
	}}

	if err := Run(ctx, h); !errors.Is(err, ErrHandled) {
		t.Errorf("Run() error = %v, want ErrHandled", err)
	}
	if requests != 0 {
		t.Errorf("server received %d requests, want 0", requests)
	}
}

// TestPaginateWalksAllPages drives a three-page listing through the
// paginator: every page rendered in order, one continue prompt between
// pages, and the next link's page number reused against the configured
// server rather than the link's own host
func TestPaginateWalksAllPages(t *testing.T) {
	pages := map[string]struct {
		names []string
		next  string
	}{
		// The next links carry a foreign host on purpose.
		"1": {names: []string{"a", "b"}, next: "https://elsewhere.example/api/v1/credentials/?page=2"},
		"2": {names: []string{"c"}, next: "https://elsewhere.example/api/v1/credentials/?page=3"},
		"3": {names: []string{"d"}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		p, ok := pages[page]
		if !ok {
			t.Errorf("unexpected page request %q", page)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		results := make([]map[string]any, 0, len(p.names))
		for i, name := range p.names {
			results = append(results, map[string]any{"id": float64(i + 1), "name": name})
		}
		writeList(w, 4, p.next, results)
	}))
	defer srv.Close()

	ctx, prompter, _ := testContext(t, srv)
	h := NewList("/credentials/", "credentials", nil)

	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	out := ctx.Out.(*bytes.Buffer).String()
	for _, name := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(out, fmt.Sprintf("%q", name)) {
			t.Errorf("output missing result %q", name)
		}
	}

	if prompter.continues != 2 {
		t.Errorf("prompter asked %d times, want 2", prompter.continues)
	}
}

// TestListEmptyCollection verifies the empty listing exits cleanly with
// the none-exist message
func TestListEmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeList(w, 0, "", nil)
	}))
	defer srv.Close()

	ctx, prompter, out := testContext(t, srv)
	if err := Run(ctx, NewList("/sources/", "sources", nil)); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No sources exist yet.") {
		t.Errorf("output = %q, want none-exist message", out.String())
	}
	if prompter.continues != 0 {
		t.Errorf("paginator prompted on an empty listing")
	}
}

// TestPageParam tests page extraction from next links
func TestPageParam(t *testing.T) {
	tests := []struct {
		name        string
		next        string
		expected    string
		expectError bool
	}{
		{name: "simple page", next: "http://server:9443/api/v1/credentials/?page=2", expected: "2"},
		{name: "foreign host ignored", next: "https://other.example/api/v1/sources/?page=17", expected: "17"},
		{name: "extra params", next: "http://s/api/v1/scans/?name=x&page=3", expected: "3"},
		{name: "no page parameter", next: "http://s/api/v1/scans/", expectError: true},
		{name: "unparseable link", next: "://bad", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageParam(tt.next)
			if tt.expectError {
				if err == nil {
					t.Errorf("pageParam(%q) expected error, got %q", tt.next, got)
				}
				return
			}
			if err != nil {
				t.Errorf("pageParam(%q) unexpected error: %v", tt.next, err)
			}
			if got != tt.expected {
				t.Errorf("pageParam(%q) = %q, want %q", tt.next, got, tt.expected)
			}
		})
	}
}

// TestShowFindsExactMatch verifies show selects the exact name from a
// filtered listing that may contain near matches
func TestShowFindsExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeList(w, 2, "", []map[string]any{
			{"id": float64(1), "name": "cred10"},
			{"id": float64(2), "name": "cred1"},
		})
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	if err := Run(ctx, NewShow("/credentials/", "Credential", "cred1")); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"cred1"`) {
		t.Errorf("output = %q, want the cred1 document", out.String())
	}
}

// TestShowMissing verifies show reports a name with no exact match
func TestShowMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeList(w, 1, "", []map[string]any{{"id": float64(1), "name": "cred10"}})
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	err := Run(ctx, NewShow("/credentials/", "Credential", "cred1"))
	if !errors.Is(err, ErrHandled) {
		t.Fatalf("Run() error = %v, want ErrHandled", err)
	}
	if !strings.Contains(out.String(), `Credential "cred1" does not exist.`) {
		t.Errorf("output = %q, want does-not-exist message", out.String())
	}
}
