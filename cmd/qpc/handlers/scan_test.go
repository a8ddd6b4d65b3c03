package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestScanAddPayload verifies the create payload: resolved source ids and
// the nested options object
func TestScanAddPayload(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/sources/"):
			writeList(w, 2, "", []map[string]any{
				{"id": float64(8), "name": "src2"},
				{"id": float64(3), "name": "src1"},
			})
		case r.Method == http.MethodPost:
			json.NewDecoder(r.Body).Decode(&payload)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	h := NewScanAdd(ScanOptions{
		Name:             "weekly",
		SourceNames:      []string{"src1", "src2"},
		MaxConcurrency:   25,
		DisabledProducts: []string{"jboss_fuse"},
		EnabledExtSearch: []string{"jboss_eap"},
		ExtSearchDirs:    []string{"/opt/apps"},
	}, map[string]bool{
		"max-concurrency":            true,
		"disabled-optional-products": true,
		"enabled-ext-product-search": true,
		"ext-product-search-dirs":    true,
	})

	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if payload["name"] != "weekly" {
		t.Errorf("payload name = %v, want weekly", payload["name"])
	}
	sources, _ := payload["sources"].([]any)
	if len(sources) != 2 || sources[0] != float64(3) || sources[1] != float64(8) {
		t.Errorf("payload sources = %v, want [3 8] in input order", sources)
	}

	options, _ := payload["options"].(map[string]any)
	if options["max_concurrency"] != float64(25) {
		t.Errorf("options max_concurrency = %v, want 25", options["max_concurrency"])
	}
	disabled, _ := options["disabled_optional_products"].(map[string]any)
	if disabled["jboss_fuse"] != true {
		t.Errorf("disabled products = %v, want jboss_fuse true", disabled)
	}
	search, _ := options["enabled_extended_product_search"].(map[string]any)
	if search["jboss_eap"] != true {
		t.Errorf("extended search = %v, want jboss_eap true", search)
	}
	dirs, _ := search["search_directories"].([]any)
	if len(dirs) != 1 || dirs[0] != "/opt/apps" {
		t.Errorf("search directories = %v, want [/opt/apps]", dirs)
	}

	if !strings.Contains(out.String(), `Scan "weekly" was added.`) {
		t.Errorf("output = %q, want added message", out.String())
	}
}

// TestScanAddValidation tests usage failures that must block any request
func TestScanAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		opts     ScanOptions
		changed  map[string]bool
		expected string
	}{
		{
			name:     "no sources",
			opts:     ScanOptions{Name: "s"},
			expected: "Scan sources cannot be an empty list.",
		},
		{
			name: "unknown product",
			opts: ScanOptions{
				Name: "s", SourceNames: []string{"src1"},
				DisabledProducts: []string{"jboss_amq"},
			},
			expected: `Product "jboss_amq" is not valid`,
		},
		{
			name: "relative search dir",
			opts: ScanOptions{
				Name: "s", SourceNames: []string{"src1"},
				ExtSearchDirs: []string{"apps"},
			},
			expected: "Search directory apps must be an absolute path.",
		},
		{
			name: "zero concurrency",
			opts: ScanOptions{
				Name: "s", SourceNames: []string{"src1"}, MaxConcurrency: 0,
			},
			changed:  map[string]bool{"max-concurrency": true},
			expected: "Max concurrency must be a positive integer.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("request dispatched despite validation failure")
			}))
			defer srv.Close()

			ctx, _, out := testContext(t, srv)
			changed := tt.changed
			if changed == nil {
				changed = map[string]bool{}
			}
			err := Run(ctx, NewScanAdd(tt.opts, changed))
			if !errors.Is(err, ErrHandled) {
				t.Fatalf("Run() error = %v, want ErrHandled", err)
			}
			if !strings.Contains(out.String(), tt.expected) {
				t.Errorf("output = %q, want substring %q", out.String(), tt.expected)
			}
		})
	}
}

// TestScanStart verifies start resolves the scan, posts a job, and reports
// the new job id
func TestScanStart(t *testing.T) {
	var jobsPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeList(w, 1, "", []map[string]any{{"id": float64(4), "name": "weekly"}})
		case http.MethodPost:
			jobsPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 11, "scan_type": "inspect"})
		}
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	if err := Run(ctx, NewScanStart("weekly")); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if jobsPath != "/api/v1/scans/4/jobs/" {
		t.Errorf("POST path = %q, want /api/v1/scans/4/jobs/", jobsPath)
	}
	if !strings.Contains(out.String(), `Scan "11" started.`) {
		t.Errorf("output = %q, want started message with job id", out.String())
	}
}

// TestScanJobActions tests the pause, cancel, and restart transitions
func TestScanJobActions(t *testing.T) {
	tests := []struct {
		name     string
		build    func(int) *ScanJobActionHandler
		path     string
		expected string
	}{
		{name: "pause", build: NewScanPause, path: "/api/v1/jobs/7/pause/", expected: `Scan job "7" paused.`},
		{name: "cancel", build: NewScanCancel, path: "/api/v1/jobs/7/cancel/", expected: `Scan job "7" canceled.`},
		{name: "restart", build: NewScanRestart, path: "/api/v1/jobs/7/restart/", expected: `Scan job "7" restarted.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var putPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("unexpected %s request", r.Method)
				}
				putPath = r.URL.Path
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			ctx, _, out := testContext(t, srv)
			if err := Run(ctx, tt.build(7)); err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			if putPath != tt.path {
				t.Errorf("PUT path = %q, want %q", putPath, tt.path)
			}
			if !strings.Contains(out.String(), tt.expected) {
				t.Errorf("output = %q, want %q", out.String(), tt.expected)
			}
		})
	}
}

// TestScanJobIDStatusConflict verifies the id and status filters are
// mutually exclusive
func TestScanJobIDStatusConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request dispatched despite conflicting filters")
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	h := NewScanJob("", 7, "running", map[string]bool{"id": true, "status": true})
	err := Run(ctx, h)
	if !errors.Is(err, ErrHandled) {
		t.Fatalf("Run() error = %v, want ErrHandled", err)
	}
	if !strings.Contains(out.String(), "The --status filter cannot be used with --id") {
		t.Errorf("output = %q, want conflict message", out.String())
	}
}

// TestScanJobByID verifies a single job is fetched directly and printed
func TestScanJobByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/jobs/11/" {
			t.Errorf("GET path = %q, want /api/v1/jobs/11/", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 11, "status": "running"})
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	h := NewScanJob("", 11, "", map[string]bool{"id": true})
	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"running"`) {
		t.Errorf("output = %q, want the job document", out.String())
	}
}

// TestScanJobListWithStatus verifies listing a scan's jobs passes the
// status filter through
func TestScanJobListWithStatus(t *testing.T) {
	var statusFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/jobs/") {
			statusFilter = r.URL.Query().Get("status")
			writeList(w, 1, "", []map[string]any{{"id": float64(11), "status": "completed"}})
			return
		}
		writeList(w, 1, "", []map[string]any{{"id": float64(4), "name": "weekly"}})
	}))
	defer srv.Close()

	ctx, _, out := testContext(t, srv)
	h := NewScanJob("weekly", 0, "completed", map[string]bool{"status": true})
	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if statusFilter != "completed" {
		t.Errorf("status filter = %q, want completed", statusFilter)
	}
	if !strings.Contains(out.String(), `"completed"`) {
		t.Errorf("output = %q, want the job listing", out.String())
	}
}
