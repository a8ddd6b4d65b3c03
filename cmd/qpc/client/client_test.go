package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/quipucords/qpc/cmd/qpc/config"
)

// testConfig builds a ServerConfig pointing at an httptest server
func testConfig(t *testing.T, ts *httptest.Server) *config.ServerConfig {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return &config.ServerConfig{
		Host:    u.Hostname(),
		Port:    port,
		UseHTTP: u.Scheme == "http",
	}
}

// TestBaseURL verifies scheme, host, port and API prefix composition
func TestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.ServerConfig
		expected string
	}{
		{
			name:     "https default",
			cfg:      &config.ServerConfig{Host: "qpc.example.com", Port: 9443},
			expected: "https://qpc.example.com:9443/api/v1",
		},
		{
			name:     "plain http",
			cfg:      &config.ServerConfig{Host: "10.0.0.5", Port: 8000, UseHTTP: true},
			expected: "http://10.0.0.5:8000/api/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := NewAPIClient(tt.cfg, "")
			if api.BaseURL() != tt.expected {
				t.Errorf("BaseURL() = %q, want %q", api.BaseURL(), tt.expected)
			}
		})
	}
}

// TestAuthorizationHeader verifies the token header is attached iff a token exists
func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{
			name:     "token attached",
			token:    "opaque-token",
			expected: "Token opaque-token",
		},
		{
			name:     "no header without token",
			token:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
			}))
			defer ts.Close()

			api := NewAPIClient(testConfig(t, ts), tt.token)
			if _, err := api.Get("/credentials/", nil, nil); err != nil {
				t.Fatalf("Get() error: %v", err)
			}

			if gotAuth != tt.expected {
				t.Errorf("Authorization header = %q, want %q", gotAuth, tt.expected)
			}
		})
	}
}

// TestQueryParamsAndPath verifies URL composition
func TestQueryParamsAndPath(t *testing.T) {
	var gotPath, gotName string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	api := NewAPIClient(testConfig(t, ts), "tok")
	if _, err := api.Get("/sources/", map[string]string{"name": "s1"}, nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if gotPath != "/api/v1/sources/" {
		t.Errorf("request path = %q, want %q", gotPath, "/api/v1/sources/")
	}
	if gotName != "s1" {
		t.Errorf("name query param = %q, want %q", gotName, "s1")
	}
}

// TestHeaderOverride verifies per-request Accept header overrides
func TestHeaderOverride(t *testing.T) {
	var gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("raw,csv,bytes"))
	}))
	defer ts.Close()

	api := NewAPIClient(testConfig(t, ts), "tok")
	resp, err := api.Get("/reports/1/details/", nil, map[string]string{"Accept": "text/csv"})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if gotAccept != "text/csv" {
		t.Errorf("Accept header = %q, want %q", gotAccept, "text/csv")
	}
	if string(resp.Body()) != "raw,csv,bytes" {
		t.Errorf("body = %q, want raw bytes", resp.Body())
	}
}

// TestStatusPassThrough verifies the transport returns responses on any HTTP status
func TestStatusPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"created", 201},
		{"no content", 204},
		{"bad request", 400},
		{"server error", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			api := NewAPIClient(testConfig(t, ts), "tok")
			resp, err := api.Post("/credentials/", map[string]any{"name": "c"})
			if err != nil {
				t.Fatalf("Post() error: %v", err)
			}
			if resp.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode(), tt.status)
			}
		})
	}
}

// TestConnectionError verifies network failures become *ConnectionError
func TestConnectionError(t *testing.T) {
	// Grab a port with no listener behind it
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := testConfig(t, ts)
	ts.Close()

	api := NewAPIClient(cfg, "tok")
	_, err := api.Get("/status/", nil, nil)
	if err == nil {
		t.Fatal("Get() against closed port succeeded")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Errorf("error type = %T, want *ConnectionError", err)
	}
}

// TestTLSError verifies handshake failures become *TLSError
func TestTLSError(t *testing.T) {
	// Self-signed TLS server with strict client verification enabled
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	cfg := testConfig(t, ts)
	cfg.UseHTTP = false

	api := NewAPIClient(cfg, "tok")
	_, err := api.Get("/status/", nil, nil)
	if err == nil {
		t.Fatal("Get() against self-signed server succeeded with strict verification")
	}

	var tlsErr *TLSError
	if !errors.As(err, &tlsErr) {
		t.Errorf("error type = %T (%v), want *TLSError", err, err)
	}
}

// TestParseList verifies the pagination envelope decoding
func TestParseList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":2,"next":"https://x/api/v1/credentials/?page=2","previous":null,` +
			`"results":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`))
	}))
	defer ts.Close()

	api := NewAPIClient(testConfig(t, ts), "tok")
	resp, err := api.Get("/credentials/", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	list, err := ParseList(resp)
	if err != nil {
		t.Fatalf("ParseList() error: %v", err)
	}
	if list.Count != 2 || len(list.Results) != 2 {
		t.Errorf("ParseList() count = %d results = %d, want 2 and 2", list.Count, len(list.Results))
	}
	if list.Next == nil || !strings.Contains(*list.Next, "page=2") {
		t.Errorf("ParseList() next = %v, want page=2 URL", list.Next)
	}
	if list.Previous != nil {
		t.Errorf("ParseList() previous = %v, want nil", list.Previous)
	}
}
