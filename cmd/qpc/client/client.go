// Package client provides the HTTP transport layer for the qpc CLI.
//
// This package implements all communication with the quipucords server REST
// API. It composes full URLs from the persisted server configuration,
// attaches the session token, honors the operator's TLS verification
// settings, and translates transport failures into the typed errors the
// command framework classifies.
//
// API CLIENT ARCHITECTURE:
// The APIClient wraps the Resty HTTP client with qpc-specific behavior:
//   - URL composition: scheme://host:port from server.config plus the request path
//   - Authentication: Authorization: Token <token> header when a session exists
//   - TLS: strict verification by default, or the CA bundle named by ssl_verify
//   - Error translation: TLS handshake and network I/O failures become
//     *TLSError and *ConnectionError for uniform classification upstream
//
// The transport never retries; idempotence is the caller's concern, and
// retries are explicitly the operator's responsibility.
package client

import (
	"crypto/tls"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/config"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/version"
)

// ListResponse is the server's standard paginated collection envelope.
// Results stay as generic documents; the client renders them rather than
// interpreting their fields beyond id/name lookups.
type ListResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []map[string]any `json:"results"`
}

// APIClient wraps the Resty HTTP client for quipucords server communication.
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// restyLogger routes Resty's internal logging through structured logging
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { logging.Error(format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { logging.Warn(format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { logging.Debug(format, v...) }

// NewAPIClient creates an API client against the given server configuration.
// A non-empty token is attached to every request as the bearer header; the
// login command passes the empty string since no session exists yet.
func NewAPIClient(cfg *config.ServerConfig, token string) *APIClient {
	client := resty.New()

	baseURL := cfg.URL() + "/api/v1"

	client.SetLogger(restyLogger{})

	client.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("qpc/%s", version.QpcVersion))

	if token != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Token %s", token))
	}

	// Strict TLS verification unless the operator named a CA bundle; the
	// bundle replaces the system roots rather than loosening verification.
	client.SetTLSClientConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	if cfg.SSLVerify != nil {
		client.SetRootCertificate(*cfg.SSLVerify)
	}

	// Request/response tracing at DEBUG
	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// BaseURL returns the composed API base URL.
func (api *APIClient) BaseURL() string {
	return api.baseURL
}

// Get issues a GET to path with optional query params and header overrides.
func (api *APIClient) Get(path string, params map[string]string, headers map[string]string) (*resty.Response, error) {
	req := api.client.R()
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, classifyTransportError(err, api.baseURL)
	}
	return resp, nil
}

// Post issues a POST to path with the given JSON body.
func (api *APIClient) Post(path string, body any) (*resty.Response, error) {
	req := api.client.R()
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return nil, classifyTransportError(err, api.baseURL)
	}
	return resp, nil
}

// Patch issues a PATCH to path with the given JSON body.
func (api *APIClient) Patch(path string, body any) (*resty.Response, error) {
	resp, err := api.client.R().SetBody(body).Patch(path)
	if err != nil {
		return nil, classifyTransportError(err, api.baseURL)
	}
	return resp, nil
}

// Put issues a PUT to path; body may be nil for action endpoints like
// /jobs/<id>/pause/.
func (api *APIClient) Put(path string, body any) (*resty.Response, error) {
	req := api.client.R()
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Put(path)
	if err != nil {
		return nil, classifyTransportError(err, api.baseURL)
	}
	return resp, nil
}

// Delete issues a DELETE to path.
func (api *APIClient) Delete(path string) (*resty.Response, error) {
	resp, err := api.client.R().Delete(path)
	if err != nil {
		return nil, classifyTransportError(err, api.baseURL)
	}
	return resp, nil
}

// ParseList decodes a paginated collection envelope from a list response.
func ParseList(resp *resty.Response) (*ListResponse, error) {
	var list ListResponse
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("unexpected response format for list: %w", err)
	}
	return &list, nil
}

// ParseObject decodes a single JSON document from a response body.
func ParseObject(resp *resty.Response) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(resp.Body(), &obj); err != nil {
		return nil, fmt.Errorf("unexpected response format for object: %w", err)
	}
	return obj, nil
}
