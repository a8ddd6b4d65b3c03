// Package client error types for transport failure classification.
//
// Resty surfaces every transport failure as a wrapped *url.Error; the
// command framework needs to distinguish TLS handshake problems (operator
// should check --ssl-verify or --use-http) from plain connectivity problems
// (operator should check host/port). The classifier inspects the error chain
// once, here, so handlers never string-match transport errors themselves.
package client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
)

// TLSError indicates the TLS handshake with the server failed.
type TLSError struct {
	Err error
}

func (e *TLSError) Error() string {
	return fmt.Sprintf("TLS connection failed: %v", e.Err)
}

func (e *TLSError) Unwrap() error { return e.Err }

// ConnectionError indicates the server could not be reached at all:
// DNS failure, connection refused, or timeout.
type ConnectionError struct {
	Server string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to server at %s: %v", e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// classifyTransportError wraps a transport failure as *TLSError or
// *ConnectionError depending on the cause.
func classifyTransportError(err error, server string) error {
	if isTLSError(err) {
		return &TLSError{Err: err}
	}
	return &ConnectionError{Server: server, Err: err}
}

// isTLSError walks the error chain for certificate and handshake failures.
func isTLSError(err error) bool {
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certVerifyErr *tls.CertificateVerificationError
	if errors.As(err, &certVerifyErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certInvalid) {
		return true
	}

	// Go's HTTP client reports some handshake failures only as text
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}
