// Package validate provides the host specifier grammar for qpc sources.
//
// Network sources accept IPv4 addresses, CIDR blocks, Ansible-style bracketed
// ranges, and hostnames; vcenter and satellite sources accept exactly one
// plain hostname or bare IPv4 address. The grammar here is what the server
// enforces, checked client side so a typo fails before a request is sent.
//
// ACCEPTED NETWORK FORMS:
//   - 192.168.0.1            plain IPv4
//   - 192.168.0.0/24         CIDR, prefix length 0-32
//   - 192.168.[1:20].[1:25]  numeric octet ranges
//   - host-1.example.com     hostnames with alphanumeric labels plus - and _
//   - host[1:25].example.com hostnames with numeric or alpha ranges
package validate

import (
	"regexp"
	"strings"
)

const ipOctet = `(25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])`

var (
	ipv4Regex = regexp.MustCompile(`^` + ipOctet + `(\.` + ipOctet + `){3}$`)

	cidrRegex = regexp.MustCompile(`^` + ipOctet + `(\.` + ipOctet + `){3}/(3[0-2]|[12]?[0-9])$`)

	// Octets may individually be replaced by a numeric [start:end] range
	ipRangeRegex = regexp.MustCompile(
		`^(` + ipOctet + `|\[[0-9]+:[0-9]+\])(\.(` + ipOctet + `|\[[0-9]+:[0-9]+\])){3}$`)

	// Hostname labels: alphanumerics plus - and _, optionally containing
	// numeric or alpha (never mixed) bracketed ranges
	hostnameLabel      = `[a-zA-Z0-9_-]+`
	hostnameRangeLabel = `([a-zA-Z0-9_-]|\[[0-9]+:[0-9]+\]|\[[a-z]+:[a-z]+\])+`

	hostnameRegex = regexp.MustCompile(
		`^` + hostnameLabel + `(\.` + hostnameLabel + `)*$`)
	hostnameRangeRegex = regexp.MustCompile(
		`^` + hostnameRangeLabel + `(\.` + hostnameRangeLabel + `)*$`)
)

// IsValidHost reports whether value matches the network source host grammar.
func IsValidHost(value string) bool {
	if value == "" {
		return false
	}
	if ipv4Regex.MatchString(value) || cidrRegex.MatchString(value) {
		return true
	}
	if strings.Contains(value, "/") {
		// Only the CIDR form may carry a slash
		return false
	}
	if ipRangeRegex.MatchString(value) {
		return true
	}
	if strings.ContainsAny(value, "[]") {
		return hostnameRangeRegex.MatchString(value)
	}
	return hostnameRegex.MatchString(value)
}

// IsValidSingleHost reports whether value is acceptable for vcenter and
// satellite sources: a single hostname or bare IPv4, no CIDR and no ranges.
func IsValidSingleHost(value string) bool {
	if value == "" {
		return false
	}
	if strings.ContainsAny(value, "[]/") {
		return false
	}
	return ipv4Regex.MatchString(value) || hostnameRegex.MatchString(value)
}

// ValidateHosts checks every entry of hosts against the grammar for the
// given source type and returns the first offending value, if any.
func ValidateHosts(hosts []string, sourceType string) (string, bool) {
	for _, h := range hosts {
		if sourceType == "network" {
			if !IsValidHost(h) {
				return h, false
			}
			continue
		}
		if !IsValidSingleHost(h) {
			return h, false
		}
	}
	return "", true
}
