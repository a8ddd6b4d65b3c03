// Package validate provides the enumerated value sets shared between the
// credential, source, and scan command families.
package validate

import (
	"sort"
	"strings"
)

// SourceTypes is the canonical set of credential and source types. A source
// only accepts credentials of its own type, so the two families share it.
var SourceTypes = map[string]bool{
	"network":   true,
	"vcenter":   true,
	"satellite": true,
}

// BecomeMethods is the set of privilege escalation methods accepted on
// network credentials.
var BecomeMethods = map[string]bool{
	"sudo":   true,
	"su":     true,
	"pbrun":  true,
	"pfexec": true,
	"doas":   true,
	"dzdo":   true,
	"ksu":    true,
	"runas":  true,
}

// OptionalProducts is the set of products that scans can disable or target
// with extended search.
var OptionalProducts = map[string]bool{
	"jboss_eap":  true,
	"jboss_fuse": true,
	"jboss_brms": true,
	"jboss_ws":   true,
}

// IsValidSourceType reports whether t names a known source/credential type.
func IsValidSourceType(t string) bool {
	return SourceTypes[t]
}

// IsValidBecomeMethod reports whether m is an accepted escalation method.
func IsValidBecomeMethod(m string) bool {
	return BecomeMethods[m]
}

// IsValidOptionalProduct reports whether p is a known optional product.
func IsValidOptionalProduct(p string) bool {
	return OptionalProducts[p]
}

// SetString renders a membership set as a sorted comma-joined list for
// inclusion in error messages.
func SetString(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// DefaultPort returns the conventional connection port for a source type:
// 22 for network (SSH), 443 for vcenter and satellite (HTTPS).
func DefaultPort(sourceType string) int {
	if sourceType == "network" {
		return 22
	}
	return 443
}
