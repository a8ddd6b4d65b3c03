// Package version provides centralized version information for the qpc CLI.
// The version string follows semantic versioning (semver) conventions and is
// surfaced through the root command's --version flag and the User-Agent
// header on every API request.

package version

// QpcVersion holds the current qpc CLI version.
// Format: major.minor.patch[-prerelease][+build]
const QpcVersion = "1.0.0-dev"
