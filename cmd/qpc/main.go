// Package main provides the entry point for the qpc CLI.
//
// qpc is the client for the quipucords inspection server. The binary wires
// together the command tree, the shared request lifecycle, and the local
// configuration store:
//   - commands/: cobra command definitions and flag setup per resource
//     family (server, cred, source, scan, report, insights)
//   - handlers/: input validation, the request lifecycle, pagination, and
//     output rendering
//   - client/: the authenticated REST transport
//   - config/: persisted server connection settings and the session token
//
// Exit codes: 0 on success, 1 when a command reports a failure, 2 when the
// command line itself is rejected.
package main

import (
	"os"

	"github.com/quipucords/qpc/cmd/qpc/commands"
)

func main() {
	os.Exit(commands.Execute())
}
