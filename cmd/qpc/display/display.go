// Package display provides output formatting for qpc command results.
//
// The server's resources are opaque JSON documents to this client, so the
// canonical rendering is pretty-printed JSON on stdout. Confirmation lines
// and prompts also pass through here so every handler writes to the same
// configured writer, which tests capture.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/quipucords/qpc/internal/logging"
)

// JSON pretty-prints v to w with two-space indentation.
func JSON(w io.Writer, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(w, "Error encoding JSON output")
	}
}

// Results pretty-prints a page of list results.
func Results(w io.Writer, results []map[string]any) {
	JSON(w, results)
}

// Line writes a single user-facing line to w.
func Line(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}
