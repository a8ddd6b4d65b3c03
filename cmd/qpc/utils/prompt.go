// Package utils provides utility functions for the qpc CLI.
// This file contains the interactive prompter used for secret collection
// and pagination confirmation.
package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/quipucords/qpc/internal/messages"
)

// Prompter collects interactive input from the operator. Handlers receive a
// Prompter through the command context so tests can script the interaction.
type Prompter interface {
	// PromptSecret reads a line with echo suppressed. The empty string is a
	// valid return; edit commands interpret it as "no change".
	PromptSecret(label string) (string, error)

	// PromptContinue blocks until the operator presses Enter. Used only by
	// the paginator between pages.
	PromptContinue(label string) error
}

// TerminalPrompter reads from the controlling terminal.
type TerminalPrompter struct{}

// PromptSecret reads a secret from the terminal without echo. Fails when no
// terminal is attached: silently substituting empty input for a required
// secret is forbidden.
func (TerminalPrompter) PromptSecret(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New(messages.Lookup(messages.PromptNoTTY))
	}

	fmt.Print(label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // Terminate the line the suppressed echo left open
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// PromptContinue prints the label and waits for Enter (or EOF).
func (TerminalPrompter) PromptContinue(label string) error {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	if _, err := reader.ReadString('\n'); err != nil {
		// EOF is a legitimate end of interaction, not a failure
		return nil
	}
	return nil
}
