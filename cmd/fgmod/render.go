// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"fgmod-cli/internal/issue"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// fail prints err to the command's error stream, followed by the catalog page
// of an ActionableError when it has one, and returns an ExitError that tells
// the root not to print it again.
func (a *App) fail(cmd *cobra.Command, err error) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", errorIcon, formatErrorForDisplay(err, a.verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		renderIssue(stderr, ae.Issue)
	}
	return &ExitError{Code: 1, Err: err, Rendered: true}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their own Format; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(glamourStyle(w))
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle picks the dark style for terminals and plain text otherwise.
func glamourStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return "dark"
		}
	}
	return "notty"
}
