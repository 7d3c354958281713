// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ekgame/uiua-boo/internal/issue"
	"github.com/ekgame/uiua-boo/internal/publish"
	"github.com/ekgame/uiua-boo/pkg/archive"
)

func printOK(w io.Writer, msg string) {
	fmt.Fprintln(w, SuccessStyle.Render(tagOK+" "+msg))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, WarningStyle.Render(tagWarning+" "+msg))
}

func printError(w io.Writer, msg string) {
	fmt.Fprintln(w, ErrorStyle.Render(tagError+" "+msg))
}

// printIssues prints issues in the order given, tagged by severity.
func printIssues(w io.Writer, issues archive.Issues) {
	for _, i := range issues {
		if i.Severity == archive.SeverityError {
			printError(w, i.Message)
		} else {
			printWarning(w, i.Message)
		}
	}
}

// writeIssuesJSON writes issues as a JSON array; no issues is "[]".
func writeIssuesJSON(w io.Writer, issues archive.Issues) error {
	if issues == nil {
		issues = archive.Issues{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	if ae := asActionable(err); ae != nil {
		return ae.Format(verbose)
	}
	return err.Error()
}

func asActionable(err error) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// reportActionable prints ae and, when it points at a catalog entry, the entry's
// guidance.
func reportActionable(w io.Writer, ae *issue.ActionableError, verbose bool) {
	printError(w, ae.Format(verbose))
	renderIssueHelp(w, ae.IssueId)
}

// renderIssueHelp renders catalog guidance with glamour. Rendering problems are
// logged and otherwise ignored.
func renderIssueHelp(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(glamourStyle(w))
	if err != nil {
		slog.Debug("failed to render issue help", "id", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle picks a colored style for terminals and plain text otherwise.
func glamourStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}

// reportFailure prints a publish failure the way each outcome deserves. Summary
// lines go to out; catalog guidance goes to errOut.
func reportFailure(out, errOut io.Writer, err error) {
	f := publish.FromError("publishing", err)

	switch f.Kind {
	case publish.KindAuthDenied:
		printError(out, "App request was denied, stopping.")
	case publish.KindNetwork:
		printError(out, "Network error: "+f.Message)
	case publish.KindAPI, publish.KindAuth:
		printError(out, "API error: "+f.Message)
	case publish.KindTimedOut:
		printError(out, capitalize(f.Message))
	case publish.KindJobFailed:
		printError(out, "Publishing job failed:")
		for _, msg := range f.Messages {
			printError(out, "- "+msg)
		}
	case publish.KindValidation:
		if len(f.Issues) > 0 {
			printIssues(out, f.Issues)
		} else {
			printError(out, "Validation failed: "+f.Message)
			for _, fe := range f.Fields {
				printError(out, "- "+fe.String())
			}
		}
	default:
		printError(out, f.Message)
	}

	renderIssueHelp(errOut, failureIssue(f))
}

// failureIssue picks the catalog entry explaining f.
func failureIssue(f *publish.Failure) issue.Id {
	switch f.Kind {
	case publish.KindAuthDenied:
		return issue.AuthorizationDeniedId
	case publish.KindTimedOut:
		if f.Stage == publish.StageAuthorization {
			return issue.AuthorizationTimedOutId
		}
		return issue.PublishJobTimedOutId
	case publish.KindJobFailed:
		return issue.PublishJobFailedId
	case publish.KindNetwork:
		return issue.RegistryUnreachableId
	case publish.KindValidation:
		if len(f.Issues) > 0 {
			return issue.PackageInvalidId
		}
		return issue.RegistryErrorId
	default:
		return issue.RegistryErrorId
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
