// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ekgame/uiua-boo/internal/registry"
)

// terminalObserver prints publish progress and hands the approval page to the
// browser.
type terminalObserver struct {
	out         io.Writer
	browser     BrowserOpener
	openBrowser bool
}

func (o *terminalObserver) AuthorizationRequested(grant *registry.AuthGrant) {
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, "Please approve the application to act on your behalf:")
	fmt.Fprintln(o.out, "- "+LinkStyle.Render(grant.RequestURL))
	fmt.Fprintln(o.out)

	if o.openBrowser {
		if err := o.browser.OpenURL(grant.RequestURL); err != nil {
			slog.Warn("failed to open the approval page", "url", grant.RequestURL, "error", err)
		}
	}
	fmt.Fprintln(o.out, SubtitleStyle.Render("Waiting for approval..."))
}

func (o *terminalObserver) Authorized() {
	printOK(o.out, "Authorization approved")
	printOK(o.out, "Creating publishing job...")
}

func (o *terminalObserver) JobCreated(*registry.Job) {
	printOK(o.out, "Uploading package...")
}

func (o *terminalObserver) ArchiveUploaded(*registry.Job) {
	printOK(o.out, "Package uploaded successfully, waiting for publishing job to complete...")
}

func (o *terminalObserver) JobStatusChanged(job *registry.Job) {
	slog.Debug("publish job status changed", "id", job.ID, "status", job.Status)
}
