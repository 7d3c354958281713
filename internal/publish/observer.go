// SPDX-License-Identifier: MPL-2.0

package publish

import "github.com/ekgame/uiua-boo/internal/registry"

type (
	// Observer is notified as the publish sequence progresses. Calls happen on the
	// publishing goroutine, in order; implementations must not block for long.
	Observer interface {
		// AuthorizationRequested is called once the user can approve the request at
		// grant.RequestURL.
		AuthorizationRequested(grant *registry.AuthGrant)
		// Authorized is called when the request was approved.
		Authorized()
		// JobCreated is called after the publish job was registered.
		JobCreated(job *registry.Job)
		// ArchiveUploaded is called after the registry accepted the archive.
		ArchiveUploaded(job *registry.Job)
		// JobStatusChanged is called whenever polling observes a new job status.
		JobStatusChanged(job *registry.Job)
	}

	// NopObserver ignores every notification.
	NopObserver struct{}
)

func (NopObserver) AuthorizationRequested(*registry.AuthGrant) {}
func (NopObserver) Authorized()                               {}
func (NopObserver) JobCreated(*registry.Job)                  {}
func (NopObserver) ArchiveUploaded(*registry.Job)             {}
func (NopObserver) JobStatusChanged(*registry.Job)            {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
