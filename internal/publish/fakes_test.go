// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"sync"

	"github.com/ekgame/uiua-boo/internal/registry"
)

// fakeAuthAPI answers status polls from a script. Once the script is exhausted the
// last status repeats.
type fakeAuthAPI struct {
	mu        sync.Mutex
	createErr error
	statuses  []registry.AuthStatus
	statusErr error
	deleteErr error

	polls   int
	deleted []string
}

func (f *fakeAuthAPI) CreateAuthRequest(_ context.Context, _ registry.AuthRequest) (*registry.AuthGrant, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &registry.AuthGrant{PrivateCode: "private", PublicCode: "PUB", RequestURL: "https://uiua.boo/auth/PUB"}, nil
}

func (f *fakeAuthAPI) AuthRequestStatus(_ context.Context, _ string) (registry.AuthStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.polls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	i := min(f.polls-1, len(f.statuses)-1)
	return f.statuses[i], nil
}

func (f *fakeAuthAPI) DeleteAuthRequest(ctx context.Context, privateCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ctx.Err() != nil {
		return errors.New("cleanup ran with a canceled context")
	}
	f.deleted = append(f.deleted, privateCode)
	return f.deleteErr
}

// fakeJobAPI answers job polls from a script of jobs.
type fakeJobAPI struct {
	mu        sync.Mutex
	createErr error
	uploadErr error
	jobs      []*registry.Job
	pollErr   error

	uploads []string
	polls   int
}

func (f *fakeJobAPI) CreatePublishJob(_ context.Context, req registry.CreateJobRequest) (*registry.Job, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &registry.Job{ID: "7", Scope: req.Scope, Name: req.Name, Version: req.Version, Status: registry.JobCompleted}, nil
}

func (f *fakeJobAPI) UploadArchive(_ context.Context, id registry.JobID, fileName string, _ []byte) (*registry.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads = append(f.uploads, fileName)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &registry.Job{ID: id, Status: registry.JobQueued}, nil
}

func (f *fakeJobAPI) PublishJob(_ context.Context, _ registry.JobID) (*registry.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.polls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	i := min(f.polls-1, len(f.jobs)-1)
	return f.jobs[i], nil
}

func job(status registry.JobStatus, result registry.JobResult) *registry.Job {
	return &registry.Job{ID: "7", Status: status, Result: result}
}

// recordingObserver collects the notifications it receives.
type recordingObserver struct {
	events []string
}

func (r *recordingObserver) AuthorizationRequested(g *registry.AuthGrant) {
	r.events = append(r.events, "requested "+g.RequestURL)
}
func (r *recordingObserver) Authorized() { r.events = append(r.events, "authorized") }
func (r *recordingObserver) JobCreated(j *registry.Job) {
	r.events = append(r.events, "created "+j.ID.String())
}
func (r *recordingObserver) ArchiveUploaded(j *registry.Job) {
	r.events = append(r.events, "uploaded "+j.Status.String())
}
func (r *recordingObserver) JobStatusChanged(j *registry.Job) {
	r.events = append(r.events, "status "+j.Status.String())
}
