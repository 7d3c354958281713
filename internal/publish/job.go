// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ekgame/uiua-boo/internal/registry"
	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

type (
	// JobAPI is the part of the registry used by JobDriver. Implementations must
	// already carry the access token.
	JobAPI interface {
		CreatePublishJob(ctx context.Context, req registry.CreateJobRequest) (*registry.Job, error)
		UploadArchive(ctx context.Context, id registry.JobID, fileName string, archive []byte) (*registry.Job, error)
		PublishJob(ctx context.Context, id registry.JobID) (*registry.Job, error)
	}

	// JobDriver creates a publish job, uploads the archive, and polls the job until it
	// completes, fails, or the ceiling is reached.
	JobDriver struct {
		API      JobAPI
		Clock    Clock
		Interval time.Duration
		Timeout  time.Duration
		Observer Observer
	}
)

// Run publishes archive as the version described by def and returns the completed job.
// The upload is attempted once. Failures are *Failure values: KindJobFailed with the
// registry's reasons, KindTimedOut when Timeout elapsed first, and the registry error
// kinds otherwise.
func (d *JobDriver) Run(ctx context.Context, def *boopkg.PackageDefinition, archive []byte) (*registry.Job, error) {
	clock, observer := d.clock(), observerOrNop(d.Observer)

	// The status of the freshly created job is informational only.
	job, err := d.API.CreatePublishJob(ctx, registry.CreateJobRequest{
		Scope:   def.Scope(),
		Name:    def.PackageName(),
		Version: def.Version,
	})
	if err != nil {
		return nil, FromError("creating publish job", err)
	}
	slog.Debug("publish job created", "job", job.ID, "status", job.Status)
	observer.JobCreated(job)

	uploaded, err := d.API.UploadArchive(ctx, job.ID, def.ArchiveFileName(), archive)
	if err != nil {
		return nil, FromError("uploading package archive", err)
	}
	observer.ArchiveUploaded(uploaded)

	id, last := job.ID, uploaded.Status
	var final *registry.Job
	err = poll(ctx, clock, d.interval(), d.timeout(), func(ctx context.Context) (bool, error) {
		current, err := d.API.PublishJob(ctx, id)
		if err != nil {
			return false, err
		}
		if current.Status != last {
			slog.Debug("publish job status changed", "job", id, "from", last, "to", current.Status)
			last = current.Status
			observer.JobStatusChanged(current)
		}
		if current.Status.IsTerminal() {
			final = current
			return true, nil
		}
		return false, nil
	})

	switch {
	case errors.Is(err, errCeilingReached):
		return nil, timedOut(StagePublishJob, d.timeout())
	case err != nil:
		return nil, FromError("polling publish job", err)
	case final.Status == registry.JobFailed:
		var messages []string
		if rejected, ok := final.Result.(registry.JobRejected); ok {
			messages = rejected.Messages
		}
		return nil, jobFailed(messages)
	}
	return final, nil
}

func (d *JobDriver) clock() Clock {
	if d.Clock == nil {
		return SystemClock{}
	}
	return d.Clock
}

func (d *JobDriver) interval() time.Duration {
	if d.Interval <= 0 {
		return DefaultPollInterval
	}
	return d.Interval
}

func (d *JobDriver) timeout() time.Duration {
	if d.Timeout <= 0 {
		return DefaultJobTimeout
	}
	return d.Timeout
}
