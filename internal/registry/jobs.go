// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

const (
	// JobPending means the job was created and awaits its archive.
	JobPending JobStatus = "PENDING"
	// JobQueued means the archive was received and the job awaits a worker.
	JobQueued JobStatus = "QUEUED"
	// JobInProgress means a worker is processing the archive.
	JobInProgress JobStatus = "IN_PROGRESS"
	// JobCompleted means the version was published.
	JobCompleted JobStatus = "COMPLETED"
	// JobFailed means the version was rejected.
	JobFailed JobStatus = "FAILED"

	// ArchiveFormField is the multipart part carrying the uploaded archive.
	ArchiveFormField = "archive"

	resultTypeSuccess = "success"
	resultTypeFailure = "failure"
)

// ErrInvalidJobStatus is the sentinel error wrapped by InvalidJobStatusError.
var ErrInvalidJobStatus = errors.New("invalid job status")

type (
	// JobStatus is the lifecycle state of a publish job.
	JobStatus string

	// InvalidJobStatusError is returned when a JobStatus is not one of the known states.
	InvalidJobStatusError struct {
		Value JobStatus
	}

	// JobID identifies a publish job. The registry may encode it as a JSON number
	// or string; both decode to the same JobID.
	JobID string

	// JobResult is the outcome of a terminal job: JobSucceeded or JobRejected.
	JobResult interface {
		jobResult()
	}

	// JobSucceeded is the result of a completed job.
	JobSucceeded struct{}

	// JobRejected is the result of a failed job with the reasons reported by the registry.
	JobRejected struct {
		Messages []string
	}

	// Job is a publish job. Result is nil until Status is terminal, and may stay nil
	// for a failed job that carries no details.
	Job struct {
		ID      JobID
		Scope   string
		Name    string
		Version string
		Status  JobStatus
		Result  JobResult
	}

	// CreateJobRequest announces the version about to be uploaded.
	CreateJobRequest struct {
		Scope   string `json:"scope"`
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	jobWire struct {
		ID      JobID           `json:"id"`
		Scope   string          `json:"scope"`
		Name    string          `json:"name"`
		Version string          `json:"version"`
		Status  JobStatus       `json:"status"`
		Result  json.RawMessage `json:"result"`
	}

	jobResultWire struct {
		Type   string       `json:"type"`
		Errors []FieldError `json:"errors"`
	}
)

// String returns the string representation of the JobStatus.
func (s JobStatus) String() string { return string(s) }

// Validate returns an *InvalidJobStatusError for unknown states.
func (s JobStatus) Validate() error {
	switch s {
	case JobPending, JobQueued, JobInProgress, JobCompleted, JobFailed:
		return nil
	default:
		return &InvalidJobStatusError{Value: s}
	}
}

// IsTerminal reports whether no further transition happens after s.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Error implements the error interface for InvalidJobStatusError.
func (e *InvalidJobStatusError) Error() string {
	return fmt.Sprintf("invalid job status %q", e.Value)
}

// Unwrap returns ErrInvalidJobStatus for errors.Is() compatibility.
func (e *InvalidJobStatusError) Unwrap() error { return ErrInvalidJobStatus }

// String returns the string representation of the JobID.
func (id JobID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *JobID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("job id must be a string or a number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("job id must be an integer: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

func (JobSucceeded) jobResult() {}
func (JobRejected) jobResult()  {}

// CreatePublishJob registers a publish job for a new version. Requires an access token.
func (c *Client) CreatePublishJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	const op = "creating publish job"

	var wire jobWire
	if err := c.doJSON(ctx, op, http.MethodPost, true, req, &wire, "publish"); err != nil {
		return nil, err
	}
	return wire.toJob(op)
}

// UploadArchive sends the archive as the payload of job id, as the multipart part
// ArchiveFormField named fileName. Requires an access token.
func (c *Client) UploadArchive(ctx context.Context, id JobID, fileName string, archive []byte) (*Job, error) {
	const op = "uploading package archive"
	if !c.HasAccessToken() {
		return nil, ErrNoAccessToken
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", multipart.FileContentDisposition(ArchiveFormField, fileName))
	hdr.Set("Content-Type", "application/gzip")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := part.Write(archive); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reqURL, err := c.endpoint("publish", id.String(), "upload")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var wire jobWire
	if err := c.do(req, op, true, &wire); err != nil {
		return nil, err
	}
	return wire.toJob(op)
}

// PublishJob fetches the current state of job id. Requires an access token.
func (c *Client) PublishJob(ctx context.Context, id JobID) (*Job, error) {
	const op = "polling publish job"

	var wire jobWire
	if err := c.doJSON(ctx, op, http.MethodGet, true, nil, &wire, "publish", id.String()); err != nil {
		return nil, err
	}
	return wire.toJob(op)
}

// toJob enforces the job invariants: a known status, no result before a terminal
// status, and a result that agrees with the status.
func (w *jobWire) toJob(op string) (*Job, error) {
	if err := w.Status.Validate(); err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}
	if w.ID == "" {
		return nil, &ProtocolError{Op: op, Err: errors.New("missing job id")}
	}

	job := &Job{ID: w.ID, Scope: w.Scope, Name: w.Name, Version: w.Version, Status: w.Status}
	if !w.Status.IsTerminal() || len(w.Result) == 0 || string(w.Result) == "null" {
		return job, nil
	}

	var rw jobResultWire
	if err := json.Unmarshal(w.Result, &rw); err != nil {
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("decoding job result: %w", err)}
	}

	switch rw.Type {
	case resultTypeSuccess:
		if w.Status != JobCompleted {
			return nil, &ProtocolError{Op: op, Err: fmt.Errorf("success result on a %s job", w.Status)}
		}
		job.Result = JobSucceeded{}
	case resultTypeFailure:
		if w.Status != JobFailed {
			return nil, &ProtocolError{Op: op, Err: fmt.Errorf("failure result on a %s job", w.Status)}
		}
		msgs := make([]string, 0, len(rw.Errors))
		for _, e := range rw.Errors {
			if m := e.String(); m != "" {
				msgs = append(msgs, m)
			}
		}
		job.Result = JobRejected{Messages: msgs}
	default:
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("unknown job result type %q", rw.Type)}
	}
	return job, nil
}
