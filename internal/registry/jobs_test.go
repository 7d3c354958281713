// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"testing"
)

func TestJobStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []JobStatus{JobPending, JobQueued, JobInProgress, JobCompleted, JobFailed} {
		if err := s.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v", s, err)
		}
	}
	if !JobCompleted.IsTerminal() || !JobFailed.IsTerminal() || JobInProgress.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}

	err := JobStatus("DONE").Validate()
	if !errors.Is(err, ErrInvalidJobStatus) {
		t.Errorf("Validate() = %v, want ErrInvalidJobStatus", err)
	}
}

func TestJobID_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    JobID
		wantErr bool
	}{
		{`"abc"`, "abc", false},
		{`17`, "17", false},
		{`1.5`, "", true},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		var id JobID
		err := json.Unmarshal([]byte(tt.in), &id)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if id != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
		}
	}
}

func TestJobWire_Results(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		want      JobResult
		wantProto bool
	}{
		{"in progress drops result", `{"id":1,"status":"IN_PROGRESS","result":{"type":"success"}}`, nil, false},
		{"completed", `{"id":1,"status":"COMPLETED","result":{"type":"success"}}`, JobSucceeded{}, false},
		{"failed with messages", `{"id":1,"status":"FAILED","result":{"type":"failure","errors":["bad file",{"message":"too big"}]}}`,
			JobRejected{Messages: []string{"bad file", "too big"}}, false},
		{"failed without result", `{"id":1,"status":"FAILED","result":null}`, nil, false},
		{"completed with failure", `{"id":1,"status":"COMPLETED","result":{"type":"failure","errors":[]}}`, nil, true},
		{"failed with success", `{"id":1,"status":"FAILED","result":{"type":"success"}}`, nil, true},
		{"unknown result type", `{"id":1,"status":"FAILED","result":{"type":"maybe"}}`, nil, true},
		{"unknown status", `{"id":1,"status":"DONE"}`, nil, true},
		{"missing id", `{"status":"QUEUED"}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var wire jobWire
			if err := json.Unmarshal([]byte(tt.body), &wire); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			job, err := wire.toJob("test")
			if tt.wantProto {
				var protoErr *ProtocolError
				if !errors.As(err, &protoErr) {
					t.Fatalf("toJob() error = %v, want ProtocolError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("toJob() error = %v", err)
			}

			switch want := tt.want.(type) {
			case nil:
				if job.Result != nil {
					t.Errorf("Result = %#v, want nil", job.Result)
				}
			case JobRejected:
				got, ok := job.Result.(JobRejected)
				if !ok || !slices.Equal(got.Messages, want.Messages) {
					t.Errorf("Result = %#v, want %#v", job.Result, want)
				}
			default:
				if job.Result != tt.want {
					t.Errorf("Result = %#v, want %#v", job.Result, tt.want)
				}
			}
		})
	}
}

func TestCreatePublishJob(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/publish" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var req CreateJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req != (CreateJobRequest{Scope: "ekgame", Name: "boo", Version: "1.0.0"}) {
			t.Errorf("request = %+v", req)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": "job-1", "scope": "ekgame", "name": "boo", "version": "1.0.0", "status": "PENDING",
		})
	})

	job, err := c.WithAccessToken("tok").CreatePublishJob(context.Background(),
		CreateJobRequest{Scope: "ekgame", Name: "boo", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("CreatePublishJob() error = %v", err)
	}
	if job.ID != "job-1" || job.Status != JobPending || job.Name != "boo" {
		t.Errorf("job = %+v", job)
	}
}

func TestUploadArchive(t *testing.T) {
	t.Parallel()

	archive := []byte("\x1f\x8b fake gzip")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/publish/job-1/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		file, hdr, err := r.FormFile(ArchiveFormField)
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != string(archive) {
			t.Errorf("uploaded %q, want %q", data, archive)
		}
		if hdr.Filename != "ekgame-boo-1.0.0.tar.gz" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "application/gzip" {
			t.Errorf("part content type = %q", ct)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"id": "job-1", "status": "QUEUED"})
	})

	job, err := c.WithAccessToken("tok").UploadArchive(context.Background(), "job-1", "ekgame-boo-1.0.0.tar.gz", archive)
	if err != nil {
		t.Fatalf("UploadArchive() error = %v", err)
	}
	if job.Status != JobQueued {
		t.Errorf("Status = %s, want QUEUED", job.Status)
	}
}
