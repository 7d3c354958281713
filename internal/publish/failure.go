// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekgame/uiua-boo/internal/registry"
	"github.com/ekgame/uiua-boo/pkg/archive"
)

const (
	// KindNetwork is a transport-level failure, including interruption.
	KindNetwork Kind = "network error"
	// KindAPI is a registry error response with a single message, or a response that
	// does not match the wire contract.
	KindAPI Kind = "registry error"
	// KindValidation is a list of problems: local archive issues or a registry
	// multi-error response.
	KindValidation Kind = "validation failed"
	// KindAuth is a missing credential, such as an authenticated call made before
	// authorization completed.
	KindAuth Kind = "not authorized"
	// KindAuthDenied is an explicit denial of the authorization request by the user.
	KindAuthDenied Kind = "authorization denied"
	// KindJobFailed is a publish job that reached the FAILED state.
	KindJobFailed Kind = "publish job failed"
	// KindTimedOut is a polling loop that exceeded its ceiling.
	KindTimedOut Kind = "timed out"
)

// genericJobFailure is reported when a failed job carries no structured result.
const genericJobFailure = "Publishing job failed without details"

const (
	// StageAuthorization identifies the authorization loop in timeout failures.
	StageAuthorization Stage = "authorization"
	// StagePublishJob identifies the publish job loop in timeout failures.
	StagePublishJob Stage = "publish job"
)

type (
	// Kind classifies a Failure. Kind implements error so it can be used as an
	// errors.Is target.
	Kind string

	// Stage names the polling loop a timeout came from.
	Stage string

	// Failure is the single error type returned by this package.
	Failure struct {
		Kind    Kind
		Message string

		// Issues are the local archive validation issues (KindValidation).
		Issues archive.Issues
		// Fields are the registry's validation errors (KindValidation).
		Fields []registry.FieldError
		// Messages are the reasons reported for a failed job (KindJobFailed).
		Messages []string
		// Stage is the loop whose ceiling fired (KindTimedOut).
		Stage Stage

		Err error
	}
)

func (k Kind) Error() string { return string(k) }

func (f *Failure) Error() string { return f.Message }

// Is matches a Kind target against the failure's kind.
func (f *Failure) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == f.Kind
}

func (f *Failure) Unwrap() error { return f.Err }

// Details returns the individual problems carried by the failure, one per line of
// user-facing output.
func (f *Failure) Details() []string {
	var out []string
	for _, i := range f.Issues {
		out = append(out, fmt.Sprintf("[%s] %s", i.Severity, i.Message))
	}
	for _, fe := range f.Fields {
		out = append(out, fe.String())
	}
	out = append(out, f.Messages...)
	return out
}

// FromError maps an error from a registry call into a *Failure. op describes what was
// being attempted, e.g. "creating publish job".
func FromError(op string, err error) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	var (
		netErr   *registry.NetworkError
		apiErr   *registry.APIError
		valErr   *registry.ValidationError
		protoErr *registry.ProtocolError
	)
	switch {
	case errors.Is(err, registry.ErrNoAccessToken):
		return &Failure{Kind: KindAuth, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
	case errors.As(err, &valErr):
		return &Failure{
			Kind:    KindValidation,
			Message: fmt.Sprintf("%s: the registry rejected the request", op),
			Fields:  valErr.Errors,
			Err:     err,
		}
	case errors.As(err, &apiErr):
		return &Failure{Kind: KindAPI, Message: fmt.Sprintf("%s: %s", op, apiErr.Message), Err: err}
	case errors.As(err, &protoErr):
		return &Failure{Kind: KindAPI, Message: fmt.Sprintf("%s: %v", op, protoErr.Err), Err: err}
	case errors.As(err, &netErr):
		return &Failure{Kind: KindNetwork, Message: fmt.Sprintf("%s: %v", op, netErr.Err), Err: err}
	default:
		// Context cancellation and other local I/O failures land here.
		return &Failure{Kind: KindNetwork, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
	}
}

func timedOut(stage Stage, ceiling time.Duration) *Failure {
	return &Failure{
		Kind:    KindTimedOut,
		Message: fmt.Sprintf("timed out after %s waiting for the %s to finish", ceiling, stage),
		Stage:   stage,
	}
}

func jobFailed(messages []string) *Failure {
	if len(messages) == 0 {
		messages = []string{genericJobFailure}
	}
	return &Failure{
		Kind:     KindJobFailed,
		Message:  "the registry rejected the package: " + strings.Join(messages, "; "),
		Messages: messages,
	}
}
