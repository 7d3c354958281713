// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ekgame/uiua-boo/internal/registry"
)

// defaultCleanupTimeout bounds the best-effort deletion of an authorization request.
const defaultCleanupTimeout = 10 * time.Second

type (
	// AuthAPI is the part of the registry used by AuthFlow.
	AuthAPI interface {
		CreateAuthRequest(ctx context.Context, req registry.AuthRequest) (*registry.AuthGrant, error)
		AuthRequestStatus(ctx context.Context, privateCode string) (registry.AuthStatus, error)
		DeleteAuthRequest(ctx context.Context, privateCode string) error
	}

	// AuthFlow obtains an access token: it creates an authorization request, polls it
	// until the user approves or denies it or the ceiling is reached, and then deletes
	// the request.
	AuthFlow struct {
		API      AuthAPI
		Clock    Clock
		Interval time.Duration
		Timeout  time.Duration
		Observer Observer

		// CleanupTimeout bounds the deletion call. It runs even after ctx is canceled.
		CleanupTimeout time.Duration
	}
)

// Authorize returns the access token granted for req. Failures are *Failure values:
// KindAuthDenied when the user refused, KindTimedOut when Timeout elapsed first, and
// the registry error kinds otherwise.
func (f *AuthFlow) Authorize(ctx context.Context, req registry.AuthRequest) (string, error) {
	clock, observer := f.clock(), observerOrNop(f.Observer)

	grant, err := f.API.CreateAuthRequest(ctx, req)
	if err != nil {
		return "", FromError("creating authorization request", err)
	}
	defer f.release(ctx, grant.PrivateCode)

	slog.Debug("authorization requested", "public_code", grant.PublicCode, "expires_at", grant.ExpiresAt)
	observer.AuthorizationRequested(grant)

	var (
		token  string
		denied bool
	)
	err = poll(ctx, clock, f.interval(), f.timeout(), func(ctx context.Context) (bool, error) {
		status, err := f.API.AuthRequestStatus(ctx, grant.PrivateCode)
		if err != nil {
			return false, err
		}
		switch s := status.(type) {
		case registry.AuthApproved:
			token = s.AccessToken
			return true, nil
		case registry.AuthDenied:
			denied = true
			return true, nil
		default:
			return false, nil
		}
	})

	switch {
	case errors.Is(err, errCeilingReached):
		return "", timedOut(StageAuthorization, f.timeout())
	case err != nil:
		return "", FromError("polling authorization request", err)
	case denied:
		return "", &Failure{Kind: KindAuthDenied, Message: "the authorization request was denied"}
	}

	observer.Authorized()
	return token, nil
}

// release deletes the authorization request. Failure is only logged: the request
// also expires on the server.
func (f *AuthFlow) release(ctx context.Context, privateCode string) {
	timeout := f.CleanupTimeout
	if timeout <= 0 {
		timeout = defaultCleanupTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := f.API.DeleteAuthRequest(ctx, privateCode); err != nil {
		slog.Warn("failed to delete authorization request", "error", err)
	}
}

func (f *AuthFlow) clock() Clock {
	if f.Clock == nil {
		return SystemClock{}
	}
	return f.Clock
}

func (f *AuthFlow) interval() time.Duration {
	if f.Interval <= 0 {
		return DefaultPollInterval
	}
	return f.Interval
}

func (f *AuthFlow) timeout() time.Duration {
	if f.Timeout <= 0 {
		return DefaultAuthTimeout
	}
	return f.Timeout
}
