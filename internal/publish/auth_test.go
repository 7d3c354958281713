// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ekgame/uiua-boo/internal/registry"
	"github.com/ekgame/uiua-boo/internal/testutil"
)

func newAuthFlow(api AuthAPI, clock Clock) *AuthFlow {
	return &AuthFlow{API: api, Clock: clock, Interval: time.Second, Timeout: 300 * time.Second}
}

func TestAuthorize_ApprovedAfterTwoIntervals(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{statuses: []registry.AuthStatus{
		registry.AuthPending{}, registry.AuthPending{}, registry.AuthApproved{AccessToken: "T"},
	}}
	clock := testutil.NewAutoClock()
	start := clock.Now()
	observer := &recordingObserver{}
	flow := newAuthFlow(api, clock)
	flow.Observer = observer

	token, err := flow.Authorize(context.Background(), registry.AuthRequest{AppName: "Boo CLI/test"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if token != "T" {
		t.Errorf("token = %q, want T", token)
	}
	if got := clock.Since(start); got != 2*time.Second {
		t.Errorf("elapsed = %v, want exactly two intervals", got)
	}
	if api.polls != 3 {
		t.Errorf("polls = %d, want 3", api.polls)
	}
	if !slices.Equal(api.deleted, []string{"private"}) {
		t.Errorf("deleted = %v, want the request to be released", api.deleted)
	}
	if want := []string{"requested https://uiua.boo/auth/PUB", "authorized"}; !slices.Equal(observer.events, want) {
		t.Errorf("events = %v, want %v", observer.events, want)
	}
}

func TestAuthorize_Denied(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{statuses: []registry.AuthStatus{registry.AuthPending{}, registry.AuthDenied{}}}
	token, err := newAuthFlow(api, testutil.NewAutoClock()).Authorize(context.Background(), registry.AuthRequest{})

	if !errors.Is(err, KindAuthDenied) {
		t.Fatalf("Authorize() error = %v, want KindAuthDenied", err)
	}
	if token != "" {
		t.Errorf("token = %q, want none", token)
	}
	if len(api.deleted) != 1 {
		t.Error("denied request was not released")
	}
}

func TestAuthorize_TimesOut(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{statuses: []registry.AuthStatus{registry.AuthPending{}}}
	clock := testutil.NewAutoClock()
	start := clock.Now()

	token, err := newAuthFlow(api, clock).Authorize(context.Background(), registry.AuthRequest{})
	if !errors.Is(err, KindTimedOut) {
		t.Fatalf("Authorize() error = %v, want KindTimedOut", err)
	}
	var failure *Failure
	if !errors.As(err, &failure) || failure.Stage != StageAuthorization {
		t.Errorf("failure = %#v, want authorization stage", err)
	}
	if token != "" {
		t.Errorf("token = %q, a timed out flow must not return a token", token)
	}
	if elapsed := clock.Since(start); elapsed <= 300*time.Second {
		t.Errorf("elapsed = %v, want past the ceiling", elapsed)
	}
	if len(api.deleted) != 1 {
		t.Error("timed out request was not released")
	}
}

func TestAuthorize_TimeoutStillHonorsApprovalBeforeCeiling(t *testing.T) {
	t.Parallel()

	statuses := make([]registry.AuthStatus, 0, 301)
	for range 300 {
		statuses = append(statuses, registry.AuthPending{})
	}
	statuses = append(statuses, registry.AuthApproved{AccessToken: "late"})

	api := &fakeAuthAPI{statuses: statuses}
	token, err := newAuthFlow(api, testutil.NewAutoClock()).Authorize(context.Background(), registry.AuthRequest{})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if token != "late" {
		t.Errorf("token = %q", token)
	}
}

func TestAuthorize_RegistryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		api        *fakeAuthAPI
		wantKind   Kind
		wantDelete bool
	}{
		{
			name:     "create fails",
			api:      &fakeAuthAPI{createErr: &registry.NetworkError{Op: "x", Err: errors.New("refused")}},
			wantKind: KindNetwork,
		},
		{
			name: "status protocol violation",
			api: &fakeAuthAPI{statusErr: &registry.ProtocolError{
				Op: "x", Err: errors.New("approved request carries no access token"),
			}},
			wantKind:   KindAPI,
			wantDelete: true,
		},
		{
			name:       "status api error",
			api:        &fakeAuthAPI{statusErr: &registry.APIError{StatusCode: 500, Message: "boom"}},
			wantKind:   KindAPI,
			wantDelete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newAuthFlow(tt.api, testutil.NewAutoClock()).Authorize(context.Background(), registry.AuthRequest{})
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Authorize() error = %v, want %s", err, tt.wantKind)
			}
			if got := len(tt.api.deleted) == 1; got != tt.wantDelete {
				t.Errorf("deleted = %v, want delete %v", tt.api.deleted, tt.wantDelete)
			}
		})
	}
}

func TestAuthorize_DeleteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{
		statuses:  []registry.AuthStatus{registry.AuthApproved{AccessToken: "T"}},
		deleteErr: errors.New("gone"),
	}
	token, err := newAuthFlow(api, testutil.NewAutoClock()).Authorize(context.Background(), registry.AuthRequest{})
	if err != nil || token != "T" {
		t.Fatalf("Authorize() = %q, %v; want T, nil", token, err)
	}
}

func TestAuthorize_CanceledContextStillReleases(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{statuses: []registry.AuthStatus{registry.AuthPending{}}}
	clock := testutil.NewFakeClock(time.Time{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := newAuthFlow(api, clock).Authorize(ctx, registry.AuthRequest{})
		done <- err
	}()

	// Wait for the loop to block on its first interval, then cancel.
	for clock.PendingWaiters() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Authorize() error = %v, want context.Canceled in chain", err)
	}
	if !errors.Is(err, KindNetwork) {
		t.Errorf("Authorize() error = %v, want KindNetwork", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if !slices.Equal(api.deleted, []string{"private"}) {
		t.Errorf("deleted = %v, cleanup must run without the canceled context", api.deleted)
	}
}
