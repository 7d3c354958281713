// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/ekgame/uiua-boo/internal/registry"
	"github.com/ekgame/uiua-boo/pkg/archive"
	"github.com/ekgame/uiua-boo/pkg/boopkg"
)

type (
	// Publisher runs the whole publish sequence: local validation, authorization, and
	// the publish job. It stops at the first failure.
	Publisher struct {
		appName     string
		auth        AuthAPI
		jobs        func(token string) JobAPI
		clock       Clock
		interval    time.Duration
		authTimeout time.Duration
		jobTimeout  time.Duration
		observer    Observer
		rules       archive.Rules
	}

	// PublisherOption configures a Publisher during construction.
	PublisherOption func(*Publisher)

	// Request is one version to publish: its manifest and the archive built from it.
	Request struct {
		Definition *boopkg.PackageDefinition
		Archive    []byte
	}
)

// WithClock sets the clock used by both polling loops.
func WithClock(c Clock) PublisherOption {
	return func(p *Publisher) {
		p.clock = c
	}
}

// WithPollInterval sets the wait between two status checks.
func WithPollInterval(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.interval = d
	}
}

// WithAuthTimeout sets the ceiling of the authorization loop.
func WithAuthTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.authTimeout = d
	}
}

// WithJobTimeout sets the ceiling of the publish job loop.
func WithJobTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.jobTimeout = d
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) PublisherOption {
	return func(p *Publisher) {
		p.observer = o
	}
}

// WithRules sets the archive limits checked before anything is sent.
func WithRules(r archive.Rules) PublisherOption {
	return func(p *Publisher) {
		p.rules = r
	}
}

// NewPublisher creates a Publisher backed by client. Authenticated calls use copies of
// client carrying the granted token.
func NewPublisher(client *registry.Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		appName:     client.UserAgent(),
		auth:        client,
		jobs:        func(token string) JobAPI { return client.WithAccessToken(token) },
		clock:       SystemClock{},
		interval:    DefaultPollInterval,
		authTimeout: DefaultAuthTimeout,
		jobTimeout:  DefaultJobTimeout,
		observer:    NopObserver{},
		rules:       archive.DefaultRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish validates req.Archive against the manifest it is published as, obtains an
// access token, and runs the publish job. The returned error is always a *Failure.
func (p *Publisher) Publish(ctx context.Context, req Request) (*registry.Job, error) {
	def := req.Definition
	if def == nil {
		return nil, &Failure{Kind: KindValidation, Message: "no package definition to publish"}
	}
	if err := def.Validate(); err != nil {
		return nil, &Failure{Kind: KindValidation, Message: fmt.Sprintf("invalid package definition: %v", err), Err: err}
	}

	rules := p.rules.WithExpectations(def.Name, def.Version)
	if issues := archive.Validate(req.Archive, rules); issues.HasErrors() {
		return nil, &Failure{
			Kind:    KindValidation,
			Message: "the package archive failed validation",
			Issues:  issues.Sorted(),
		}
	}

	auth := &AuthFlow{
		API:      p.auth,
		Clock:    p.clock,
		Interval: p.interval,
		Timeout:  p.authTimeout,
		Observer: p.observer,
	}
	token, err := auth.Authorize(ctx, registry.AuthRequest{
		AppName:              p.appName,
		RequestedPermissions: []string{def.Permission()},
	})
	if err != nil {
		return nil, err
	}

	driver := &JobDriver{
		API:      p.jobs(token),
		Clock:    p.clock,
		Interval: p.interval,
		Timeout:  p.jobTimeout,
		Observer: p.observer,
	}
	return driver.Run(ctx, def, req.Archive)
}
