// SPDX-License-Identifier: MPL-2.0

// Package publish drives a package version through the registry: an authorization
// handoff (AuthFlow), then a publish job (JobDriver), composed by Publisher.
//
// Every step runs sequentially with at most one registry call in flight. The two
// polling loops each have their own interval and ceiling, measured with an injectable
// Clock. A ceiling stops further polling but never cancels a call already in flight.
//
// Every failure is reported as a *Failure whose Kind is one of a small closed set, so
// callers can branch with errors.Is(err, publish.KindTimedOut) and friends. Nothing is
// retried automatically.
package publish
