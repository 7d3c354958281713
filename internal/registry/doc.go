// SPDX-License-Identifier: MPL-2.0

// Package registry is the HTTP client for the boo package registry API.
//
// The client is an explicit value: every caller receives the *Client it should use,
// and authenticated calls go through a copy returned by WithAccessToken. Nothing is
// shared through package-level state.
//
// Failures are typed. Transport problems are *NetworkError, non-2xx responses are
// *APIError or *ValidationError depending on the body, responses that break the wire
// contract are *ProtocolError, and authenticated calls made without a token fail with
// ErrNoAccessToken before any request is sent.
package registry
