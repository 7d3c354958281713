// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	authStatusPending  = "PENDING"
	authStatusApproved = "APPROVED"
	authStatusDenied   = "DENIED"
)

type (
	// AuthRequest asks the registry to let the user grant this application a set of
	// permissions.
	AuthRequest struct {
		AppName              string   `json:"app_name"`
		RequestedPermissions []string `json:"requested_permissions"`
	}

	// AuthGrant is the registry's answer to an AuthRequest. PrivateCode identifies the
	// request when polling; RequestURL is where the user approves or denies it.
	AuthGrant struct {
		PrivateCode string
		PublicCode  string
		ExpiresAt   time.Time
		RequestURL  string
	}

	// AuthStatus is the state of an authorization request: AuthPending, AuthApproved,
	// or AuthDenied.
	AuthStatus interface {
		fmt.Stringer
		authStatus()
	}

	// AuthPending means the user has not answered yet.
	AuthPending struct{}

	// AuthApproved carries the access token issued on approval.
	AuthApproved struct {
		AccessToken string
	}

	// AuthDenied means the user rejected the request.
	AuthDenied struct{}

	authGrantWire struct {
		PrivateCode string `json:"private_code"`
		PublicCode  string `json:"public_code"`
		ExpiresAt   string `json:"expires_at"`
		RequestURL  string `json:"request_url"`
	}

	authStatusWire struct {
		Status      string  `json:"status"`
		ExpiresAt   string  `json:"expires_at"`
		AccessToken *string `json:"access_token"`
	}
)

func (AuthPending) authStatus()  {}
func (AuthApproved) authStatus() {}
func (AuthDenied) authStatus()   {}

func (AuthPending) String() string  { return "pending" }
func (AuthApproved) String() string { return "approved" }
func (AuthDenied) String() string   { return "denied" }

// CreateAuthRequest registers a new authorization request.
func (c *Client) CreateAuthRequest(ctx context.Context, req AuthRequest) (*AuthGrant, error) {
	const op = "creating authorization request"

	var wire authGrantWire
	if err := c.doJSON(ctx, op, http.MethodPost, false, req, &wire, "auth", "request"); err != nil {
		return nil, err
	}
	if wire.PrivateCode == "" || wire.RequestURL == "" {
		return nil, &ProtocolError{Op: op, Err: errors.New("missing private_code or request_url")}
	}

	return &AuthGrant{
		PrivateCode: wire.PrivateCode,
		PublicCode:  wire.PublicCode,
		ExpiresAt:   parseTimestamp(wire.ExpiresAt),
		RequestURL:  wire.RequestURL,
	}, nil
}

// AuthRequestStatus fetches the current state of the request identified by privateCode.
// An approved status without an access token, or a token on any other status, is a
// *ProtocolError.
func (c *Client) AuthRequestStatus(ctx context.Context, privateCode string) (AuthStatus, error) {
	const op = "polling authorization request"

	var wire authStatusWire
	if err := c.doJSON(ctx, op, http.MethodGet, false, nil, &wire, "auth", "request", privateCode); err != nil {
		return nil, err
	}

	hasToken := wire.AccessToken != nil && *wire.AccessToken != ""
	switch wire.Status {
	case authStatusApproved:
		if !hasToken {
			return nil, &ProtocolError{Op: op, Err: errors.New("approved request carries no access token")}
		}
		return AuthApproved{AccessToken: *wire.AccessToken}, nil
	case authStatusPending, authStatusDenied:
		if hasToken {
			return nil, &ProtocolError{Op: op, Err: fmt.Errorf("%s request carries an access token", wire.Status)}
		}
		if wire.Status == authStatusDenied {
			return AuthDenied{}, nil
		}
		return AuthPending{}, nil
	default:
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("unknown status %q", wire.Status)}
	}
}

// DeleteAuthRequest releases the request identified by privateCode.
func (c *Client) DeleteAuthRequest(ctx context.Context, privateCode string) error {
	return c.doJSON(ctx, "deleting authorization request", http.MethodDelete, false, nil, nil,
		"auth", "request", privateCode)
}

// parseTimestamp accepts RFC 3339 timestamps with or without fractional seconds.
// Unparseable values yield the zero time; expiry is informational only.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}
