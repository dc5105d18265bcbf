// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity resolves bearer tokens against the external user service.

The taxonomy service does not implement any authentication protocol itself.
Privileged requests carry an opaque bearer token which is forwarded, as-is,
to the user service's profile endpoint. That service is the single source of
truth for identity and role assignment.

Architecture:

  - Client: Thin HTTP collaborator with a bounded per-call timeout.
  - User: The resolved principal (id, email, username, role).
  - Role: Hierarchical comparison used by the authorization middleware.
*/
package identity

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/constants"
)

// Verifier resolves a bearer token into an authenticated [*User].
//
// # Why an interface?
//
// The middleware and handlers depend on this interface rather than the
// concrete HTTP client, so tests can inject a stub verifier.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}

// Client verifies tokens by calling the user service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds an identity client for the user service at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.IdentityRequestTimeout,
		},
		logger: logger,
	}
}

// profileEnvelope mirrors the user service's profile response body.
type profileEnvelope struct {
	User User `json:"user"`
}

// VerifyToken forwards the token to GET {baseURL}/api/users/profile.
//
// # Error Mapping
//
//   - 401 from the user service → "Invalid token" (401).
//   - Any other failure (transport error, non-200) → "Authentication failed" (401).
//
// Both cases deliberately collapse into 401 so clients cannot distinguish a
// revoked token from a degraded identity service.
func (client *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+constants.UserProfilePath, nil)
	if err != nil {
		return nil, apperr.Unauthorized("Authentication failed")
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Warn("identity_service_unreachable", slog.Any("error", err))
		return nil, apperr.Unauthorized("Authentication failed")
	}
	defer func() { _ = response.Body.Close() }()

	switch {
	case response.StatusCode == http.StatusUnauthorized:
		return nil, apperr.Unauthorized("Invalid token")
	case response.StatusCode != http.StatusOK:
		client.logger.Warn("identity_service_error", slog.Int("status", response.StatusCode))
		return nil, apperr.Unauthorized("Authentication failed")
	}

	var envelope profileEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, apperr.Unauthorized("Authentication failed")
	}

	return &envelope.User, nil
}
