// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/identity"
)

func newClient(t *testing.T, handler http.HandlerFunc) *identity.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return identity.NewClient(server.URL, slog.New(slog.DiscardHandler))
}

func TestVerifyToken_ResolvesUser(t *testing.T) {
	var capturedAuth string
	client := newClient(t, func(writer http.ResponseWriter, request *http.Request) {
		capturedAuth = request.Header.Get("Authorization")
		assert.Equal(t, "/api/users/profile", request.URL.Path)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"user":{"id":"user-1","email":"jane@example.com","username":"jane","role":"editor"}}`))
	})

	user, err := client.VerifyToken(context.Background(), "opaque-token")

	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", capturedAuth)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, identity.RoleEditor, user.Role)
}

func TestVerifyToken_InvalidToken(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyToken(context.Background(), "revoked")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
	assert.Equal(t, "Invalid token", appError.Message)
}

func TestVerifyToken_UpstreamFailure(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.VerifyToken(context.Background(), "any")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
	assert.Equal(t, "Authentication failed", appError.Message)
}

func TestVerifyToken_Unreachable(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // refuse all connections
	client := identity.NewClient(server.URL, slog.New(slog.DiscardHandler))

	_, err := client.VerifyToken(context.Background(), "any")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
	assert.Equal(t, "Authentication failed", appError.Message)
}

func TestVerifyToken_MalformedBody(t *testing.T) {
	client := newClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte("not json"))
	})

	_, err := client.VerifyToken(context.Background(), "any")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}
