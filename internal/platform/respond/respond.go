// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response across the application follows a strict, predictable JSON
// envelope: single entities are keyed by their resource name
// ({"category": {...}}), lists carry a "pagination" block, and errors carry
// a message plus machine-readable code. This consistency is crucial for
// frontend SPAs and sibling services to parse data robustly.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/constants"
	"github.com/taibuivan/taxonomy/internal/platform/ctxutil"
	"github.com/taibuivan/taxonomy/pkg/pagination"
)

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Entity writes a 200 OK response with the entity keyed by its resource name.
//
// Example: respond.Entity(w, "category", cat) → {"category": {...}}
func Entity(writer http.ResponseWriter, key string, entity interface{}) {
	JSON(writer, http.StatusOK, map[string]interface{}{key: entity})
}

// Created writes a 201 Created response with the entity keyed by its resource name.
func Created(writer http.ResponseWriter, key string, entity interface{}) {
	JSON(writer, http.StatusCreated, map[string]interface{}{key: entity})
}

// List writes a 200 OK response with the page of entities and a pagination block.
//
// Example: respond.List(w, "tags", tags, meta)
// → {"tags": [...], "pagination": {"page": 1, "limit": 50, "total": 3, "pages": 1}}
func List(writer http.ResponseWriter, key string, entities interface{}, meta pagination.Meta) {
	JSON(writer, http.StatusOK, map[string]interface{}{
		key:                       entities,
		constants.FieldPagination: meta,
	})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client for security.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
