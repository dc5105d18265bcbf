// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/taibuivan/taxonomy/internal/platform/constants"
)

// CORSConfig defines the behavior needed by the CORS middleware.
type CORSConfig interface {
	IsDevelopment() bool
	Origins() []string
}

// CORS applies Cross-Origin Resource Sharing policy.
//
// Development allows any origin; production restricts to the configured
// origin allow-list (full scheme + host entries, no trailing slash).
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization", constants.HeaderXRequestID},
		ExposedHeaders:   []string{"Content-Length", constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if cfg.IsDevelopment() {
		options.AllowedOrigins = nil
		options.AllowOriginFunc = func(origin string) bool { return true }
	}

	handler := cors.New(options)
	return func(next http.Handler) http.Handler {
		return handler.Handler(next)
	}
}
