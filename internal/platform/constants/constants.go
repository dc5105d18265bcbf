// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Taxonomy Defaults: Popular-tag limits and sibling ordering defaults.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "taxonomy-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Identity Collaborator

const (
	// UserProfilePath is the user-service endpoint that resolves a bearer
	// token into a user profile.
	UserProfilePath = "/api/users/profile"

	// IdentityRequestTimeout caps a single token-verification round trip.
	IdentityRequestTimeout = 5 * time.Second
)

// # Taxonomy Defaults

const (
	// MaxPopularTagsLimit caps the 'limit' query parameter on /tags/popular.
	MaxPopularTagsLimit = 100

	// PopularTagsCacheTTL bounds staleness of the popular-tags cache entry.
	PopularTagsCacheTTL = 60 * time.Second

	// SlugInsertAttempts is how many times a create is retried when the
	// unique slug constraint rejects a concurrently-taken slug.
	SlugInsertAttempts = 3
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError      = "error"
	FieldCode       = "code"
	FieldDetails    = "details"
	FieldMessage    = "message"
	FieldStatus     = "status"
	FieldChecks     = "checks"
	FieldPagination = "pagination"
)

// # Redis Keys (Cache Taxonomy)

const (
	RedisKeyPopularTags = "tags:popular"
)
