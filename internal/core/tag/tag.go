// Package tag implements the flat tag taxonomy.
//
// Tags carry no hierarchy. Their usage count is maintained by the content
// services that reference them; this service only reads it for popularity
// ranking and never mutates it.
package tag

import "time"

// Tag is a flat categorization label.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	UsageCount  int       `json:"usageCount"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when creating a tag.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// UpdateInput carries a partial update. A nil field means "leave unchanged".
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// Filter holds the parameters for a paginated tag search.
type Filter struct {
	// IsActive filters on the active flag. nil applies no filter.
	IsActive *bool
	// Search is a case-insensitive substring match against name or description.
	Search string
	// SortBy is one of name, usage_count, created_at. Anything else falls
	// back to usage_count.
	SortBy string
	// SortDesc orders descending when true.
	SortDesc bool
}

// Field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldColor       = "color"
)

// Validation limits
const (
	MaxNameLen        = 50
	MaxDescriptionLen = 500
)
