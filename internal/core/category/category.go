// Package category implements the hierarchical category taxonomy.
//
// Categories form a forest: every category optionally references a parent,
// roots have no parent, and the parent graph must stay acyclic. All
// structural mutations flow through the service in this package, which
// validates the acyclic invariant before anything touches storage.
package category

import "time"

// Category is a node in the category forest.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ParentID    *string   `json:"parentId"`
	Color       *string   `json:"color"`
	Icon        *string   `json:"icon"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Node is a hierarchy row annotated with its distance from the queried root.
type Node struct {
	Category
	Depth int `json:"depth"`
}

// CreateInput carries the fields accepted when creating a category.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	SortOrder   int     `json:"sortOrder"`
}

// UpdateInput carries a partial update. A nil field means "leave unchanged";
// the parent reference is deliberately absent — re-parenting has its own
// cycle-checked operation.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

// ReparentInput carries the target parent for a hierarchy update.
// A nil ParentID promotes the category to a root.
type ReparentInput struct {
	ParentID *string `json:"parentId"`
}

// Filter holds the parameters for a paginated category search.
type Filter struct {
	// ParentID filters to direct children of one category.
	ParentID *string
	// RootOnly filters to categories without a parent. Mutually exclusive
	// with ParentID.
	RootOnly bool
	// IsActive filters on the active flag. nil applies no filter.
	IsActive *bool
	// Search is a case-insensitive substring match against name or description.
	Search string
	// SortBy is one of name, sort_order, created_at. Anything else falls
	// back to sort_order.
	SortBy string
	// SortDesc orders descending when true.
	SortDesc bool
}

// Field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldParentID    = "parentId"
	FieldColor       = "color"
	FieldIcon        = "icon"
	FieldSortOrder   = "sortOrder"
)

// Validation limits
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
	MaxIconLen        = 50
)
