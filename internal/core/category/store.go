package category

import "context"

// Repository is the persistence contract for categories.
//
// ChildrenOf is the adjacency query the service's tree traversal is built
// on; the repository itself performs no recursive queries.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]*Category, int, error)
	Get(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error

	// HasChildren reports whether any category references id as its parent.
	HasChildren(ctx context.Context, id string) (bool, error)

	// ChildrenOf returns the direct children of all the given parents,
	// ordered by sort_order (then name) ascending.
	ChildrenOf(ctx context.Context, parentIDs []string) ([]*Category, error)

	// SetParent updates only parent_id and updated_at, returning the
	// refreshed row.
	SetParent(ctx context.Context, id string, parentID *string) (*Category, error)

	// SlugExists reports whether slug is taken, optionally excluding one id
	// (for update-in-place recomputation).
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}
