package tag

import "context"

// Repository is the persistence contract for tags.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]*Tag, int, error)
	Get(ctx context.Context, id string) (*Tag, error)
	Create(ctx context.Context, t *Tag) error
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id string) error

	// Popular returns active tags ordered by (usage_count desc, name asc).
	Popular(ctx context.Context, limit int) ([]*Tag, error)

	// SlugExists reports whether slug is taken, optionally excluding one id.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}
