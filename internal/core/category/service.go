package category

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/constants"
	"github.com/taibuivan/taxonomy/internal/platform/dberr"
	"github.com/taibuivan/taxonomy/internal/platform/validate"
	"github.com/taibuivan/taxonomy/pkg/slug"
	"github.com/taibuivan/taxonomy/pkg/uuid"
)

// slugRetryDelay spaces out re-inserts after a unique-constraint loss.
const slugRetryDelay = 25 * time.Millisecond

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Category, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

func (service *Service) Get(ctx context.Context, id string) (*Category, error) {
	found, err := service.repo.Get(ctx, id)
	if err != nil {
		return nil, service.mapNotFound(err)
	}
	return found, nil
}

// Create validates the input, resolves a unique slug, and inserts the row.
//
// The slug pre-check and the insert are not atomic under concurrent
// creators; the unique index on the slug column is the final arbiter, and a
// constraint rejection triggers a bounded re-generate-and-retry.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Category, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, MaxNameLen)
	validateOptionalFields(validator, input.Description, input.Color, input.Icon)
	validator.Min(FieldSortOrder, input.SortOrder, 0)

	if input.ParentID != nil {
		validator.UUID(FieldParentID, *input.ParentID)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Dangling parent references produce a clear 404 here rather than a
	// storage-level FK rejection.
	if input.ParentID != nil {
		if _, err := service.repo.Get(ctx, *input.ParentID); err != nil {
			return nil, service.mapParentNotFound(err)
		}
	}

	var created *Category
	backoff := retry.WithMaxRetries(constants.SlugInsertAttempts-1, retry.NewConstant(slugRetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		categorySlug, err := slug.Unique(ctx, input.Name, service.slugChecker(""))
		if err != nil {
			if errors.Is(err, slug.ErrEmpty) {
				return validate.RequiredError(FieldName, "Name must contain at least one letter or digit")
			}
			return err
		}

		candidate := &Category{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        categorySlug,
			Description: input.Description,
			ParentID:    input.ParentID,
			Color:       input.Color,
			Icon:        input.Icon,
			SortOrder:   input.SortOrder,
			IsActive:    true,
		}

		if err := service.repo.Create(ctx, candidate); err != nil {
			// Lost a slug race: regenerate against the fresh namespace state.
			if dberr.IsUniqueViolation(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		created = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", created.ID),
		slog.String("slug", created.Slug),
	)
	return created, nil
}

// Update applies a partial update with merge semantics: nil input fields
// leave the stored value unchanged. The slug is recomputed only when the
// name changes, excluding the category's own slug from the uniqueness check.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Category, error) {
	existing, err := service.repo.Get(ctx, id)
	if err != nil {
		return nil, service.mapNotFound(err)
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, MaxNameLen)
	}
	validateOptionalFields(validator, input.Description, input.Color, input.Icon)
	if input.SortOrder != nil {
		validator.Min(FieldSortOrder, *input.SortOrder, 0)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
		newSlug, err := slug.Unique(ctx, *input.Name, service.slugChecker(id))
		if err != nil {
			if errors.Is(err, slug.ErrEmpty) {
				return nil, validate.RequiredError(FieldName, "Name must contain at least one letter or digit")
			}
			return nil, err
		}
		existing.Slug = newSlug
	}
	if input.Description != nil {
		existing.Description = input.Description
	}
	if input.Color != nil {
		existing.Color = input.Color
	}
	if input.Icon != nil {
		existing.Icon = input.Icon
	}
	if input.SortOrder != nil {
		existing.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := service.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	service.logger.Info("category_updated", slog.String("category_id", id))
	return existing, nil
}

// Delete removes a childless category. Categories that still have children
// must have them re-parented or removed first.
func (service *Service) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.Get(ctx, id); err != nil {
		return service.mapNotFound(err)
	}

	hasChildren, err := service.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperr.Conflict("Cannot delete category with children. Move or delete children first.")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return service.mapNotFound(err)
	}

	service.logger.Warn("category_deleted", slog.String("category_id", id))
	return nil
}

// Hierarchy returns the descendant closure of rootID, each node annotated
// with its depth (0 = root), ordered by (depth, sort_order) ascending.
//
// A nonexistent root yields an empty tree, not an error.
func (service *Service) Hierarchy(ctx context.Context, rootID string) ([]*Node, error) {
	root, err := service.repo.Get(ctx, rootID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return []*Node{}, nil
		}
		return nil, err
	}

	nodes := []*Node{{Category: *root, Depth: 0}}
	visited := map[string]bool{root.ID: true}
	frontier := []string{root.ID}

	// Breadth-first expansion: one adjacency query per depth level. The
	// visited set keeps a corrupt parent chain from wedging the traversal.
	for depth := 1; len(frontier) > 0; depth++ {
		children, err := service.repo.ChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			nodes = append(nodes, &Node{Category: *child, Depth: depth})
			frontier = append(frontier, child.ID)
		}
	}

	return nodes, nil
}

// Reparent moves a category under a new parent (or to the root when
// parentID is nil), rejecting any move that would close a cycle.
//
// The check computes the descendant closure of id — id itself included —
// and refuses the move when the candidate parent appears in it.
func (service *Service) Reparent(ctx context.Context, id string, parentID *string) (*Category, error) {
	if _, err := service.repo.Get(ctx, id); err != nil {
		return nil, service.mapNotFound(err)
	}

	if parentID != nil {
		validator := &validate.Validator{}
		validator.UUID(FieldParentID, *parentID)
		if err := validator.Err(); err != nil {
			return nil, err
		}

		if _, err := service.repo.Get(ctx, *parentID); err != nil {
			return nil, service.mapParentNotFound(err)
		}

		closure, err := service.descendantClosure(ctx, id)
		if err != nil {
			return nil, err
		}
		if closure[*parentID] {
			return nil, apperr.Conflict("Cannot set parent to a descendant category")
		}
	}

	updated, err := service.repo.SetParent(ctx, id, parentID)
	if err != nil {
		return nil, service.mapNotFound(err)
	}

	service.logger.Info("category_reparented",
		slog.String("category_id", id),
		slog.Any("parent_id", parentID),
	)
	return updated, nil
}

// descendantClosure returns the set of ids reachable from id by following
// child edges, including id itself.
func (service *Service) descendantClosure(ctx context.Context, id string) (map[string]bool, error) {
	closure := map[string]bool{id: true}
	frontier := []string{id}

	for len(frontier) > 0 {
		children, err := service.repo.ChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if closure[child.ID] {
				continue
			}
			closure[child.ID] = true
			frontier = append(frontier, child.ID)
		}
	}

	return closure, nil
}

// slugChecker builds the namespace existence check for [slug.Unique],
// excluding excludeID when recomputing a slug in place.
func (service *Service) slugChecker(excludeID string) slug.Checker {
	return func(ctx context.Context, candidate string) (bool, error) {
		return service.repo.SlugExists(ctx, candidate, excludeID)
	}
}

// mapNotFound rewrites the storage layer's generic not-found into the
// resource-specific message clients see.
func (service *Service) mapNotFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Category")
	}
	return err
}

func (service *Service) mapParentNotFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Parent category")
	}
	return err
}

// validateOptionalFields applies the shared optional-field rules for both
// create and update payloads. Empty strings are allowed and clear the field.
func validateOptionalFields(validator *validate.Validator, description, color, icon *string) {
	if description != nil {
		validator.MaxLen(FieldDescription, *description, MaxDescriptionLen)
	}
	if color != nil && *color != "" {
		validator.HexColor(FieldColor, *color)
	}
	if icon != nil {
		validator.MaxLen(FieldIcon, *icon, MaxIconLen)
	}
}
