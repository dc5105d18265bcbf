package tag

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/constants"
	"github.com/taibuivan/taxonomy/internal/platform/dberr"
	"github.com/taibuivan/taxonomy/internal/platform/validate"
	"github.com/taibuivan/taxonomy/pkg/slug"
	"github.com/taibuivan/taxonomy/pkg/uuid"
)

const slugRetryDelay = 25 * time.Millisecond

type Service struct {
	repo Repository

	// cache is the volatile store behind Popular. It may be nil, in which
	// case every popularity query goes straight to the repository.
	cache *redis.Client

	// defaultPopularLimit is the list size when callers pass limit <= 0.
	defaultPopularLimit int

	logger *slog.Logger
}

func NewService(repo Repository, cache *redis.Client, defaultPopularLimit int, logger *slog.Logger) *Service {
	if defaultPopularLimit <= 0 || defaultPopularLimit > constants.MaxPopularTagsLimit {
		defaultPopularLimit = constants.MaxPopularTagsLimit
	}
	return &Service{
		repo:                repo,
		cache:               cache,
		defaultPopularLimit: defaultPopularLimit,
		logger:              logger,
	}
}

func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Tag, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

func (service *Service) Get(ctx context.Context, id string) (*Tag, error) {
	found, err := service.repo.Get(ctx, id)
	if err != nil {
		return nil, service.mapNotFound(err)
	}
	return found, nil
}

// Create validates the input, resolves a unique slug, and inserts the row.
// Tags and categories slug independently; a tag may share a slug with a
// category but never with another tag.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Tag, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, MaxNameLen)
	validateOptionalFields(validator, input.Description, input.Color)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var created *Tag
	backoff := retry.WithMaxRetries(constants.SlugInsertAttempts-1, retry.NewConstant(slugRetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tagSlug, err := slug.Unique(ctx, input.Name, service.slugChecker(""))
		if err != nil {
			if errors.Is(err, slug.ErrEmpty) {
				return validate.RequiredError(FieldName, "Name must contain at least one letter or digit")
			}
			return err
		}

		candidate := &Tag{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        tagSlug,
			Description: input.Description,
			Color:       input.Color,
			UsageCount:  0,
			IsActive:    true,
		}

		if err := service.repo.Create(ctx, candidate); err != nil {
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

	service.invalidatePopular(ctx)
	service.logger.Info("tag_created",
		slog.String("tag_id", created.ID),
		slog.String("slug", created.Slug),
	)
	return created, nil
}

// Update applies a partial update with merge semantics: nil input fields
// leave the stored value unchanged. The slug is recomputed only when the
// name changes, excluding the tag's own slug from the uniqueness check.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Tag, error) {
	existing, err := service.repo.Get(ctx, id)
	if err != nil {
		return nil, service.mapNotFound(err)
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, MaxNameLen)
	}
	validateOptionalFields(validator, input.Description, input.Color)
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
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := service.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	service.invalidatePopular(ctx)
	service.logger.Info("tag_updated", slog.String("tag_id", id))
	return existing, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if _, err := service.repo.Get(ctx, id); err != nil {
		return service.mapNotFound(err)
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return service.mapNotFound(err)
	}

	service.invalidatePopular(ctx)
	service.logger.Warn("tag_deleted", slog.String("tag_id", id))
	return nil
}

// Popular returns active tags ordered by (usage_count desc, name asc),
// served from a short-TTL cache when one is configured.
//
// The cache holds the top MaxPopularTagsLimit rows under a single key, so
// any requested limit is a slice of the cached list. A cache failure is
// logged and the query falls through to the repository.
func (service *Service) Popular(ctx context.Context, limit int) ([]*Tag, error) {
	if limit <= 0 {
		limit = service.defaultPopularLimit
	}
	if limit > constants.MaxPopularTagsLimit {
		limit = constants.MaxPopularTagsLimit
	}

	if cached, ok := service.popularFromCache(ctx); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	tags, err := service.repo.Popular(ctx, constants.MaxPopularTagsLimit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*Tag{}
	}

	service.storePopular(ctx, tags)

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (service *Service) popularFromCache(ctx context.Context) ([]*Tag, bool) {
	if service.cache == nil {
		return nil, false
	}

	payload, err := service.cache.Get(ctx, constants.RedisKeyPopularTags).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			service.logger.Warn("popular_tags_cache_read_failed", slog.Any("error", err))
		}
		return nil, false
	}

	var tags []*Tag
	if err := json.Unmarshal(payload, &tags); err != nil {
		service.logger.Warn("popular_tags_cache_corrupt", slog.Any("error", err))
		return nil, false
	}
	return tags, true
}

func (service *Service) storePopular(ctx context.Context, tags []*Tag) {
	if service.cache == nil {
		return
	}

	payload, err := json.Marshal(tags)
	if err != nil {
		service.logger.Warn("popular_tags_cache_encode_failed", slog.Any("error", err))
		return
	}

	if err := service.cache.Set(ctx, constants.RedisKeyPopularTags, payload, constants.PopularTagsCacheTTL).Err(); err != nil {
		service.logger.Warn("popular_tags_cache_write_failed", slog.Any("error", err))
	}
}

// invalidatePopular drops the cached popularity list after a mutation. The
// TTL already bounds staleness, so a failed delete is only logged.
func (service *Service) invalidatePopular(ctx context.Context) {
	if service.cache == nil {
		return
	}

	if err := service.cache.Del(ctx, constants.RedisKeyPopularTags).Err(); err != nil {
		service.logger.Warn("popular_tags_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) slugChecker(excludeID string) slug.Checker {
	return func(ctx context.Context, candidate string) (bool, error) {
		return service.repo.SlugExists(ctx, candidate, excludeID)
	}
}

func (service *Service) mapNotFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Tag")
	}
	return err
}

func validateOptionalFields(validator *validate.Validator, description, color *string) {
	if description != nil {
		validator.MaxLen(FieldDescription, *description, MaxDescriptionLen)
	}
	if color != nil && *color != "" {
		validator.HexColor(FieldColor, *color)
	}
}
