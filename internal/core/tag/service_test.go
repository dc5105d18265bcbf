package tag_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taxonomy/internal/core/tag"
	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/constants"
	"github.com/taibuivan/taxonomy/internal/platform/dberr"
	"github.com/taibuivan/taxonomy/pkg/pointer"
	"github.com/taibuivan/taxonomy/pkg/uuid"
)

// ---- mock Repository --------------------------------------------------------

type mockRepo struct {
	list       func(ctx context.Context, f tag.Filter, limit, offset int) ([]*tag.Tag, int, error)
	get        func(ctx context.Context, id string) (*tag.Tag, error)
	create     func(ctx context.Context, t *tag.Tag) error
	update     func(ctx context.Context, t *tag.Tag) error
	delete     func(ctx context.Context, id string) error
	popular    func(ctx context.Context, limit int) ([]*tag.Tag, error)
	slugExists func(ctx context.Context, slug, excludeID string) (bool, error)
}

func (m *mockRepo) List(ctx context.Context, f tag.Filter, limit, offset int) ([]*tag.Tag, int, error) {
	return m.list(ctx, f, limit, offset)
}
func (m *mockRepo) Get(ctx context.Context, id string) (*tag.Tag, error) {
	return m.get(ctx, id)
}
func (m *mockRepo) Create(ctx context.Context, t *tag.Tag) error {
	return m.create(ctx, t)
}
func (m *mockRepo) Update(ctx context.Context, t *tag.Tag) error {
	return m.update(ctx, t)
}
func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockRepo) Popular(ctx context.Context, limit int) ([]*tag.Tag, error) {
	return m.popular(ctx, limit)
}
func (m *mockRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return m.slugExists(ctx, slug, excludeID)
}

// compile-time check
var _ tag.Repository = (*mockRepo)(nil)

// ---- helpers ---------------------------------------------------------------

const defaultPopularLimit = 20

// newService builds a cacheless service; Popular falls through to the
// repository on every call.
func newService(repo *mockRepo) *tag.Service {
	return tag.NewService(repo, nil, defaultPopularLimit, slog.New(slog.DiscardHandler))
}

func fixture(name string, usageCount int) *tag.Tag {
	return &tag.Tag{
		ID:         uuid.New(),
		Name:       name,
		Slug:       name,
		UsageCount: usageCount,
		IsActive:   true,
	}
}

// ---- Create ----------------------------------------------------------------

func TestCreate_GeneratesSlug(t *testing.T) {
	repo := &mockRepo{
		slugExists: func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		create:     func(_ context.Context, _ *tag.Tag) error { return nil },
	}

	got, err := newService(repo).Create(context.Background(), tag.CreateInput{Name: "Home Automation"})

	require.NoError(t, err)
	assert.Equal(t, "home-automation", got.Slug)
	assert.Zero(t, got.UsageCount, "new tags start unused")
	assert.True(t, got.IsActive)
}

func TestCreate_SuffixesTakenSlug(t *testing.T) {
	taken := map[string]bool{"golang": true}
	repo := &mockRepo{
		slugExists: func(_ context.Context, slug, _ string) (bool, error) { return taken[slug], nil },
		create:     func(_ context.Context, _ *tag.Tag) error { return nil },
	}

	got, err := newService(repo).Create(context.Background(), tag.CreateInput{Name: "Golang"})

	require.NoError(t, err)
	assert.Equal(t, "golang-1", got.Slug)
}

func TestCreate_RetriesAfterSlugRace(t *testing.T) {
	inserted := map[string]bool{}
	attempts := 0
	repo := &mockRepo{
		slugExists: func(_ context.Context, slug, _ string) (bool, error) { return inserted[slug], nil },
		create: func(_ context.Context, candidate *tag.Tag) error {
			attempts++
			if attempts == 1 {
				inserted["golang"] = true
				return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "create_tag")
			}
			inserted[candidate.Slug] = true
			return nil
		},
	}

	got, err := newService(repo).Create(context.Background(), tag.CreateInput{Name: "Golang"})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "golang-1", got.Slug)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	service := newService(&mockRepo{})

	cases := []struct {
		name  string
		input tag.CreateInput
	}{
		{"empty name", tag.CreateInput{Name: ""}},
		{"name too long", tag.CreateInput{Name: string(make([]byte, tag.MaxNameLen+1))}},
		{"bad color", tag.CreateInput{Name: "Ok", Color: pointer.To("#12345G")}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), testCase.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 400, appError.HTTPStatus)
		})
	}
}

// ---- Update ----------------------------------------------------------------

func TestUpdate_NameChangeRegeneratesSlug(t *testing.T) {
	id := uuid.New()
	repo := &mockRepo{
		get: func(_ context.Context, _ string) (*tag.Tag, error) {
			return fixture("golang", 7), nil
		},
		slugExists: func(_ context.Context, _, excludeID string) (bool, error) {
			assert.Equal(t, id, excludeID)
			return false, nil
		},
		update: func(_ context.Context, _ *tag.Tag) error { return nil },
	}

	got, err := newService(repo).Update(context.Background(), id, tag.UpdateInput{
		Name: pointer.To("Go Programming"),
	})

	require.NoError(t, err)
	assert.Equal(t, "go-programming", got.Slug)
	assert.Equal(t, 7, got.UsageCount, "usage count is never writable through the API")
}

func TestUpdate_SlugStableWithoutNameChange(t *testing.T) {
	repo := &mockRepo{
		get: func(_ context.Context, _ string) (*tag.Tag, error) {
			return fixture("golang", 0), nil
		},
		slugExists: func(_ context.Context, _, _ string) (bool, error) {
			t.Fatal("slug must not be recomputed when the name is absent")
			return false, nil
		},
		update: func(_ context.Context, _ *tag.Tag) error { return nil },
	}

	got, err := newService(repo).Update(context.Background(), uuid.New(), tag.UpdateInput{
		IsActive: pointer.To(false),
	})

	require.NoError(t, err)
	assert.Equal(t, "golang", got.Slug)
	assert.False(t, got.IsActive)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockRepo{
		get: func(_ context.Context, _ string) (*tag.Tag, error) { return nil, dberr.ErrNotFound },
	}

	_, err := newService(repo).Update(context.Background(), uuid.New(), tag.UpdateInput{})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
	assert.Contains(t, appError.Message, "Tag")
}

// ---- Delete ----------------------------------------------------------------

func TestDelete(t *testing.T) {
	deleted := false
	repo := &mockRepo{
		get:    func(_ context.Context, _ string) (*tag.Tag, error) { return fixture("old", 0), nil },
		delete: func(_ context.Context, _ string) error { deleted = true; return nil },
	}

	require.NoError(t, newService(repo).Delete(context.Background(), uuid.New()))
	assert.True(t, deleted)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockRepo{
		get: func(_ context.Context, _ string) (*tag.Tag, error) { return nil, dberr.ErrNotFound },
	}

	err := newService(repo).Delete(context.Background(), uuid.New())

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

// ---- Popular ---------------------------------------------------------------

func TestPopular_DefaultLimit(t *testing.T) {
	full := make([]*tag.Tag, constants.MaxPopularTagsLimit)
	for i := range full {
		full[i] = fixture("t", constants.MaxPopularTagsLimit-i)
	}

	repo := &mockRepo{
		popular: func(_ context.Context, limit int) ([]*tag.Tag, error) {
			// Repository is always asked for the full cacheable window.
			assert.Equal(t, constants.MaxPopularTagsLimit, limit)
			return full, nil
		},
	}

	got, err := newService(repo).Popular(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, got, defaultPopularLimit)
}

func TestPopular_ExplicitLimit(t *testing.T) {
	repo := &mockRepo{
		popular: func(_ context.Context, _ int) ([]*tag.Tag, error) {
			return []*tag.Tag{fixture("a", 3), fixture("b", 2), fixture("c", 1)}, nil
		},
	}

	got, err := newService(repo).Popular(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}

func TestPopular_ClampsOversizedLimit(t *testing.T) {
	repo := &mockRepo{
		popular: func(_ context.Context, limit int) ([]*tag.Tag, error) {
			assert.Equal(t, constants.MaxPopularTagsLimit, limit)
			return []*tag.Tag{}, nil
		},
	}

	got, err := newService(repo).Popular(context.Background(), constants.MaxPopularTagsLimit*10)

	require.NoError(t, err)
	assert.Empty(t, got)
}
