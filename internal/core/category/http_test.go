package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taxonomy/internal/core/category"
	"github.com/taibuivan/taxonomy/internal/platform/ctxutil"
	"github.com/taibuivan/taxonomy/internal/platform/identity"
	"github.com/taibuivan/taxonomy/pkg/uuid"
)

func newTestRouter(repo *mockRepo) http.Handler {
	return category.NewHandler(newService(repo)).Routes()
}

// ---- GET / -----------------------------------------------------------------

func TestListCategories_Envelope(t *testing.T) {
	repo := &mockRepo{
		list: func(_ context.Context, f category.Filter, limit, offset int) ([]*category.Category, int, error) {
			return []*category.Category{fixture(uuid.New(), "technology", nil)}, 120, nil
		},
	}

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?page=2&limit=50", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Categories []json.RawMessage `json:"categories"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Len(t, body.Categories, 1)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 120, body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.Pages)
}

func TestListCategories_EmptyPageIsArray(t *testing.T) {
	repo := &mockRepo{
		list: func(_ context.Context, _ category.Filter, _, _ int) ([]*category.Category, int, error) {
			return nil, 0, nil
		},
	}

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"categories":[]`)
}

func TestListCategories_FilterParsing(t *testing.T) {
	parentID := uuid.New()
	var captured category.Filter
	repo := &mockRepo{
		list: func(_ context.Context, f category.Filter, _, _ int) ([]*category.Category, int, error) {
			captured = f
			return nil, 0, nil
		},
	}
	router := newTestRouter(repo)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet,
		"/?parentId="+parentID+"&search=tech&sortBy=name&sortOrder=desc", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured.ParentID)
	assert.Equal(t, parentID, *captured.ParentID)
	assert.Equal(t, "tech", captured.Search)
	assert.Equal(t, "name", captured.SortBy)
	assert.True(t, captured.SortDesc)
	require.NotNil(t, captured.IsActive, "isActive defaults to filtering on active rows")
	assert.True(t, *captured.IsActive)

	// parentId=null selects roots only.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?parentId=null&isActive=false", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, captured.RootOnly)
	assert.Nil(t, captured.ParentID)
	assert.False(t, *captured.IsActive)
}

func TestListCategories_DefaultSortIsAscending(t *testing.T) {
	// Categories list by sibling sort_order ascending unless asked otherwise;
	// only tags invert the default direction.
	var captured category.Filter
	repo := &mockRepo{
		list: func(_ context.Context, f category.Filter, _, _ int) ([]*category.Category, int, error) {
			captured = f
			return nil, 0, nil
		},
	}

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, captured.SortBy, "store falls back to sort_order")
	assert.False(t, captured.SortDesc)
}

func TestListCategories_BadParentID(t *testing.T) {
	recorder := httptest.NewRecorder()
	newTestRouter(&mockRepo{}).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?parentId=banana", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}

// ---- GET /{id} -------------------------------------------------------------

func TestGetCategory_BadID(t *testing.T) {
	recorder := httptest.NewRecorder()
	newTestRouter(&mockRepo{}).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// ---- Role gating -----------------------------------------------------------

func TestMutations_RequireEditorRole(t *testing.T) {
	router := newTestRouter(&mockRepo{})
	id := uuid.New()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/"},
		{http.MethodPut, "/" + id},
		{http.MethodDelete, "/" + id},
		{http.MethodPut, "/" + id + "/hierarchy"},
	}

	for _, tt := range requests {
		t.Run(tt.method+" "+tt.path+" anonymous", func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}")))
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})

		t.Run(tt.method+" "+tt.path+" member", func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(),
				&identity.User{ID: uuid.New(), Role: identity.RoleMember}))

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusForbidden, recorder.Code)
		})
	}
}

func TestCreateCategory_AsEditor(t *testing.T) {
	repo := &mockRepo{
		slugExists: func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		create:     func(_ context.Context, _ *category.Category) error { return nil },
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Science"}`))
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(),
		&identity.User{ID: uuid.New(), Role: identity.RoleEditor}))

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var body struct {
		Category category.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "science", body.Category.Slug)
}
