package tag_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taxonomy/internal/core/tag"
)

func newTestRouter(repo *mockRepo) http.Handler {
	return tag.NewHandler(newService(repo)).Routes()
}

// ---- GET / -----------------------------------------------------------------

func TestListTags_DefaultSortIsUsageDescending(t *testing.T) {
	var captured tag.Filter
	repo := &mockRepo{
		list: func(_ context.Context, f tag.Filter, _, _ int) ([]*tag.Tag, int, error) {
			captured = f
			return nil, 0, nil
		},
	}

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, captured.SortBy, "store falls back to usage_count")
	assert.True(t, captured.SortDesc, "tags list most-used first by default")
}

func TestListTags_AscendingOnRequest(t *testing.T) {
	var captured tag.Filter
	repo := &mockRepo{
		list: func(_ context.Context, f tag.Filter, _, _ int) ([]*tag.Tag, int, error) {
			captured = f
			return nil, 0, nil
		},
	}
	router := newTestRouter(repo)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?sortBy=name&sortOrder=asc", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "name", captured.SortBy)
	assert.False(t, captured.SortDesc)

	// Any value other than an explicit "asc" keeps the descending default.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?sortOrder=desc", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, captured.SortDesc)
}

func TestListTags_Envelope(t *testing.T) {
	repo := &mockRepo{
		list: func(_ context.Context, _ tag.Filter, _, _ int) ([]*tag.Tag, int, error) {
			return []*tag.Tag{fixture("golang", 9)}, 1, nil
		},
	}

	recorder := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Tags       []tag.Tag `json:"tags"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Tags, 1)
	assert.Equal(t, "golang", body.Tags[0].Name)
	assert.Equal(t, 1, body.Pagination.Total)
}

// ---- GET /popular ----------------------------------------------------------

func TestPopularTags_BadLimit(t *testing.T) {
	recorder := httptest.NewRecorder()
	newTestRouter(&mockRepo{}).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/popular?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}
