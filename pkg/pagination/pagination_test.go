// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taxonomy/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/categories", 1, 50},
		{"explicit", "/categories?page=3&limit=10", 3, 10},
		{"zero_page", "/categories?page=0", 1, 50},
		{"negative_limit", "/categories?limit=-5", 1, 50},
		{"over_max_limit", "/categories?limit=500", 1, 50},
		{"max_limit", "/categories?limit=100", 1, 100},
		{"garbage", "/categories?page=abc&limit=xyz", 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.FromRequest(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 50}.Offset())
	assert.Equal(t, 50, pagination.Params{Page: 2, Limit: 50}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 5, Limit: 10}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 101)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 101, meta.Total)
	assert.Equal(t, 11, meta.Pages, "pages must round up")

	empty := pagination.NewMeta(1, 10, 0)
	assert.Equal(t, 0, empty.Pages)
}
