// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taxonomy/internal/platform/apperr"
	"github.com/taibuivan/taxonomy/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Technology", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_HexColor checks the #RRGGBB color format rule.
*/
func TestValidator_HexColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		isValid bool
	}{
		{"valid_upper", "#3B82F6", true},
		{"valid_lower", "#ff00aa", true},
		{"missing_hash", "3B82F6", false},
		{"short", "#FFF", false},
		{"bad_digit", "#12345G", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.HexColor("color", tt.color)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_UUID checks the UUID format rule, including case folding.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"valid_v7", "0190a6b2-3c4d-7e5f-8a9b-0c1d2e3f4a5b", true},
		{"valid_uppercase", "0190A6B2-3C4D-7E5F-8A9B-0C1D2E3F4A5B", true},
		{"missing_hyphens", "0190a6b23c4d7e5f8a9b0c1d2e3f4a5b", false},
		{"not_a_uuid", "technology", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.UUID("parentId", tt.value)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Slug checks the URL slug format rule.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"simple", "technology", true},
		{"hyphenated", "machine-learning", true},
		{"with_digits", "web3-basics", true},
		{"uppercase", "Technology", false},
		{"leading_hyphen", "-tech", false},
		{"double_hyphen", "a--b", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Slug("slug", tt.value)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_OneOf checks the enumeration rule.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("sortBy", "name", "name", "sort_order", "created_at")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("sortBy", "password", "name", "sort_order", "created_at")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Custom checks the escape-hatch rule.
*/
func TestValidator_Custom(t *testing.T) {
	v := &validate.Validator{}
	v.Custom("sortOrder", false, "Must not be negative")
	assert.False(t, v.HasErrors())

	v.Custom("sortOrder", true, "Must not be negative")
	assert.True(t, v.HasErrors())

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "Must not be negative", ae.Details[0].Message)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Technology").
		MinLen("name", "Technology", 3).
		MaxLen("name", "Technology", 100).
		HexColor("color", "#3B82F6").
		Min("sortOrder", 0, 0).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").        // Fails
		MinLen("name", "a", 5).      // Fails
		HexColor("color", "purple"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
