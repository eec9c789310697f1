package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Title       Nullable[string] `json:"title"`
	Description Nullable[string] `json:"description"`
}

func TestNullable_AbsentNullAndValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &p))

	assert.False(t, p.Title.Set)
	assert.True(t, p.Description.Set)
	assert.Nil(t, p.Description.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"title": "Ship it"}`), &p))
	assert.True(t, p.Title.Set)
	require.NotNil(t, p.Title.Value)
	assert.Equal(t, "Ship it", *p.Title.Value)
}

func TestNullable_RejectsWrongType(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"title": 42}`), &p))
}

func TestNullable_Constructors(t *testing.T) {
	v := NullableOf("x")
	assert.True(t, v.Set)
	assert.Equal(t, "x", *v.Value)

	n := Null[string]()
	assert.True(t, n.Set)
	assert.Nil(t, n.Value)
}

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(3, 10)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, p)

	p = NewPaginationParams(0, 1000)
	assert.Equal(t, PaginationParams{Page: 1, Limit: 20, Offset: 0}, p)

	assert.Equal(t, PaginationResponse{Page: 3, Limit: 10, Total: 42}, NewPaginationParams(3, 10).Response(42))
}
