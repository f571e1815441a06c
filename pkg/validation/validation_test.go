package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrReturnsNilWhenEmpty(t *testing.T) {
	var v Errors
	assert.NoError(t, v.Err())
}

func TestCollectsEveryViolation(t *testing.T) {
	var v Errors
	v.Add("name", "required", "name is required")
	v.Add("email", "required", "email is required")

	err := v.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: name is required")
	assert.Contains(t, err.Error(), "email: email is required")
	assert.True(t, v.Has("email"))
	assert.False(t, v.Has("price"))
}

func TestAsUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", New("items", "required", "items required"))

	v, ok := As(wrapped)
	require.True(t, ok)
	require.Len(t, v.Fields, 1)
	assert.Equal(t, "items", v.Fields[0].Field)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
