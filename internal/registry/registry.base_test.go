package registry

import (
	"errors"
	"testing"

	"explorerhub/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("a", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.ErrorIs(t, err, common.ErrRequiredField)
}

func TestRegistry_MustGet(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.MustGet("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistry_ClearAll(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("a", 1)
	_, _ = r.Register("b", 2)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	boom := errors.New("boom")
	count, err := r.ClearAll(func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	assert.Equal(t, 2, count)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.Names())
}

func TestRegistry_ClearKeepsItemOnCleanupFailure(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("a", 1)
	deleted, err := r.Clear("a", func(int) error { return errors.New("nope") })
	assert.Error(t, err)
	assert.False(t, deleted)
	_, ok := r.Get("a")
	assert.True(t, ok)
}
