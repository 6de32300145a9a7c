package simpleorm_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm"
)

func TestChain(t *testing.T) {
	t.Run("Time", func(t *testing.T) {
		c, err := simpleorm.NewChain("time")
		require.NoError(t, err)
		now := time.Unix(0, time.Now().UnixNano()).UTC()
		v, err := c.ToStorage(now)
		require.NoError(t, err)
		assert.IsType(t, int64(0), v)
		back, err := c.FromStorage(v)
		require.NoError(t, err)
		assert.True(t, now.Equal(back.(time.Time)))
	})

	t.Run("UUID", func(t *testing.T) {
		c, err := simpleorm.NewChain("uuid")
		require.NoError(t, err)
		u := uuid.New()
		v, err := c.ToStorage(u)
		require.NoError(t, err)
		assert.Len(t, v, 16)
		back, err := c.FromStorage(v)
		require.NoError(t, err)
		assert.Equal(t, u, back)
	})

	t.Run("List", func(t *testing.T) {
		c, err := simpleorm.NewChain("list")
		require.NoError(t, err)
		v, err := c.ToStorage([]string{"a", "b"})
		require.NoError(t, err)
		b, ok := v.([]byte)
		require.True(t, ok)
		tags, err := simpleorm.DecodeList[string](b)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
		back, err := c.FromStorage(v)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, back)
	})

	t.Run("List of times", func(t *testing.T) {
		c, err := simpleorm.NewChain("time", "list")
		require.NoError(t, err)
		t1, t2 := time.Unix(10, 0).UTC(), time.Unix(20, 0).UTC()
		v, err := c.ToStorage([]time.Time{t1, t2})
		require.NoError(t, err)
		back, err := c.FromStorage(v)
		require.NoError(t, err)
		list := back.([]any)
		require.Len(t, list, 2)
		assert.True(t, t1.Equal(list[0].(time.Time)))
		assert.True(t, t2.Equal(list[1].(time.Time)))
	})

	t.Run("Unexpected value", func(t *testing.T) {
		c, err := simpleorm.NewChain("time")
		require.NoError(t, err)
		_, err = c.ToStorage("yesterday")
		assert.ErrorIs(t, err, simpleorm.ErrStorageType)
		assert.True(t, simpleorm.IsAdapterError(err))

		c, err = simpleorm.NewChain("list")
		require.NoError(t, err)
		_, err = c.ToStorage(42)
		assert.ErrorIs(t, err, simpleorm.ErrStorageType)
	})

	t.Run("Unknown adapter", func(t *testing.T) {
		_, err := simpleorm.NewChain("time", "money")
		assert.ErrorIs(t, err, simpleorm.ErrUnknownAdapter)
	})
}

func TestRegisterAdapter(t *testing.T) {
	cents := &simpleorm.Adapter{
		Name:        "test-cents",
		ToStorage:   func(v any) (any, error) { return int64(v.(float64) * 100), nil },
		FromStorage: func(v any) (any, error) { return float64(v.(int64)) / 100, nil },
	}
	require.NoError(t, simpleorm.RegisterAdapter(cents))
	assert.Error(t, simpleorm.RegisterAdapter(cents), "duplicate name")
	assert.Error(t, simpleorm.RegisterAdapter(&simpleorm.Adapter{Name: "empty"}))
	assert.Contains(t, simpleorm.Adapters(), "test-cents")

	a, err := simpleorm.LookupAdapter("test-cents")
	require.NoError(t, err)
	assert.Same(t, cents, a)

	c, err := simpleorm.NewChain("test-cents")
	require.NoError(t, err)
	v, err := c.ToStorage(1.25)
	require.NoError(t, err)
	assert.Equal(t, int64(125), v)
}
