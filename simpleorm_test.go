package simpleorm_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

func TestHasher(t *testing.T) {
	t.Parallel()

	sum := func(fn func(h *simpleorm.Hasher)) uint64 {
		h := simpleorm.NewHasher()
		fn(h)
		return h.Sum64()
	}

	t.Run("Deterministic", func(t *testing.T) {
		fn := func(h *simpleorm.Hasher) { h.Int64(1).String("a8m").Bool(true).Float64(1.5).Bytes([]byte{1}) }
		assert.Equal(t, sum(fn), sum(fn))
	})

	t.Run("Order sensitive", func(t *testing.T) {
		a := sum(func(h *simpleorm.Hasher) { h.Int64(1).Int64(2) })
		b := sum(func(h *simpleorm.Hasher) { h.Int64(2).Int64(1) })
		assert.NotEqual(t, a, b)
	})

	t.Run("No aliasing between adjacent strings", func(t *testing.T) {
		a := sum(func(h *simpleorm.Hasher) { h.String("ab").String("c") })
		b := sum(func(h *simpleorm.Hasher) { h.String("a").String("bc") })
		assert.NotEqual(t, a, b)
	})

	t.Run("Zero floats hash alike", func(t *testing.T) {
		a := sum(func(h *simpleorm.Hasher) { h.Float64(0) })
		b := sum(func(h *simpleorm.Hasher) { h.Float64(math.Copysign(0, -1)) })
		assert.Equal(t, a, b)
	})

	t.Run("Equal instants hash alike", func(t *testing.T) {
		now := time.Now()
		loc := time.FixedZone("X", 3600)
		require.True(t, now.Equal(now.In(loc)))
		assert.Equal(t, sum(func(h *simpleorm.Hasher) { h.Time(now) }), sum(func(h *simpleorm.Hasher) { h.Time(now.In(loc)) }))
	})

	t.Run("UUID", func(t *testing.T) {
		u := uuid.New()
		assert.Equal(t, sum(func(h *simpleorm.Hasher) { h.UUID(u) }), sum(func(h *simpleorm.Hasher) { h.UUID(u) }))
		assert.NotEqual(t, sum(func(h *simpleorm.Hasher) { h.UUID(u) }), sum(func(h *simpleorm.Hasher) { h.UUID(uuid.New()) }))
	})
}

type node interface{ GetID() int64 }

type nodeImpl struct{ id int64 }

func (n *nodeImpl) GetID() int64 { return n.id }

func TestRefs(t *testing.T) {
	t.Parallel()
	id := func(n node) int64 { return n.GetID() }
	a1, a2, b := &nodeImpl{id: 1}, &nodeImpl{id: 1}, &nodeImpl{id: 2}

	t.Run("RefEqual by id", func(t *testing.T) {
		assert.True(t, simpleorm.RefEqual[node](a1, a2, id))
		assert.False(t, simpleorm.RefEqual[node](a1, b, id))
		assert.True(t, simpleorm.RefEqual[node](nil, nil, id))
		assert.False(t, simpleorm.RefEqual[node](a1, nil, id))
	})

	t.Run("RefEqual by identity", func(t *testing.T) {
		assert.True(t, simpleorm.RefEqual[node](a1, a1, nil))
		assert.False(t, simpleorm.RefEqual[node](a1, a2, nil))
	})

	t.Run("RefsEqual", func(t *testing.T) {
		assert.True(t, simpleorm.RefsEqual([]node{a1, b}, []node{a2, b}, id))
		assert.False(t, simpleorm.RefsEqual([]node{a1, b}, []node{b, a1}, id))
		assert.False(t, simpleorm.RefsEqual([]node{a1}, []node{a1, b}, id))
	})

	t.Run("Hash consistent with equality", func(t *testing.T) {
		h1 := simpleorm.Refs(simpleorm.NewHasher(), []node{a1, nil}, id).Sum64()
		h2 := simpleorm.Refs(simpleorm.NewHasher(), []node{a2, nil}, id).Sum64()
		assert.Equal(t, h1, h2)
		h3 := simpleorm.Ref[node](simpleorm.NewHasher(), b, id).Sum64()
		h4 := simpleorm.Ref[node](simpleorm.NewHasher(), a1, id).Sum64()
		assert.NotEqual(t, h3, h4)
	})

	t.Run("Typed nil", func(t *testing.T) {
		var missing *nodeImpl
		assert.NotPanics(t, func() {
			assert.True(t, simpleorm.RefEqual[node](missing, nil, id))
			assert.False(t, simpleorm.RefEqual[node](missing, a1, id))
			assert.True(t, simpleorm.RefsEqual([]node{missing}, []node{nil}, id))
		})
		assert.Equal(t,
			simpleorm.Ref[node](simpleorm.NewHasher(), nil, id).Sum64(),
			simpleorm.Ref[node](simpleorm.NewHasher(), missing, id).Sum64(),
		)
	})
}

func TestSequence(t *testing.T) {
	t.Parallel()

	t.Run("Next", func(t *testing.T) {
		s := simpleorm.NewSequence()
		assert.Equal(t, int64(1), s.Next())
		assert.Equal(t, int64(2), s.Next())
		assert.Equal(t, int64(2), s.Current())
	})

	t.Run("Observe", func(t *testing.T) {
		s := simpleorm.NewSequence()
		s.Observe(10)
		assert.Equal(t, int64(11), s.Next())
		s.Observe(3)
		assert.Equal(t, int64(12), s.Next())
		s.Reset()
		assert.Equal(t, int64(1), s.Next())
	})

	t.Run("Concurrent", func(t *testing.T) {
		s := simpleorm.NewSequence()
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]bool)
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					id := s.Next()
					mu.Lock()
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 800)
		assert.Equal(t, int64(800), s.Current())
	})
}

func TestDatabase(t *testing.T) {
	t.Parallel()
	users := &simpleorm.Table{
		Name:   "users",
		Entity: "User",
		Columns: []simpleorm.Column{
			{Name: "id", Kind: field.Integer64, ID: true},
			{Name: "name", Kind: field.Text},
		},
		Version: schema.Unversioned(),
	}
	legacy := &simpleorm.Table{Name: "legacy", Version: schema.Version{Added: 1, Removed: 2}}
	db := &simpleorm.Database{Name: "app", Version: 3, Tables: []*simpleorm.Table{users, legacy}}

	tbl, err := db.Table("users")
	require.NoError(t, err)
	assert.Same(t, users, tbl)
	_, err = db.Table("posts")
	assert.True(t, simpleorm.IsNotFound(err))

	id, ok := users.ID()
	require.True(t, ok)
	assert.Equal(t, "id", id.Name)
	_, ok = legacy.ID()
	assert.False(t, ok)

	c, err := users.Column("name")
	require.NoError(t, err)
	assert.Equal(t, field.Text, c.Kind)
	_, err = users.Column("email")
	assert.ErrorIs(t, err, simpleorm.ErrNotFound)

	assert.Equal(t, []string{"id", "name"}, users.ColumnNames())
	assert.Equal(t, []*simpleorm.Table{users}, db.LiveTables())
}
