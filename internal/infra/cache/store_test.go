package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := New()

	_, ok := s.Get("bookings:today")
	assert.False(t, ok)
	assert.True(t, s.IsStale("bookings:today"))

	s.Set("bookings:today", []int64{1, 2, 3})

	got, ok := s.Get("bookings:today")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, got)
	assert.False(t, s.IsStale("bookings:today"))
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := New()
	s.Set("a", map[string]int{"x": 1})
	s.Set("b", "before")
	// "c" отсутствует

	snap := s.Snapshot("a", "b", "c")

	s.Set("a", map[string]int{"x": 99})
	s.Set("b", "after")
	s.Set("c", "created")

	s.Restore(snap)

	a, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"x": 1}, a)

	b, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "before", b)

	// Отсутствие значения тоже восстанавливается
	_, ok = s.Get("c")
	assert.False(t, ok)
}

func TestStore_InvalidateCascades(t *testing.T) {
	s := New()
	s.Set("membership:7", "windows")
	s.Set("bookings:today", "today")
	s.Set("bookings:upcoming", "upcoming")
	s.Set("unrelated", "untouched")

	s.Link("membership:7", "bookings:today")
	s.Link("membership:7", "bookings:upcoming")

	s.Invalidate("membership:7")

	assert.True(t, s.IsStale("membership:7"))
	assert.True(t, s.IsStale("bookings:today"))
	assert.True(t, s.IsStale("bookings:upcoming"))
	assert.False(t, s.IsStale("unrelated"))

	// Значения при инвалидации не теряются, только помечаются устаревшими
	v, ok := s.Get("bookings:today")
	require.True(t, ok)
	assert.Equal(t, "today", v)
}

func TestStore_InvalidateTransitive(t *testing.T) {
	s := New()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	s.Link("a", "b")
	s.Link("b", "c")
	// Цикл не должен зависнуть
	s.Link("c", "a")

	s.Invalidate("a")

	assert.True(t, s.IsStale("a"))
	assert.True(t, s.IsStale("b"))
	assert.True(t, s.IsStale("c"))
}

func TestStore_RefetchToken(t *testing.T) {
	s := New()
	s.Set("key", "v1")

	token := s.BeginRefetch("key")
	assert.True(t, s.CompleteRefetch(token, "v2"))

	v, _ := s.Get("key")
	assert.Equal(t, "v2", v)
}

func TestStore_StaleRefetchIsRejected(t *testing.T) {
	s := New()
	s.Set("key", "cached")

	token := s.BeginRefetch("key")

	// Оптимистичная запись после начала перечитывания
	s.Set("key", "optimistic")

	assert.False(t, s.CompleteRefetch(token, "from-server"),
		"a refetch started before the optimistic write must not clobber it")

	v, _ := s.Get("key")
	assert.Equal(t, "optimistic", v)
}

func TestStore_CancelRefetch(t *testing.T) {
	s := New()
	s.Set("key", "cached")

	token := s.BeginRefetch("key")
	s.CancelRefetch("key")

	assert.False(t, s.CompleteRefetch(token, "late-read"))

	v, _ := s.Get("key")
	assert.Equal(t, "cached", v)
}

func TestStore_LinkIsIdempotent(t *testing.T) {
	s := New()
	s.Link("a", "b")
	s.Link("a", "b")

	s.Set("b", 1)
	s.Invalidate("a")
	assert.True(t, s.IsStale("b"))
}
