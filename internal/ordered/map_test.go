package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := New[int]()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4) // re-set keeps position

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
	}
	assert.Equal(t, m.Keys(), seen)
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *Map[string]
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	assert.Nil(t, m.Keys())
	for range m.All() {
		t.Fatal("nil map must not yield")
	}
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	c := m.Clone()
	c.Set("b", 2)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}
