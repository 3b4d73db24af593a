package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSetRemoveKeepsOrder(t *testing.T) {
	var s SparseSet
	ents := []Entity{makeEntity(1, 0), makeEntity(2, 0), makeEntity(3, 0), makeEntity(4, 0)}
	for i, e := range ents {
		s.Set(e, i)
	}

	require.True(t, s.Remove(ents[1]))
	assert.Equal(t, []Entity{ents[0], ents[2], ents[3]}, s.Entities())
	assert.Equal(t, 2, s.Get(ents[2]))
	assert.Equal(t, 3, s.Get(ents[3]))
	assert.False(t, s.Remove(ents[1]))
}

func TestSparseSetGenerationMismatch(t *testing.T) {
	var s SparseSet
	old := makeEntity(1, 0)
	s.Set(old, "old")

	newer := makeEntity(1, 1)
	assert.False(t, s.Has(newer))
	assert.Nil(t, s.Get(newer))
	assert.False(t, s.Remove(newer))
	assert.Equal(t, 1, s.Len())
}

func TestSparseSetSetReplacesInPlace(t *testing.T) {
	var s SparseSet
	a, b := makeEntity(1, 0), makeEntity(2, 0)
	s.Set(a, 1)
	s.Set(b, 2)
	s.Set(a, 10)

	assert.Equal(t, []Entity{a, b}, s.Entities())
	assert.Equal(t, 10, s.Get(a))
}
