package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rs2go/internal/constants"
)

func indexedPlayer(index int) *Player {
	p := NewPlayer(&Profile{Username: "p"}, NewEquipmentDefinitions(), DefaultSpawn)
	p.SetIndex(index)
	return p
}

func TestLocalList_AddAndContains(t *testing.T) {
	t.Parallel()

	l := NewLocalList()
	a, b := indexedPlayer(1), indexedPlayer(2)

	require.NoError(t, l.Add(a))
	require.NoError(t, l.Add(b))
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains(a))
	assert.Equal(t, []*Player{a, b}, l.Players())

	require.ErrorIs(t, l.Add(a), ErrAlreadyTracked)

	other := indexedPlayer(1)
	assert.False(t, l.Contains(other), "same index, different player")
}

func TestLocalList_Capacity(t *testing.T) {
	t.Parallel()

	l := NewLocalList()
	for i := 1; i <= constants.LocalListCapacity; i++ {
		require.NoError(t, l.Add(indexedPlayer(i)))
	}
	assert.True(t, l.Full())
	require.ErrorIs(t, l.Add(indexedPlayer(300)), ErrListFull)
}

func TestLocalList_EvictKeepsSlot(t *testing.T) {
	t.Parallel()

	l := NewLocalList()
	a, b, c := indexedPlayer(1), indexedPlayer(2), indexedPlayer(3)
	for _, p := range []*Player{a, b, c} {
		require.NoError(t, l.Add(p))
	}

	assert.True(t, l.Evict(b))
	assert.False(t, l.Evict(indexedPlayer(9)))
	assert.Equal(t, 3, l.Len(), "evicted slot stays until swept")
	assert.False(t, l.Contains(b))
	assert.Equal(t, []*Player{a, c}, l.Players())

	var visited []int
	l.Sweep(func(p *Player, evicted bool) bool {
		visited = append(visited, p.Index())
		return !evicted
	})
	assert.Equal(t, []int{1, 2, 3}, visited)
	assert.Equal(t, 2, l.Len())

	require.NoError(t, l.Add(b), "swept players can be added again")
	assert.Equal(t, []*Player{a, c, b}, l.Players())
}

func TestLocalList_Clear(t *testing.T) {
	t.Parallel()

	l := NewLocalList()
	a := indexedPlayer(1)
	require.NoError(t, l.Add(a))
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains(a))
	require.NoError(t, l.Add(a))
}
