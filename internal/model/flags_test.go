package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFlags_CopiesAreQueryable(t *testing.T) {
	t.Parallel()

	var f UpdateFlags
	f.SetChat(ChatMessage{Color: 1, Effects: 2})
	f.Damage(Hit{Damage: 3, Type: HitNormal})

	// a snapshot kept by value, as the tick hook does
	seen := map[string]UpdateFlags{"alice": f}
	assert.True(t, seen["alice"].Has(FlagChat))
	assert.True(t, seen["alice"].UpdateRequired())
	assert.Equal(t, FlagChat|FlagHit, seen["alice"].Mask())

	f.Reset()
	assert.False(t, f.UpdateRequired())
	assert.True(t, seen["alice"].Has(FlagHit), "the snapshot keeps its bits")
}

func TestUpdateFlags_SecondHitSlot(t *testing.T) {
	t.Parallel()

	var f UpdateFlags
	f.Damage(Hit{Damage: 1, Type: HitNormal})
	f.Damage(Hit{Damage: 4, Type: HitPoison})

	assert.Equal(t, FlagHit|FlagSecondHit, f.Mask())
	assert.Equal(t, Hit{Damage: 1, Type: HitNormal}, f.Hit)
	assert.Equal(t, Hit{Damage: 4, Type: HitPoison}, f.SecondHit)
}
