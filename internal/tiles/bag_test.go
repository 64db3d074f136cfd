package tiles

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRng() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestNewBagHoldsFullInventory(t *testing.T) {
	b := NewBag(newRng())
	assert.Equal(t, TotalInitialQuantity(), b.Total())
	assert.False(t, b.Empty())
}

func TestDrawUntilEmpty(t *testing.T) {
	b := NewBag(newRng())
	total := b.Total()
	for i := 0; i < total; i++ {
		letter, ok := b.Draw()
		require.True(t, ok, "draw %d should succeed", i)
		require.NotEmpty(t, letter)
	}
	assert.True(t, b.Empty())
	_, ok := b.Draw()
	assert.False(t, ok, "empty bag must refuse to draw")
}

func TestDrawDeletesExhaustedLetter(t *testing.T) {
	b := NewBagFrom(map[string]int{"Q": 1}, newRng())
	letter, ok := b.Draw()
	require.True(t, ok)
	assert.Equal(t, "Q", letter)
	assert.True(t, b.Empty())
	assert.NotContains(t, b.Counts(), "Q")
}

func TestReturn(t *testing.T) {
	b := NewBagFrom(map[string]int{}, newRng())
	b.Return("E")
	b.Return("E")
	assert.Equal(t, 2, b.Counts()["E"])
	assert.Equal(t, 2, b.Total())
}

func TestDealRacks(t *testing.T) {
	b := NewBag(newRng())
	racks := b.DealRacks([]string{"p1", "p2", "p3"})
	require.Len(t, racks, 3)
	for id, rack := range racks {
		assert.Len(t, rack, RackSize, "player %s", id)
	}
	assert.Equal(t, TotalInitialQuantity()-3*RackSize, b.Total())
}

func TestDealRacksShortBag(t *testing.T) {
	b := NewBagFrom(map[string]int{"A": 3}, newRng())
	racks := b.DealRacks([]string{"p1", "p2"})
	assert.Len(t, racks["p1"], 3)
	assert.Empty(t, racks["p2"])
	assert.True(t, b.Empty())
}

func TestRefillReplacesSlots(t *testing.T) {
	b := NewBagFrom(map[string]int{"Z": 2}, newRng())
	rack := b.Refill([]string{"A", "B", "C"}, []int{0, 2})
	require.Len(t, rack, 3)
	assert.Equal(t, []string{"Z", "B", "Z"}, rack)
	assert.True(t, b.Empty())
}

func TestRefillDropsUnfillableSlots(t *testing.T) {
	b := NewBagFrom(map[string]int{"Z": 1}, newRng())
	rack := b.Refill([]string{"A", "B", "C"}, []int{0, 2})
	// One replacement available: slot 0 is refilled, slot 2 is dropped.
	assert.Equal(t, []string{"Z", "B"}, rack)
	assert.True(t, b.Empty())
}

func TestRefillConservesTiles(t *testing.T) {
	b := NewBag(newRng())
	before := b.Total()
	rack := b.DealRacks([]string{"p"})["p"]
	rack = b.Refill(rack, []int{0, 1, 2})
	assert.Len(t, rack, RackSize)
	assert.Equal(t, before-RackSize-3, b.Total())
}
